// Package relate derives relationships from entity records.
//
// Entities sharing a grouping attribute value (same classification, same
// family) are chained into sequential relationships: a group of k entities
// produces k-1 edges, not a clique. Grouping preserves the input order of
// entities, so the same input always yields the same relationship list.
//
// The builder is a pure function with no error conditions: entities missing
// an attribute are grouped together under the empty-string key, and a group
// of one produces nothing.
//
// # Example
//
//	entities := []entity.Entity{
//	    {ID: "nav", Attrs: map[string]string{"classification": "layout"}},
//	    {ID: "footer", Attrs: map[string]string{"classification": "layout"}},
//	}
//	rels := relate.Build(entities, []string{"classification"})
//	// rels: [{nav footer classification layout}]
package relate
