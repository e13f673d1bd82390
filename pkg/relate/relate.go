package relate

import (
	"github.com/knotworks/forcemap/pkg/entity"
)

// DefaultAttrs are the grouping attributes used when the caller does not
// specify any. They match the attribute names most entity feeds carry.
var DefaultAttrs = []string{"classification", "family"}

// Relationship is a derived, labeled connection between two entities that
// share a grouping attribute value. The pair is unordered for layout
// purposes; Source/Target only record the chaining direction.
type Relationship struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`

	// Type names the grouping attribute that produced this relationship
	// (e.g., "classification"); Label carries the shared value.
	Type  string `json:"type" bson:"type"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
}

// Build derives relationships from entities by chaining entities that share
// a value for each of the given grouping attributes.
//
// For each attribute, entities are partitioned by the attribute's value,
// preserving input order within each partition, and every partition of size
// two or more is chained into consecutive pairs. Partitions of size one
// contribute nothing - isolated entities stay node-only.
//
// The output concatenates each attribute's relationships in the order attrs
// are given. A pair connected through two different attributes appears twice;
// the duplicates encode independent semantic links and are kept.
//
// A missing attribute value groups under the empty string, so entities
// without the attribute still chain with each other.
func Build(entities []entity.Entity, attrs []string) []Relationship {
	if len(attrs) == 0 {
		attrs = DefaultAttrs
	}

	var rels []Relationship
	for _, attr := range attrs {
		rels = append(rels, chainByAttr(entities, attr)...)
	}
	return rels
}

// chainByAttr partitions entities by one attribute's value and chains each
// group into sequential relationships.
func chainByAttr(entities []entity.Entity, attr string) []Relationship {
	groups := make(map[string][]string)
	var order []string // group keys in first-seen order, for deterministic output

	for _, e := range entities {
		key := e.Attr(attr)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], e.ID)
	}

	var rels []Relationship
	for _, key := range order {
		ids := groups[key]
		for i := 0; i+1 < len(ids); i++ {
			rels = append(rels, Relationship{
				Source: ids[i],
				Target: ids[i+1],
				Type:   attr,
				Label:  key,
			})
		}
	}
	return rels
}
