package entity

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate_OK(t *testing.T) {
	entities := []Entity{
		{ID: "nav", Label: "Navigation"},
		{ID: "footer"},
	}
	if err := Validate(entities); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidate_EmptyID(t *testing.T) {
	err := Validate([]Entity{{ID: "a"}, {ID: ""}})
	if !errors.Is(err, ErrEmptyID) {
		t.Errorf("Validate() = %v, want ErrEmptyID", err)
	}
}

func TestValidate_DuplicateID(t *testing.T) {
	err := Validate([]Entity{{ID: "a"}, {ID: "b"}, {ID: "a"}})
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("Validate() = %v, want ErrDuplicateID", err)
	}
}

func TestAttr_Missing(t *testing.T) {
	e := Entity{ID: "a"}
	if got := e.Attr("classification"); got != "" {
		t.Errorf("Attr() = %q, want empty string", got)
	}
}

func TestDisplayLabel(t *testing.T) {
	e := Entity{ID: "nav"}
	if got := e.DisplayLabel(); got != "nav" {
		t.Errorf("DisplayLabel() = %q, want %q", got, "nav")
	}
	e.Label = "Navigation"
	if got := e.DisplayLabel(); got != "Navigation" {
		t.Errorf("DisplayLabel() = %q, want %q", got, "Navigation")
	}
}

func TestReadEntities(t *testing.T) {
	input := `[
		{"id": "nav", "label": "Navigation", "attrs": {"classification": "layout"}, "weight": 12},
		{"id": "footer", "attrs": {"classification": "layout"}}
	]`

	entities, err := ReadEntities(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadEntities() error = %v", err)
	}
	if len(entities) != 2 {
		t.Fatalf("len(entities) = %d, want 2", len(entities))
	}
	if entities[0].Attr("classification") != "layout" {
		t.Errorf("Attr(classification) = %q, want %q", entities[0].Attr("classification"), "layout")
	}
	if entities[0].Weight != 12 {
		t.Errorf("Weight = %v, want 12", entities[0].Weight)
	}
}

func TestReadEntities_InvalidJSON(t *testing.T) {
	if _, err := ReadEntities(strings.NewReader("{not json")); err == nil {
		t.Error("ReadEntities() = nil error, want decode failure")
	}
}

func TestReadEntities_RejectsDuplicates(t *testing.T) {
	input := `[{"id": "a"}, {"id": "a"}]`
	if _, err := ReadEntities(strings.NewReader(input)); !errors.Is(err, ErrDuplicateID) {
		t.Errorf("ReadEntities() = %v, want ErrDuplicateID", err)
	}
}
