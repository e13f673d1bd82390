package graph

import (
	"bytes"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/knotworks/forcemap/pkg/entity"
	"github.com/knotworks/forcemap/pkg/relate"
	"github.com/knotworks/forcemap/pkg/sim"
)

func sampleLayout(t *testing.T) Layout {
	t.Helper()
	entities := []entity.Entity{
		{ID: "b", Attrs: map[string]string{"classification": "nav"}},
		{ID: "a", Attrs: map[string]string{"classification": "nav"}},
	}
	rels := relate.Build(entities, []string{"classification"})
	cfg := sim.Config{Width: 500, Height: 300}
	g := sim.NewGraph(entities, rels, cfg, nil)
	sim.NewBruteForce(cfg).Run(g)
	return FromSim(g, cfg, 42, EngineBruteForce)
}

func TestFromSim_SortsNodesByID(t *testing.T) {
	l := sampleLayout(t)

	if len(l.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(l.Nodes))
	}
	if l.Nodes[0].ID != "a" || l.Nodes[1].ID != "b" {
		t.Errorf("node order = [%s %s], want [a b]", l.Nodes[0].ID, l.Nodes[1].ID)
	}
	if l.Width != 500 || l.Height != 300 {
		t.Errorf("frame = %vx%v, want 500x300", l.Width, l.Height)
	}
	if l.Seed != 42 || l.Engine != EngineBruteForce {
		t.Errorf("seed/engine = %d/%s, want 42/%s", l.Seed, l.Engine, EngineBruteForce)
	}
}

func TestFromSim_EdgesReferenceByID(t *testing.T) {
	l := sampleLayout(t)

	if len(l.Edges) != 1 {
		t.Fatalf("len(Edges) = %d, want 1", len(l.Edges))
	}
	e := l.Edges[0]
	if e.Source != "b" || e.Target != "a" {
		t.Errorf("edge = %s→%s, want b→a (builder order)", e.Source, e.Target)
	}
	if e.Type != "classification" || e.Label != "nav" {
		t.Errorf("edge type/label = %s/%s, want classification/nav", e.Type, e.Label)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	l := sampleLayout(t)

	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		t.Fatalf("WriteLayout() error = %v", err)
	}
	got, err := ReadLayout(&buf)
	if err != nil {
		t.Fatalf("ReadLayout() error = %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, l)
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	l := sampleLayout(t)
	path := filepath.Join(t.TempDir(), "layout.json")

	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error = %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if !reflect.DeepEqual(got, l) {
		t.Error("file round trip mismatch")
	}
}

func TestRelationsFileRoundTrip(t *testing.T) {
	rs := Relations{
		Attrs: []string{"classification"},
		Relationships: []relate.Relationship{
			{Source: "a", Target: "b", Type: "classification", Label: "nav"},
		},
	}
	path := filepath.Join(t.TempDir(), "relations.json")

	if err := WriteRelationsFile(rs, path); err != nil {
		t.Fatalf("WriteRelationsFile() error = %v", err)
	}
	got, err := ReadRelationsFile(path)
	if err != nil {
		t.Fatalf("ReadRelationsFile() error = %v", err)
	}
	if !reflect.DeepEqual(got, rs) {
		t.Errorf("round trip mismatch: got %+v want %+v", got, rs)
	}
}

func TestReadLayout_Invalid(t *testing.T) {
	if _, err := ReadLayout(bytes.NewReader([]byte("not json"))); err == nil {
		t.Error("ReadLayout() = nil error, want decode failure")
	}
}
