package scene

import (
	"testing"

	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

func validGraph() *Graph {
	g := NewGraph()
	g.Entities = []Entity{
		{
			ID:         "bld-1",
			Type:       EntityBuilding,
			Position:   Vec3{X: 10, Y: 0, Z: 20},
			Dimensions: Vec3{X: 6, Y: 11.5, Z: 12},
			Material:   "brick",
			Layer:      LayerMassing,
			Children:   []string{"wall-1"},
		},
		{
			ID:         "wall-1",
			Type:       EntityWall,
			Position:   Vec3{X: 10, Y: 0, Z: 20},
			Dimensions: Vec3{X: 0.1, Y: 11.5, Z: 12},
			Material:   "drywall",
			Layer:      LayerInterior,
			Parent:     "bld-1",
		},
	}
	g.Groups.Buildings["bld-1"] = []string{"wall-1"}
	g.Groups.Layers[LayerMassing] = []string{"bld-1"}
	g.Groups.Layers[LayerInterior] = []string{"wall-1"}
	g.Groups.EntityTypes[EntityBuilding] = []string{"bld-1"}
	g.Groups.EntityTypes[EntityWall] = []string{"wall-1"}
	g.Metadata = Metadata{
		LayoutID:   "layout-1",
		SiteBounds: BoundingBox{Min: Vec3{X: 0, Y: 0, Z: 0}, Max: Vec3{X: 20, Y: 12, Z: 40}},
	}
	return g
}

func TestValidateGraph_Valid(t *testing.T) {
	r := ValidateGraph(validGraph())
	if !r.Valid {
		t.Errorf("expected valid, got %d errors", len(r.Errors))
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
	}
}

func TestValidateGraph_Nil(t *testing.T) {
	r := ValidateGraph(nil)
	if r.Valid {
		t.Error("expected invalid for nil graph")
	}
}

func TestValidateGraph_DuplicateID(t *testing.T) {
	g := validGraph()
	g.Entities = append(g.Entities, Entity{
		ID:         "bld-1",
		Type:       EntityBuilding,
		Position:   Vec3{X: 5, Y: 0, Z: 10},
		Dimensions: Vec3{X: 4, Y: 9, Z: 4},
		Layer:      LayerMassing,
	})
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for duplicate ID")
	}
}

func TestValidateGraph_EmptyID(t *testing.T) {
	g := validGraph()
	g.Entities[0].ID = ""
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for empty ID")
	}
}

func TestValidateGraph_DanglingGroupRef(t *testing.T) {
	g := validGraph()
	g.Groups.Layers[LayerGround] = []string{"missing"}
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for group referencing a missing entity")
	}
}

func TestValidateGraph_NotInGroup(t *testing.T) {
	g := validGraph()
	g.Groups.EntityTypes[EntityWall] = nil
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid when an entity is missing from its type group")
	}
}

func TestValidateGraph_UnknownParent(t *testing.T) {
	g := validGraph()
	g.Entities[1].Parent = "bld-9"
	r := ValidateGraph(g)
	if r.Valid {
		t.Error("expected invalid for unknown parent")
	}
}

func TestValidateGraph_ChildOutsideParent(t *testing.T) {
	g := validGraph()
	g.Entities[1].Position.X = 18
	r := ValidateGraph(g)
	if !r.Valid {
		t.Errorf("child overhang should only warn, got %s", r.Summary)
	}
	if !r.Contains("outside its parent") {
		t.Error("expected overhang warning")
	}
}

func TestValidateGraph_ZeroDimension(t *testing.T) {
	g := validGraph()
	g.Entities[0].Dimensions.Y = 0
	r := ValidateGraph(g)
	if len(r.Warnings) == 0 {
		t.Error("expected warning for zero dimension")
	}
}

func TestValidateGraph_OutsideBounds(t *testing.T) {
	g := validGraph()
	g.Entities[0].Position.X = 30
	g.Entities[1].Position.X = 30
	r := ValidateGraph(g)
	if !r.Contains("outside site bounds") {
		t.Error("expected bounds warning")
	}
}

func addBuilding(g *Graph, id string, x, z float64) {
	g.Entities = append(g.Entities, Entity{
		ID:         id,
		Type:       EntityBuilding,
		Position:   Vec3{X: x, Y: 0, Z: z},
		Dimensions: Vec3{X: 6, Y: 11.5, Z: 12},
		Material:   "brick",
		Layer:      LayerMassing,
	})
	g.Groups.Layers[LayerMassing] = append(g.Groups.Layers[LayerMassing], id)
	g.Groups.EntityTypes[EntityBuilding] = append(g.Groups.EntityTypes[EntityBuilding], id)
}

func TestValidateGraph_Overlap(t *testing.T) {
	g := validGraph()
	addBuilding(g, "bld-2", 13, 22)
	r := ValidateGraph(g)
	if r.Valid {
		t.Fatal("expected invalid for overlapping buildings")
	}
	found := false
	for _, e := range r.Errors {
		if e.Code == validation.CodeEntityOverlap && e.ActualValue == "bld-2" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected an overlap error naming bld-2, got %+v", r.Errors)
	}
}

func TestValidateGraph_SharedWallIsNotOverlap(t *testing.T) {
	g := validGraph()
	// bld-1 spans x 7..13; bld-2 spans 13..19.
	addBuilding(g, "bld-2", 16, 20)
	r := ValidateGraph(g)
	if !r.Valid {
		for _, e := range r.Errors {
			t.Logf("  error: %s", e.Message)
		}
		t.Error("buildings sharing a wall should not overlap")
	}
}
