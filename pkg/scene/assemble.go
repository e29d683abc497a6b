package scene

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"

	"github.com/blairjdaniel/parcelplanner/pkg/layout"
	"github.com/blairjdaniel/parcelplanner/pkg/setback"
)

const (
	// WallThickness is the thickness of a party wall between units.
	WallThickness = 0.1
	slabHeight    = 0.05
)

var entityNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("parcelplanner.scene"))

// Assemble converts a layout result into a scene graph: the buildable area
// as a thin ground slab, one box per building, party walls between the
// units of multiplex buildings and the accessory structure.
func Assemble(res *layout.Result, buildable setback.BuildableArea) *Graph {
	g := NewGraph()
	if res == nil {
		return g
	}

	assembleBuildable(res.ID, buildable, g)
	assembleBuildings(res, g)
	assembleAccessory(res, g)

	g.Metadata = Metadata{
		LayoutID:   res.ID,
		Topology:   string(res.Diagnostics.Topology),
		Units:      len(res.Units()),
		SiteBounds: computeBounds(g.Entities),
	}
	return g
}

// EntityID returns the stable ID of the idx-th entity of type t in the
// layout with the given ID.
func EntityID(layoutID string, t EntityType, idx int) string {
	return uuid.NewSHA1(entityNamespace, []byte(fmt.Sprintf("%s/%s/%d", layoutID, t, idx))).String()
}

func assembleBuildable(layoutID string, b setback.BuildableArea, g *Graph) {
	if b.Width <= 0 || b.Depth <= 0 {
		return
	}
	addEntity(g, Entity{
		ID:         EntityID(layoutID, EntityBuildable, 0),
		Type:       EntityBuildable,
		Position:   Vec3{X: (b.MinX + b.MaxX) / 2, Y: -slabHeight, Z: (b.MinZ + b.MaxZ) / 2},
		Dimensions: Vec3{X: b.Width, Y: slabHeight, Z: b.Depth},
		Material:   "grass",
		Layer:      LayerGround,
		Metadata: map[string]any{
			"area":    b.Area,
			"method":  b.Method,
			"relaxed": b.Relaxed,
		},
	})
}

func assembleBuildings(res *layout.Result, g *Graph) {
	walls := 0
	for _, b := range res.Buildings {
		id := EntityID(res.ID, EntityBuilding, b.Index)
		mat := "stucco"
		if len(b.Units) > 1 {
			mat = "brick"
		}

		widths := make([]float64, len(b.Units))
		for i, u := range b.Units {
			widths[i] = u.Width
		}

		e := Entity{
			ID:         id,
			Type:       EntityBuilding,
			Position:   Vec3{X: b.X + b.Width/2, Z: b.Z + b.Depth/2},
			Dimensions: Vec3{X: b.Width, Y: b.Height, Z: b.Depth},
			Material:   mat,
			Layer:      LayerMassing,
			Metadata: map[string]any{
				"index":       b.Index,
				"row":         string(b.Row),
				"units":       len(b.Units),
				"unit_widths": widths,
			},
		}

		// Party walls sit on the boundary between neighbouring units.
		var partitions []Entity
		if res.Config.LayoutType != layout.Separate {
			for _, u := range b.Units[min(1, len(b.Units)):] {
				wid := EntityID(res.ID, EntityWall, walls)
				walls++
				e.Children = append(e.Children, wid)
				partitions = append(partitions, Entity{
					ID:         wid,
					Type:       EntityWall,
					Position:   Vec3{X: u.X, Z: b.Z + b.Depth/2},
					Dimensions: Vec3{X: WallThickness, Y: b.Height, Z: b.Depth},
					Material:   "drywall",
					Layer:      LayerInterior,
					Parent:     id,
				})
			}
		}
		addEntity(g, e)
		for _, w := range partitions {
			addEntity(g, w)
		}
	}
}

func assembleAccessory(res *layout.Result, g *Graph) {
	a := res.Accessory
	if a == nil {
		return
	}
	addEntity(g, Entity{
		ID:         EntityID(res.ID, EntityAccessory, 0),
		Type:       EntityAccessory,
		Position:   Vec3{X: a.X + a.Width/2, Z: a.Z + a.Depth/2},
		Dimensions: Vec3{X: a.Width, Y: a.Height, Z: a.Depth},
		Material:   "timber",
		Layer:      LayerMassing,
		Metadata: map[string]any{
			"kind":     string(a.Kind),
			"position": string(a.Position),
		},
	})
}

// addEntity appends an entity and updates all group indices.
func addEntity(g *Graph, e Entity) {
	g.Entities = append(g.Entities, e)
	id := e.ID

	if e.Parent != "" {
		g.Groups.Buildings[e.Parent] = append(g.Groups.Buildings[e.Parent], id)
	}
	g.Groups.Layers[e.Layer] = append(g.Groups.Layers[e.Layer], id)
	g.Groups.EntityTypes[e.Type] = append(g.Groups.EntityTypes[e.Type], id)
}

// computeBounds calculates the AABB of all entities.
func computeBounds(entities []Entity) BoundingBox {
	if len(entities) == 0 {
		return BoundingBox{}
	}
	plan := r2.EmptyRect()
	loY, hiY := math.MaxFloat64, -math.MaxFloat64
	for _, e := range entities {
		plan = plan.Union(e.Footprint())
		b := e.Bounds()
		loY = math.Min(loY, b.Min.Y)
		hiY = math.Max(hiY, b.Max.Y)
	}
	return BoundingBox{
		Min: Vec3{X: plan.X.Lo, Y: loY, Z: plan.Y.Lo},
		Max: Vec3{X: plan.X.Hi, Y: hiY, Z: plan.Y.Hi},
	}
}
