package scene

import (
	"fmt"

	"github.com/dhconnelly/rtreego"

	"github.com/blairjdaniel/parcelplanner/pkg/validation"
)

// ValidateGraph performs structural validation on a scene graph.
// It checks entity integrity, group index consistency, and bounds enclosure.
func ValidateGraph(g *Graph) *validation.Report {
	r := validation.NewReport()

	if g == nil {
		r.AddError(validation.Result{
			Stage:   validation.StageScene,
			Message: "scene graph is nil",
		})
		return r
	}

	validateEntityIDs(g, r)
	validateGroupIndices(g, r)
	validateGroupMembership(g, r)
	validateParents(g, r)
	validateBoundsEnclosure(g, r)
	validateEntityDimensions(g, r)
	validateOverlaps(g, r)

	return r
}

func validateEntityIDs(g *Graph, r *validation.Report) {
	seen := make(map[string]int, len(g.Entities))

	for i, e := range g.Entities {
		if e.ID == "" {
			r.AddError(validation.Result{
				Stage:       validation.StageScene,
				Message:     fmt.Sprintf("entity at index %d has empty ID", i),
				Field:       fmt.Sprintf("entities[%d].id", i),
				ActualValue: "",
				Expected:    "non-empty string",
			})
			continue
		}
		if prev, exists := seen[e.ID]; exists {
			r.AddError(validation.Result{
				Stage:       validation.StageScene,
				Message:     fmt.Sprintf("duplicate entity ID %q at indices %d and %d", e.ID, prev, i),
				Field:       fmt.Sprintf("entities[%d].id", i),
				ActualValue: e.ID,
			})
		}
		seen[e.ID] = i
	}
}

func entityIDs(g *Graph) map[string]bool {
	ids := make(map[string]bool, len(g.Entities))
	for _, e := range g.Entities {
		ids[e.ID] = true
	}
	return ids
}

func validateGroupIndices(g *Graph, r *validation.Report) {
	known := entityIDs(g)

	checkGroup := func(groupType, groupName string, ids []string) {
		for _, id := range ids {
			if !known[id] {
				r.AddError(validation.Result{
					Stage:       validation.StageScene,
					Message:     fmt.Sprintf("group %s.%s references non-existent entity %q", groupType, groupName, id),
					Field:       fmt.Sprintf("groups.%s.%s", groupType, groupName),
					ActualValue: id,
					Expected:    "existing entity ID",
				})
			}
		}
	}

	for name, ids := range g.Groups.Buildings {
		checkGroup("buildings", name, ids)
	}
	for name, ids := range g.Groups.Layers {
		checkGroup("layers", string(name), ids)
	}
	for name, ids := range g.Groups.EntityTypes {
		checkGroup("entity_types", string(name), ids)
	}
}

func memberSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func validateGroupMembership(g *Graph, r *validation.Report) {
	layerMembers := make(map[LayerType]map[string]bool, len(g.Groups.Layers))
	for layer, ids := range g.Groups.Layers {
		layerMembers[layer] = memberSet(ids)
	}
	typeMembers := make(map[EntityType]map[string]bool, len(g.Groups.EntityTypes))
	for et, ids := range g.Groups.EntityTypes {
		typeMembers[et] = memberSet(ids)
	}

	for _, e := range g.Entities {
		if e.ID == "" {
			continue
		}

		if !layerMembers[e.Layer][e.ID] {
			r.AddError(validation.Result{
				Stage:       validation.StageScene,
				Message:     fmt.Sprintf("entity %q has layer %q but is not in layers group", e.ID, e.Layer),
				Field:       fmt.Sprintf("groups.layers.%s", e.Layer),
				ActualValue: e.ID,
			})
		}
		if !typeMembers[e.Type][e.ID] {
			r.AddError(validation.Result{
				Stage:       validation.StageScene,
				Message:     fmt.Sprintf("entity %q has type %q but is not in entity_types group", e.ID, e.Type),
				Field:       fmt.Sprintf("groups.entity_types.%s", e.Type),
				ActualValue: e.ID,
			})
		}
	}
}

// validateParents checks that every child names an existing building and
// lies within its footprint.
func validateParents(g *Graph, r *validation.Report) {
	byID := make(map[string]Entity, len(g.Entities))
	for _, e := range g.Entities {
		byID[e.ID] = e
	}
	for _, e := range g.Entities {
		if e.Parent == "" {
			continue
		}
		p, ok := byID[e.Parent]
		if !ok {
			r.AddError(validation.Result{
				Stage:       validation.StageScene,
				Message:     fmt.Sprintf("entity %q has unknown parent %q", e.ID, e.Parent),
				Field:       fmt.Sprintf("entities.%s.parent", e.ID),
				ActualValue: e.Parent,
			})
			continue
		}
		if !p.Footprint().ExpandedByMargin(WallThickness).Contains(e.Footprint()) {
			r.AddWarning(validation.Result{
				Stage:   validation.StageScene,
				Message: fmt.Sprintf("entity %q extends outside its parent %q", e.ID, e.Parent),
				Field:   fmt.Sprintf("entities.%s.position", e.ID),
			})
		}
	}
}

func validateBoundsEnclosure(g *Graph, r *validation.Report) {
	bounds := g.Metadata.SiteBounds
	tolerance := 0.01

	for _, e := range g.Entities {
		b := e.Bounds()
		if b.Min.X < bounds.Min.X-tolerance || b.Max.X > bounds.Max.X+tolerance ||
			b.Min.Z < bounds.Min.Z-tolerance || b.Max.Z > bounds.Max.Z+tolerance {
			r.AddWarning(validation.Result{
				Stage: validation.StageScene,
				Message: fmt.Sprintf("entity %q extent [%.1f, %.1f]x[%.1f, %.1f] outside site bounds",
					e.ID, b.Min.X, b.Max.X, b.Min.Z, b.Max.Z),
				Field:       "metadata.site_bounds",
				ActualValue: e.ID,
			})
			break
		}
	}
}

func validateEntityDimensions(g *Graph, r *validation.Report) {
	for _, e := range g.Entities {
		if e.Dimensions.X <= 0 || e.Dimensions.Y <= 0 || e.Dimensions.Z <= 0 {
			r.AddWarning(validation.Result{
				Stage:       validation.StageScene,
				Message:     fmt.Sprintf("entity %q has zero or negative dimension (%.2f, %.2f, %.2f)", e.ID, e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				Field:       fmt.Sprintf("entities.%s.dimensions", e.ID),
				ActualValue: fmt.Sprintf("%.2f x %.2f x %.2f", e.Dimensions.X, e.Dimensions.Y, e.Dimensions.Z),
				Expected:    "all dimensions > 0",
			})
		}
	}
}

// overlapTolerance lets volumes share a wall without counting as overlapping.
const overlapTolerance = 0.01

// massing is a building or accessory volume stored in the overlap index.
type massing struct {
	idx  int
	rect rtreego.Rect
}

func (m *massing) Bounds() rtreego.Rect { return m.rect }

// validateOverlaps reports building and accessory volumes whose footprints
// intersect by more than the tolerance in both directions.
func validateOverlaps(g *Graph, r *validation.Report) {
	tree := rtreego.NewTree(2, 2, 8)
	var items []*massing
	for i, e := range g.Entities {
		if e.Type != EntityBuilding && e.Type != EntityAccessory {
			continue
		}
		b := e.Bounds()
		rect, err := rtreego.NewRect(rtreego.Point{b.Min.X, b.Min.Z}, []float64{b.Max.X - b.Min.X, b.Max.Z - b.Min.Z})
		if err != nil {
			// Degenerate sizes are reported by validateEntityDimensions.
			continue
		}
		m := &massing{idx: i, rect: rect}
		tree.Insert(m)
		items = append(items, m)
	}

	for _, m := range items {
		for _, hit := range tree.SearchIntersect(m.rect) {
			o := hit.(*massing)
			if o.idx <= m.idx {
				continue
			}
			a, b := g.Entities[m.idx], g.Entities[o.idx]
			size := a.Footprint().Intersection(b.Footprint()).Size()
			if size.X <= overlapTolerance || size.Y <= overlapTolerance {
				continue
			}
			r.AddError(validation.Result{
				Stage:       validation.StageScene,
				Code:        validation.CodeEntityOverlap,
				Message:     fmt.Sprintf("entities %q and %q overlap by %.2fm x %.2fm", a.ID, b.ID, size.X, size.Y),
				Field:       fmt.Sprintf("entities.%s.position", b.ID),
				ActualValue: b.ID,
				Expected:    "disjoint footprints",
			})
		}
	}
}
