// Package scene turns a layout result into a flat list of positioned boxes
// ready for mesh or plan export. It carries no geometry logic of its own.
package scene

import "github.com/golang/geo/r2"

// LayerType groups entities by what they represent.
type LayerType string

const (
	LayerGround   LayerType = "ground"
	LayerMassing  LayerType = "massing"
	LayerInterior LayerType = "interior"
)

// EntityType identifies the kind of entity.
type EntityType string

const (
	EntityBuildable EntityType = "buildable_area"
	EntityBuilding  EntityType = "building"
	EntityWall      EntityType = "partition_wall"
	EntityAccessory EntityType = "accessory"
)

// Vec3 is a 3D vector. Y is up; X and Z are the site plane.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// BoundingBox defines an axis-aligned bounding box.
type BoundingBox struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Size returns the box extents.
func (b BoundingBox) Size() Vec3 {
	return Vec3{X: b.Max.X - b.Min.X, Y: b.Max.Y - b.Min.Y, Z: b.Max.Z - b.Min.Z}
}

// Entity is one rectangular solid. Position is the centre of its base.
type Entity struct {
	ID         string         `json:"id"`
	Type       EntityType     `json:"type"`
	Position   Vec3           `json:"position"`
	Dimensions Vec3           `json:"dimensions"`
	Material   string         `json:"material"`
	Layer      LayerType      `json:"layer"`
	Parent     string         `json:"parent,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Children   []string       `json:"children,omitempty"`
}

// Bounds returns the entity's box.
func (e Entity) Bounds() BoundingBox {
	hx, hz := e.Dimensions.X/2, e.Dimensions.Z/2
	return BoundingBox{
		Min: Vec3{X: e.Position.X - hx, Y: e.Position.Y, Z: e.Position.Z - hz},
		Max: Vec3{X: e.Position.X + hx, Y: e.Position.Y + e.Dimensions.Y, Z: e.Position.Z + hz},
	}
}

// Footprint returns the plan rectangle, with Y standing for Z.
func (e Entity) Footprint() r2.Rect {
	b := e.Bounds()
	return r2.RectFromPoints(r2.Point{X: b.Min.X, Y: b.Min.Z}, r2.Point{X: b.Max.X, Y: b.Max.Z})
}

// Graph is the complete shape list of one layout.
type Graph struct {
	Metadata Metadata `json:"metadata"`
	Entities []Entity `json:"entities"`
	Groups   Groups   `json:"groups"`
}

// Metadata holds scene-level information.
type Metadata struct {
	LayoutID   string      `json:"layout_id"`
	Topology   string      `json:"topology"`
	Units      int         `json:"units"`
	SiteBounds BoundingBox `json:"site_bounds"`
}

// Groups organizes entity IDs for fast filtering.
type Groups struct {
	Buildings   map[string][]string     `json:"buildings"`
	Layers      map[LayerType][]string  `json:"layers"`
	EntityTypes map[EntityType][]string `json:"entity_types"`
}

// NewGraph creates an empty scene graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: []Entity{},
		Groups: Groups{
			Buildings:   make(map[string][]string),
			Layers:      make(map[LayerType][]string),
			EntityTypes: make(map[EntityType][]string),
		},
	}
}

// Entity returns the entity with the given ID.
func (g *Graph) Entity(id string) (Entity, bool) {
	for _, e := range g.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

// OfType returns the entities of one type, in graph order.
func (g *Graph) OfType(t EntityType) []Entity {
	var out []Entity
	for _, e := range g.Entities {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
