// Package mesh writes scene graphs as OBJ and STL meshes. Every entity is
// an axis-aligned box of eight vertices and six quad faces.
package mesh

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/unixpickle/model3d/model3d"

	"github.com/blairjdaniel/parcelplanner/pkg/scene"
)

// boxFaces index into boxVertices, 1-based as in OBJ, wound so that every
// face normal points out of the box (Y up).
var boxFaces = [6][4]int{
	{1, 2, 3, 4}, // bottom
	{8, 7, 6, 5}, // top
	{5, 6, 2, 1}, // front
	{6, 7, 3, 2}, // right
	{7, 8, 4, 3}, // rear
	{8, 5, 1, 4}, // left
}

// boxVertices returns the corners of an entity: the four base corners
// counterclockwise from the front left, then the same four at the top.
func boxVertices(e scene.Entity) [8]model3d.Coord3D {
	b := e.Bounds()
	x0, y0, z0 := b.Min.X, b.Min.Y, b.Min.Z
	x1, y1, z1 := b.Max.X, b.Max.Y, b.Max.Z
	return [8]model3d.Coord3D{
		model3d.XYZ(x0, y0, z0),
		model3d.XYZ(x1, y0, z0),
		model3d.XYZ(x1, y0, z1),
		model3d.XYZ(x0, y0, z1),
		model3d.XYZ(x0, y1, z0),
		model3d.XYZ(x1, y1, z0),
		model3d.XYZ(x1, y1, z1),
		model3d.XYZ(x0, y1, z1),
	}
}

// WriteOBJ writes one object per entity in graph order.
func WriteOBJ(w io.Writer, g *scene.Graph) error {
	if g == nil {
		return errors.New("mesh: nil scene graph")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# parcelplanner layout %s\n", g.Metadata.LayoutID)
	fmt.Fprintf(bw, "# %d entities, %d units\n", len(g.Entities), g.Metadata.Units)

	offset := 0
	for i, e := range g.Entities {
		fmt.Fprintf(bw, "\no %s_%d\n", e.Type, i)
		fmt.Fprintf(bw, "# id %s material %s\n", e.ID, e.Material)
		for _, v := range boxVertices(e) {
			fmt.Fprintf(bw, "v %.4f %.4f %.4f\n", v.X, v.Y, v.Z)
		}
		for _, f := range boxFaces {
			fmt.Fprintf(bw, "f %d %d %d %d\n", f[0]+offset, f[1]+offset, f[2]+offset, f[3]+offset)
		}
		offset += 8
	}
	return errors.Wrap(bw.Flush(), "write obj")
}

// BuildMesh triangulates every entity box into a single mesh.
func BuildMesh(g *scene.Graph) *model3d.Mesh {
	m := model3d.NewMesh()
	if g == nil {
		return m
	}
	for _, e := range g.Entities {
		vs := boxVertices(e)
		for _, f := range boxFaces {
			a, b, c, d := vs[f[0]-1], vs[f[1]-1], vs[f[2]-1], vs[f[3]-1]
			m.Add(&model3d.Triangle{a, b, c})
			m.Add(&model3d.Triangle{a, c, d})
		}
	}
	return m
}

// WriteSTL writes the graph as a binary STL.
func WriteSTL(w io.Writer, g *scene.Graph) error {
	if g == nil {
		return errors.New("mesh: nil scene graph")
	}
	_, err := w.Write(BuildMesh(g).EncodeSTL())
	return errors.Wrap(err, "write stl")
}
