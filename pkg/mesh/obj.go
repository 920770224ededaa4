package mesh

import (
	"bytes"
	"fmt"
	"io"

	"github.com/matzehuels/stackup/pkg/board"
)

// OBJOption configures Wavefront OBJ output.
type OBJOption func(*objWriter)

// WithMaterialLibrary sets the MTL file name referenced by the OBJ file.
// The default is "board.mtl".
func WithMaterialLibrary(name string) OBJOption {
	return func(w *objWriter) { w.mtllib = name }
}

// WithPrecision sets the number of decimals written for coordinates in mm.
func WithPrecision(decimals int) OBJOption {
	return func(w *objWriter) { w.precision = decimals }
}

type objWriter struct {
	mtllib    string
	precision int
}

type vertexKey [3]float64

// WriteOBJ writes doc as a Wavefront OBJ file. Each object becomes an "o"
// group with its material; vertices are shared within an object. Empty
// objects are written as bare groups so that names stay stable.
func WriteOBJ(w io.Writer, doc *Document, opts ...OBJOption) error {
	ow := &objWriter{mtllib: "board.mtl", precision: 6}
	for _, opt := range opts {
		opt(ow)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "mtllib %s\n", ow.mtllib)

	base := 1
	for _, o := range doc.Objects {
		tris, err := o.Triangles()
		if err != nil {
			return err
		}
		fmt.Fprintf(&buf, "o %s\n", o.Name)
		fmt.Fprintf(&buf, "usemtl %s\n", o.Material)

		index := make(map[vertexKey]int)
		var order []vertexKey
		faces := make([][3]int, 0, len(tris))
		for _, t := range tris {
			var f [3]int
			for j, v := range t {
				k := vertexKey{v.X, v.Y, v.Z}
				i, ok := index[k]
				if !ok {
					i = len(order)
					index[k] = i
					order = append(order, k)
				}
				f[j] = base + i
			}
			faces = append(faces, f)
		}
		for _, k := range order {
			fmt.Fprintf(&buf, "v %.*f %.*f %.*f\n", ow.precision, k[0], ow.precision, k[1], ow.precision, k[2])
		}
		for _, f := range faces {
			fmt.Fprintf(&buf, "f %d %d %d\n", f[0], f[1], f[2])
		}
		base += len(order)
	}

	_, err := w.Write(buf.Bytes())
	return err
}

// WriteMTL writes the material library for the five board materials.
func WriteMTL(w io.Writer, colors board.ColorScheme) error {
	var buf bytes.Buffer
	for _, m := range []struct {
		name  string
		color board.Color
	}{
		{MaterialSoldermask, colors.Soldermask},
		{MaterialSilkscreen, colors.Silkscreen},
		{MaterialFinish, colors.Finish},
		{MaterialSubstrate, colors.Substrate},
		{MaterialCopper, colors.Copper},
	} {
		fmt.Fprintf(&buf, "newmtl %s\n", m.name)
		fmt.Fprintf(&buf, "Kd %.3f %.3f %.3f\n", m.color.R, m.color.G, m.color.B)
		fmt.Fprintf(&buf, "d %.3f\n\n", m.color.A)
	}
	_, err := w.Write(buf.Bytes())
	return err
}
