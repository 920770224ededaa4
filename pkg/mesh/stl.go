package mesh

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/deadsy/sdfx/sdf"

	"github.com/matzehuels/stackup/pkg/errors"
)

// stlHeader and stlTriangle follow the binary STL layout: an 80-byte header,
// a little-endian triangle count, then 50 bytes per triangle.
type stlHeader struct {
	Comment [80]byte
	Count   uint32
}

type stlTriangle struct {
	Normal, V1, V2, V3 [3]float32
	Attributes         uint16
}

// WriteSTL writes the whole document as a single binary STL solid. STL has
// no notion of objects or materials, so every group is merged.
func WriteSTL(w io.Writer, doc *Document) error {
	tris, err := doc.Triangles()
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	var h stlHeader
	copy(h.Comment[:], "stackup")
	h.Count = uint32(len(tris))
	if err := binary.Write(bw, binary.LittleEndian, &h); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write stl header")
	}
	for _, t := range tris {
		if err := binary.Write(bw, binary.LittleEndian, stlRecord(t)); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write stl")
		}
	}
	return bw.Flush()
}

func stlRecord(t *sdf.Triangle3) *stlTriangle {
	n := t.Normal()
	rec := &stlTriangle{Normal: [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}}
	for i, dst := range []*[3]float32{&rec.V1, &rec.V2, &rec.V3} {
		*dst = [3]float32{float32(t[i].X), float32(t[i].Y), float32(t[i].Z)}
	}
	return rec
}
