package mesh

import (
	"bytes"
	"context"
	"encoding/binary"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/errors"
	"github.com/matzehuels/stackup/pkg/geometry"
	"github.com/matzehuels/stackup/pkg/netlist"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func testVia(x, y float64, lower, upper int) board.Via {
	return board.Via{
		Center:   geometry.Pt(x, y),
		Diameter: geometry.FromMM(0.3),
		Plating:  geometry.FromMM(0.025),
		Lower:    lower,
		Upper:    upper,
	}
}

func extents(n int) []board.Extent {
	out := make([]board.Extent, n)
	for i := range out {
		z := float64(i) * 1.0
		out[i] = board.Extent{Bottom: z, Top: z + 0.035}
	}
	return out
}

// padNet returns a netlist with one square pad per layer around (5,5) and a
// via spanning lower..upper through them.
func padNet(layers, lower, upper int) *netlist.Netlist {
	nl := netlist.New(layers)
	var shapes []int
	for l := 0; l < layers; l++ {
		shapes = append(shapes, nl.AddShape(netlist.Shape{
			Layer:   l,
			Outline: geometry.Rectangle(4, 4, 6, 6),
		}))
	}
	vi := nl.AddVia(testVia(5, 5, lower, upper))
	nl.AddNet("", shapes, []int{vi})
	return nl
}

func TestNetObjectName(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  string
	}{
		{"VCC", 0, "VCC_1"},
		{"", 1, "net_2"},
		{"GND", 2, "GND_3"},
	}
	for _, tt := range tests {
		if got := NetObjectName(tt.name, tt.index); got != tt.want {
			t.Errorf("NetObjectName(%q, %d) = %q, want %q", tt.name, tt.index, got, tt.want)
		}
	}
}

func TestAddCopperNames(t *testing.T) {
	nl := netlist.New(1)
	for _, name := range []string{"VCC", "", "GND"} {
		nl.AddNet(name, nil, nil)
	}
	doc := &Document{}
	if err := AddCopper(context.Background(), doc, extents(1), nl, 1); err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, o := range doc.Objects {
		got = append(got, o.Name)
		if o.Material != MaterialCopper {
			t.Errorf("%s material = %q", o.Name, o.Material)
		}
	}
	want := []string{"VCC_1", "net_2", "GND_3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}

func TestViaRings(t *testing.T) {
	nl := padNet(2, 0, -1)
	ext := extents(2)
	doc := &Document{}
	if err := AddCopper(context.Background(), doc, ext, nl, 1); err != nil {
		t.Fatal(err)
	}
	o := doc.Objects[0]
	v := nl.Vias[0]

	// Bore, one barrel segment, two pad outlines.
	if len(o.Rings) != 4 {
		t.Fatalf("len(Rings) = %d, want 4", len(o.Rings))
	}
	bore := o.Rings[0]
	if !reflect.DeepEqual(bore.Path, v.Inner().Reverse()) {
		t.Error("bore is not the reversed finished hole")
	}
	if bore.Path.SignedArea() >= 0 {
		t.Error("bore should wind clockwise")
	}
	if !near(bore.Z1, ext[0].Bottom) || !near(bore.Z2, ext[1].Top) {
		t.Errorf("bore z = %v..%v", bore.Z1, bore.Z2)
	}
	barrel := o.Rings[1]
	if !reflect.DeepEqual(barrel.Path, v.Outer()) {
		t.Error("barrel is not the drilled hole")
	}
	if !near(barrel.Z1, ext[0].Top) || !near(barrel.Z2, ext[1].Bottom) {
		t.Errorf("barrel z = %v..%v", barrel.Z1, barrel.Z2)
	}

	innerArea := v.Inner().SignedArea()
	outerArea := v.Outer().SignedArea()
	if outerArea <= innerArea {
		t.Fatalf("outer area %v <= inner area %v", outerArea, innerArea)
	}
}

func TestViaHoleSelection(t *testing.T) {
	nl := padNet(3, 0, -1)
	doc := &Document{}
	if err := AddCopper(context.Background(), doc, extents(3), nl, 1); err != nil {
		t.Fatal(err)
	}
	o := doc.Objects[0]
	v := nl.Vias[0]
	inner, outer := v.Inner(), v.Outer()

	// Two faces per pad, bottom pad first.
	if len(o.Surfaces) != 6 {
		t.Fatalf("len(Surfaces) = %d, want 6", len(o.Surfaces))
	}
	want := []geometry.Path{inner, outer, outer, outer, outer, inner}
	for i, s := range o.Surfaces {
		if len(s.Holes) != 1 {
			t.Fatalf("surface %d has %d holes, want 1", i, len(s.Holes))
		}
		if !reflect.DeepEqual(s.Holes[0], want[i]) {
			t.Errorf("surface %d hole is the wrong ring", i)
		}
		if s.Up != (i%2 == 1) {
			t.Errorf("surface %d Up = %v", i, s.Up)
		}
	}
}

func TestViaOutsideSpan(t *testing.T) {
	// Blind via between layers 0 and 1 of a 3-layer stack.
	nl := padNet(3, 0, 1)
	doc := &Document{}
	if err := AddCopper(context.Background(), doc, extents(3), nl, 1); err != nil {
		t.Fatal(err)
	}
	o := doc.Objects[0]
	for i, s := range o.Surfaces[4:] {
		if len(s.Holes) != 0 {
			t.Errorf("top pad surface %d has %d holes, want 0", i, len(s.Holes))
		}
	}
	if !reflect.DeepEqual(o.Surfaces[3].Holes[0], nl.Vias[0].Inner()) {
		t.Error("upper terminal face should use the finished hole")
	}
}

func TestViaSpanClamped(t *testing.T) {
	nl := padNet(2, -3, 9)
	ext := extents(2)
	doc := &Document{}
	if err := AddCopper(context.Background(), doc, ext, nl, 1); err != nil {
		t.Fatal(err)
	}
	bore := doc.Objects[0].Rings[0]
	if !near(bore.Z1, ext[0].Bottom) || !near(bore.Z2, ext[1].Top) {
		t.Errorf("bore z = %v..%v, want full stack", bore.Z1, bore.Z2)
	}
}

func TestAddCopperLayerMismatch(t *testing.T) {
	nl := netlist.New(2)
	si := nl.AddShape(netlist.Shape{Layer: 5, Outline: geometry.Rectangle(0, 0, 1, 1)})
	nl.AddNet("", nil, nil)
	nl.AddNet("", []int{si}, nil)

	doc := &Document{}
	doc.AddObject("existing", MaterialSubstrate)
	err := AddCopper(context.Background(), doc, extents(2), nl, 4)
	if !errors.Is(err, errors.ErrCodeLayerMismatch) {
		t.Fatalf("err = %v, want LAYER_MISMATCH", err)
	}
	if len(doc.Objects) != 1 {
		t.Errorf("doc changed on error: %d objects", len(doc.Objects))
	}
}

func TestAddCopperNoCopperLayers(t *testing.T) {
	empty := netlist.New(0)
	empty.AddNet("", nil, nil)
	if err := AddCopper(context.Background(), &Document{}, nil, empty, 1); err != nil {
		t.Errorf("empty net: %v", err)
	}

	nl := padNet(1, 0, -1)
	err := AddCopper(context.Background(), &Document{}, nil, nl, 1)
	if !errors.Is(err, errors.ErrCodeLayerMismatch) {
		t.Errorf("err = %v, want LAYER_MISMATCH", err)
	}
}

func TestAddCopperConcurrent(t *testing.T) {
	nl := netlist.New(2)
	for i := 0; i < 8; i++ {
		x := float64(i) * 3
		a := nl.AddShape(netlist.Shape{Layer: 0, Outline: geometry.Rectangle(x, 0, x+2, 2)})
		b := nl.AddShape(netlist.Shape{Layer: 1, Outline: geometry.Rectangle(x, 0, x+2, 2)})
		v := nl.AddVia(testVia(x+1, 1, 0, -1))
		nl.AddNet("", []int{a, b}, []int{v})
	}

	seq, par := &Document{}, &Document{}
	if err := AddCopper(context.Background(), seq, extents(2), nl, 1); err != nil {
		t.Fatal(err)
	}
	if err := AddCopper(context.Background(), par, extents(2), nl, 4); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(seq, par) {
		t.Error("concurrent meshing differs from sequential")
	}
}

func TestAddCopperCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc := &Document{}
	if err := AddCopper(ctx, doc, extents(2), padNet(2, 0, -1), 1); err == nil {
		t.Error("expected error on canceled context")
	}
	if len(doc.Objects) != 0 {
		t.Error("doc changed on error")
	}
}

// maskedBoard is a 10x10 board with a 2x2 pad on both sides, both exposed
// through the soldermask, and a silkscreen square on top.
func maskedBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New(board.Input{
		Outline:          geometry.Paths{geometry.Rectangle(0, 0, 10, 10)},
		PlatingThickness: 0.025,
	})
	if err != nil {
		t.Fatal(err)
	}
	pad := geometry.Paths{geometry.Rectangle(4, 4, 6, 6)}
	silk := geometry.Paths{geometry.Rectangle(1, 1, 2, 2)}
	for _, err := range []error{
		b.AddMaskLayer("bottom_mask", pad, nil, true),
		b.AddCopperLayer("bottom_copper", pad, 0.035),
		b.AddSubstrateLayer("substrate", 1.5),
		b.AddCopperLayer("top_copper", pad, 0.035),
		b.AddMaskLayer("top_mask", pad, silk, false),
		b.DeriveSurfaceFinish(),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func TestAddBoard(t *testing.T) {
	doc := &Document{}
	AddBoard(doc, maskedBoard(t))

	want := []struct {
		name, material string
	}{
		{"layer0_GBS", MaterialSoldermask},
		{"layer0_GBO", MaterialSilkscreen},
		{"layer2_substrate", MaterialSubstrate},
		{"layer4_GTS", MaterialSoldermask},
		{"layer4_GTO", MaterialSilkscreen},
		{"finish_bottom", MaterialFinish},
		{"finish_top", MaterialFinish},
	}
	if len(doc.Objects) != len(want) {
		t.Fatalf("got %d objects, want %d", len(doc.Objects), len(want))
	}
	for i, w := range want {
		o := doc.Objects[i]
		if o.Name != w.name || o.Material != w.material {
			t.Errorf("object %d = %s/%s, want %s/%s", i, o.Name, o.Material, w.name, w.material)
		}
	}

	gbs := doc.Object("layer0_GBS")
	for _, r := range gbs.Rings {
		if !near(r.Z1, 0.0001) || !near(r.Z2, 0.0099) {
			t.Errorf("GBS ring z = %v..%v", r.Z1, r.Z2)
		}
	}
	if !doc.Object("layer0_GBO").Empty() {
		t.Error("bottom silkscreen should be empty")
	}

	gto := doc.Object("layer4_GTO")
	if len(gto.Surfaces) != 1 || !gto.Surfaces[0].Up || !near(gto.Surfaces[0].Z, 1.59) {
		t.Errorf("GTO surfaces = %+v", gto.Surfaces)
	}

	sub := doc.Object("layer2_substrate")
	if len(sub.Rings) != 1 || !near(sub.Rings[0].Z1, 0.045) || !near(sub.Rings[0].Z2, 1.545) {
		t.Errorf("substrate rings = %+v", sub.Rings)
	}

	fb, ft := doc.Object("finish_bottom"), doc.Object("finish_top")
	if len(fb.Surfaces) != 1 || fb.Surfaces[0].Up || !near(fb.Surfaces[0].Z, 0.01) {
		t.Errorf("finish_bottom = %+v", fb.Surfaces)
	}
	if len(ft.Surfaces) != 1 || !ft.Surfaces[0].Up || !near(ft.Surfaces[0].Z, 1.58) {
		t.Errorf("finish_top = %+v", ft.Surfaces)
	}
}

func TestBuild(t *testing.T) {
	b := maskedBoard(t)
	doc, err := Build(context.Background(), b, nil, Options{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}
	// Seven layer objects, then the bottom pad net and the top pad net.
	if len(doc.Objects) != 9 {
		t.Fatalf("got %d objects, want 9", len(doc.Objects))
	}
	if doc.Objects[7].Name != "net_1" || doc.Objects[8].Name != "net_2" {
		t.Errorf("net objects = %s, %s", doc.Objects[7].Name, doc.Objects[8].Name)
	}
}

func TestBuildClearanceHole(t *testing.T) {
	via := board.Via{Center: geometry.Pt(5, 5), Diameter: geometry.FromMM(0.3), Plating: geometry.FromMM(0.025), Upper: -1}
	b, err := board.New(board.Input{
		Outline:          geometry.Paths{geometry.Rectangle(0, 0, 10, 10)},
		PTH:              geometry.Paths{via.Inner()},
		Vias:             []board.Via{via},
		PlatingThickness: 0.025,
	})
	if err != nil {
		t.Fatal(err)
	}
	plane := geometry.Subtract(
		geometry.Paths{geometry.Rectangle(1, 1, 9, 9)},
		geometry.Paths{geometry.Rectangle(4.5, 4.5, 5.5, 5.5)},
	)
	for _, err := range []error{
		b.AddCopperLayer("bottom_copper", plane, 0.035),
		b.AddSubstrateLayer("substrate", 1.5),
		b.AddCopperLayer("top_copper", geometry.Paths{geometry.Rectangle(4.8, 4.8, 5.2, 5.2)}, 0.035),
		b.DeriveSurfaceFinish(),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}

	doc, err := Build(context.Background(), b, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	o := doc.Object("net_1")
	if o == nil {
		t.Fatal("no plane net object")
	}
	if len(o.Surfaces) != 2 {
		t.Fatalf("plane has %d faces, want 2", len(o.Surfaces))
	}
	const mm2 = geometry.UnitsPerMM * geometry.UnitsPerMM
	for i, s := range o.Surfaces {
		if len(s.Holes) != 1 {
			t.Errorf("face %d has %d holes, want only the clearance", i, len(s.Holes))
		}
		area := math.Abs(s.Outline.SignedArea())
		for _, h := range s.Holes {
			area -= math.Abs(h.SignedArea())
		}
		if got := area / mm2; math.Abs(got-63) > 1e-6 {
			t.Errorf("face %d area = %v mm², want 63", i, got)
		}
	}
}

func squareSheet() *Document {
	doc := &Document{}
	doc.AddObject("slab", MaterialSubstrate).AddSheet(geometry.Paths{geometry.Rectangle(0, 0, 10, 10)}, 0, 1)
	return doc
}

func TestTrianglesOrientation(t *testing.T) {
	tris, err := squareSheet().Triangles()
	if err != nil {
		t.Fatal(err)
	}
	var up, down int
	for _, tri := range tris {
		nz := (tri[1].X-tri[0].X)*(tri[2].Y-tri[0].Y) - (tri[1].Y-tri[0].Y)*(tri[2].X-tri[0].X)
		switch {
		case nz > 1e-9:
			up++
			if !near(tri[0].Z, 1) {
				t.Errorf("upward triangle at z=%v", tri[0].Z)
			}
		case nz < -1e-9:
			down++
			if !near(tri[0].Z, 0) {
				t.Errorf("downward triangle at z=%v", tri[0].Z)
			}
		}
	}
	if up == 0 || down == 0 || up != down {
		t.Errorf("up = %d, down = %d", up, down)
	}
}

func TestWriteOBJ(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOBJ(&buf, squareSheet()); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "mtllib board.mtl" || lines[1] != "o slab" || lines[2] != "usemtl substrate" {
		t.Fatalf("header = %q", lines[:3])
	}
	var v, f int
	for _, l := range lines {
		switch {
		case strings.HasPrefix(l, "v "):
			v++
		case strings.HasPrefix(l, "f "):
			f++
		}
	}
	if v != 8 {
		t.Errorf("vertices = %d, want 8", v)
	}
	if f < 12 {
		t.Errorf("faces = %d, want at least 12", f)
	}

	buf.Reset()
	if err := WriteOBJ(&buf, squareSheet(), WithMaterialLibrary("x.mtl")); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "mtllib x.mtl\n") {
		t.Errorf("custom mtllib not written")
	}
}

func TestWriteMTL(t *testing.T) {
	c := board.Color{R: 1, G: 0.5, B: 0, A: 0.25}
	var buf bytes.Buffer
	if err := WriteMTL(&buf, board.ColorScheme{Soldermask: c, Silkscreen: c, Finish: c, Substrate: c, Copper: c}); err != nil {
		t.Fatal(err)
	}
	var want strings.Builder
	for _, m := range Materials {
		want.WriteString("newmtl " + m + "\nKd 1.000 0.500 0.000\nd 0.250\n\n")
	}
	if buf.String() != want.String() {
		t.Errorf("WriteMTL =\n%s\nwant\n%s", buf.String(), want.String())
	}
}

func TestWriteSTL(t *testing.T) {
	doc := squareSheet()
	tris, err := doc.Triangles()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteSTL(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if want := 84 + 50*len(tris); buf.Len() != want {
		t.Fatalf("stl size = %d, want %d", buf.Len(), want)
	}
	data := buf.Bytes()
	if got := binary.LittleEndian.Uint32(data[80:84]); int(got) != len(tris) {
		t.Errorf("triangle count = %d, want %d", got, len(tris))
	}
	// First vertex of the first triangle follows its 12-byte normal.
	x := math.Float32frombits(binary.LittleEndian.Uint32(data[96:100]))
	if want := float32(tris[0][0].X); x != want {
		t.Errorf("first vertex x = %v, want %v", x, want)
	}
}
