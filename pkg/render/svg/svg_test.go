package svg

import (
	"strings"
	"testing"

	"github.com/matzehuels/stackup/pkg/board"
	"github.com/matzehuels/stackup/pkg/geometry"
)

func testBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New(board.Input{
		Outline:          geometry.Paths{geometry.Rectangle(0, 0, 10, 20)},
		PlatingThickness: 0.025,
	})
	if err != nil {
		t.Fatal(err)
	}
	pad := geometry.Paths{geometry.Rectangle(4, 4, 6, 6)}
	for _, err := range []error{
		b.AddCopperLayer("bottom_copper", pad, 0.035),
		b.AddSubstrateLayer("substrate", 1.5),
		b.AddCopperLayer("top_copper", pad, 0.035),
		b.AddMaskLayer("top_mask", pad, geometry.Paths{geometry.Rectangle(1, 1, 2, 2)}, false),
		b.DeriveSurfaceFinish(),
	} {
		if err != nil {
			t.Fatal(err)
		}
	}
	return b
}

func TestRenderHeader(t *testing.T) {
	out := string(Render(testBoard(t), board.DefaultColors, false, 2))

	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 30 40" width="60" height="80">`) {
		t.Errorf("unexpected header: %s", strings.SplitN(out, "\n", 2)[0])
	}
	if !strings.Contains(out, `<g transform="translate(10 30) scale(1 -1)">`) {
		t.Error("missing top view transform")
	}
	if !strings.HasSuffix(out, "</svg>\n") {
		t.Error("document not closed")
	}
	if strings.Contains(out, "filter") {
		t.Error("shadow filter present without WithShadow")
	}
}

func TestRenderFlipped(t *testing.T) {
	out := string(Render(testBoard(t), board.DefaultColors, true, 1))
	if !strings.Contains(out, `<g transform="translate(20 30) scale(-1 -1)">`) {
		t.Error("missing flipped transform")
	}
}

func TestRenderGroupOrder(t *testing.T) {
	tests := []struct {
		flipped bool
		want    []string
	}{
		{false, []string{"layer0", "layer1", "layer2", "layer3", "finish"}},
		{true, []string{"layer3", "layer2", "layer1", "layer0", "finish"}},
	}
	for _, tt := range tests {
		out := string(Render(testBoard(t), board.DefaultColors, tt.flipped, 1))
		last := -1
		for _, id := range tt.want {
			i := strings.Index(out, `<g id="`+id+`">`)
			if i < 0 {
				t.Fatalf("flipped=%v: group %s missing", tt.flipped, id)
			}
			if i < last {
				t.Errorf("flipped=%v: group %s out of order", tt.flipped, id)
			}
			last = i
		}
	}
}

func TestRenderMaskOrder(t *testing.T) {
	mask := `fill="` + board.DefaultColors.Soldermask.SVG() + `"`
	silk := `fill="` + board.DefaultColors.Silkscreen.SVG() + `"`

	top := string(Render(testBoard(t), board.DefaultColors, false, 1))
	if strings.Index(top, mask) > strings.Index(top, silk) {
		t.Error("top view: silkscreen drawn before its soldermask")
	}
	bottom := string(Render(testBoard(t), board.DefaultColors, true, 1))
	if strings.Index(bottom, silk) > strings.Index(bottom, mask) {
		t.Error("bottom view: soldermask drawn before the silkscreen seen through it")
	}
}

func TestRenderPaths(t *testing.T) {
	out := string(Render(testBoard(t), board.DefaultColors, false, 1))
	if !strings.Contains(out, `fill-rule="evenodd"`) {
		t.Error("paths should use the even-odd rule")
	}
	if !strings.Contains(out, `fill-opacity="0.6"`) {
		t.Error("soldermask opacity not written")
	}
	// The finish pad is the 2x2 square at (4,4).
	finish := out[strings.Index(out, `<g id="finish">`):]
	for _, v := range []string{"M", "4 4", "6 6", "Z"} {
		if !strings.Contains(finish, v) {
			t.Errorf("finish path missing %q", v)
		}
	}
}

func TestRenderShadow(t *testing.T) {
	out := string(Render(testBoard(t), board.DefaultColors, false, 1, WithShadow()))
	if !strings.Contains(out, `<filter id="shadow"`) || !strings.Contains(out, `filter="url(#shadow)"`) {
		t.Error("shadow filter missing")
	}
}

func TestPathData(t *testing.T) {
	r := renderer{precision: 3}
	got := r.pathData(geometry.Paths{
		geometry.Rectangle(0, 0, 1, 1),
		{geometry.Pt(0, 0), geometry.Pt(1, 1)},
	})
	if want := "M0 0 L1 0 L1 1 L0 1 Z"; got != want {
		t.Errorf("pathData() = %q, want %q", got, want)
	}
	if got := r.num(1.23456); got != "1.235" {
		t.Errorf("num(1.23456) = %q", got)
	}
	if got := r.num(-0.0001); got != "0" {
		t.Errorf("num(-0.0001) = %q", got)
	}
}
