package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"golang.org/x/image/colornames"

	"orbMint/internal/model"
)

var testAttrs = model.Attributes{BgColor: "navy", FrameColor: "gold", CircleColor: "tomato"}

func TestComposeIsDeterministic(t *testing.T) {
	id := *uint256.NewInt(42)
	opts := Options{CollectionName: "Orb", BaseURL: "https://assets.example.org"}

	a, err := Compose(id, testAttrs, opts)
	if err != nil {
		t.Fatalf("compose: %v", err)
	}
	b, err := Compose(id, testAttrs, opts)
	if err != nil {
		t.Fatalf("compose again: %v", err)
	}

	if !bytes.Equal(a.SVG, b.SVG) {
		t.Fatalf("svg differs between runs")
	}
	if !bytes.Equal(a.Metadata, b.Metadata) {
		t.Fatalf("metadata differs between runs")
	}
	if !bytes.Equal(a.PNG, b.PNG) {
		t.Fatalf("png differs between runs")
	}
}

func TestBuildSVGScene(t *testing.T) {
	data, err := BuildSVG(testAttrs)
	if err != nil {
		t.Fatalf("build svg: %v", err)
	}
	text := string(data)

	for _, want := range []string{
		`viewBox="0 0 1000 1000"`,
		`fill="navy"`,
		`fill="none"`,
		`stroke="gold"`,
		`stroke-width="20"`,
		`<circle cx="500" cy="500" r="480"`,
		`fill="tomato"`,
		`</svg>`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("svg missing %q:\n%s", want, text)
		}
	}
	if strings.Index(text, `fill="navy"`) > strings.Index(text, `stroke="gold"`) {
		t.Fatalf("background must be drawn before the frame")
	}
	if strings.Index(text, `stroke="gold"`) > strings.Index(text, `fill="tomato"`) {
		t.Fatalf("frame must be drawn before the circle")
	}
}

func TestRasterizeProducesCanvasSizedPNG(t *testing.T) {
	assets, err := Compose(*uint256.NewInt(1), testAttrs, Options{CollectionName: "Orb"})
	if err != nil {
		t.Fatalf("compose: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(assets.PNG))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != CanvasSize || b.Dy() != CanvasSize {
		t.Fatalf("png size %dx%d", b.Dx(), b.Dy())
	}

	assertColor(t, img.At(500, 500), colornames.Map["tomato"], "circle center")
	assertColor(t, img.At(2, 2), colornames.Map["gold"], "frame corner")
	assertColor(t, img.At(60, 60), colornames.Map["navy"], "background corner")
}

func TestBuildMetadata(t *testing.T) {
	id := *uint256.NewInt(7)
	data, err := BuildMetadata(id, testAttrs, Options{CollectionName: "Orb", BaseURL: "http://localhost:8080/"})
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}

	var doc Metadata
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Name != "Orb #7" {
		t.Fatalf("name %q", doc.Name)
	}
	if doc.Image != "http://localhost:8080/7.png" || doc.ImageSVG != "http://localhost:8080/7.svg" {
		t.Fatalf("urls %q %q", doc.Image, doc.ImageSVG)
	}

	want := testAttrs.Traits()
	if len(doc.Attributes) != len(want) {
		t.Fatalf("attributes %+v", doc.Attributes)
	}
	for i := range want {
		if doc.Attributes[i] != want[i] {
			t.Fatalf("attribute %d = %+v, want %+v", i, doc.Attributes[i], want[i])
		}
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	for _, key := range []string{"name", "image", "image_svg", "attributes"} {
		if _, ok := raw[key]; !ok {
			t.Fatalf("metadata missing %q", key)
		}
	}
}

func TestComposeRejectsUnknownColor(t *testing.T) {
	attrs := testAttrs
	attrs.CircleColor = `red" onload="x`
	_, err := Compose(*uint256.NewInt(1), attrs, Options{})
	if !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
}

func TestRasterizeRejectsGarbage(t *testing.T) {
	if _, err := Rasterize([]byte("<svg")); !errors.Is(err, ErrRender) {
		t.Fatalf("expected ErrRender, got %v", err)
	}
}

func TestKeyedAssets(t *testing.T) {
	assets := Assets{PNG: []byte("png"), SVG: []byte("svg"), Metadata: []byte("{}")}
	keyed := assets.Keyed(*uint256.NewInt(42))

	want := map[string]string{
		"42.png": ContentTypePNG,
		"42.svg": ContentTypeSVG,
		"42":     ContentTypeJSON,
	}
	if len(keyed) != len(want) {
		t.Fatalf("expected %d assets, got %d", len(want), len(keyed))
	}
	for _, ka := range keyed {
		ct, ok := want[ka.Key]
		if !ok {
			t.Fatalf("unexpected key %q", ka.Key)
		}
		if got := ka.Asset.Header("Content-Type"); got != ct {
			t.Fatalf("%s content type %q, want %q", ka.Key, got, ct)
		}
	}
	if keyed[len(keyed)-1].Key != "42" {
		t.Fatalf("metadata must be stored last, got %q", keyed[len(keyed)-1].Key)
	}
}

func assertColor(t *testing.T, got color.Color, want color.RGBA, where string) {
	t.Helper()
	r, g, b, _ := got.RGBA()
	if !near(r>>8, want.R) || !near(g>>8, want.G) || !near(b>>8, want.B) {
		t.Fatalf("%s: got rgb(%d,%d,%d), want rgb(%d,%d,%d)", where, r>>8, g>>8, b>>8, want.R, want.G, want.B)
	}
}

func near(got uint32, want uint8) bool {
	d := int(got) - int(want)
	return d >= -3 && d <= 3
}
