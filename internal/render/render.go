// Package render composes the image and metadata assets of a token.
package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"

	svg "github.com/ajstarks/svgo"
	"github.com/holiman/uint256"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/colornames"

	"orbMint/internal/model"
)

const (
	CanvasSize = 1000

	frameStrokeWidth = 20
	circleCenter     = 500
	circleRadius     = 480
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeSVG  = "image/svg+xml"
	ContentTypePNG  = "image/png"
)

// ErrRender marks a failure to produce the full asset set.
var ErrRender = errors.New("render assets")

// Options carries the per-job values embedded in metadata.
type Options struct {
	CollectionName string
	// BaseURL is the endpoint the image URLs are built from, chosen at job start.
	BaseURL string
}

// Assets holds the three payloads of one generation.
type Assets struct {
	PNG      []byte
	SVG      []byte
	Metadata []byte
}

// Metadata is the marketplace metadata document.
type Metadata struct {
	Name       string        `json:"name"`
	Image      string        `json:"image"`
	ImageSVG   string        `json:"image_svg"`
	Attributes []model.Trait `json:"attributes"`
}

// Compose renders the scene for attrs and builds the metadata for tokenID. Either
// all three payloads are returned or an error wrapping ErrRender.
func Compose(tokenID uint256.Int, attrs model.Attributes, opts Options) (Assets, error) {
	svgData, err := BuildSVG(attrs)
	if err != nil {
		return Assets{}, err
	}
	pngData, err := Rasterize(svgData)
	if err != nil {
		return Assets{}, err
	}
	metadata, err := BuildMetadata(tokenID, attrs, opts)
	if err != nil {
		return Assets{}, err
	}
	return Assets{PNG: pngData, SVG: svgData, Metadata: metadata}, nil
}

// BuildSVG writes the fixed-layout scene: background, frame, circle.
func BuildSVG(attrs model.Attributes) ([]byte, error) {
	for _, c := range []string{attrs.BgColor, attrs.FrameColor, attrs.CircleColor} {
		if _, ok := colornames.Map[c]; !ok {
			return nil, fmt.Errorf("%w: unknown color %q", ErrRender, c)
		}
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(CanvasSize, CanvasSize, 0, 0, CanvasSize, CanvasSize)
	canvas.Rect(0, 0, CanvasSize, CanvasSize, attr("fill", attrs.BgColor))
	canvas.Rect(0, 0, CanvasSize, CanvasSize,
		attr("fill", "none"),
		attr("stroke", attrs.FrameColor),
		attr("stroke-width", fmt.Sprint(frameStrokeWidth)),
	)
	canvas.Circle(circleCenter, circleCenter, circleRadius, attr("fill", attrs.CircleColor))
	canvas.End()
	return buf.Bytes(), nil
}

func attr(name, value string) string {
	return fmt.Sprintf(`%s="%s"`, name, value)
}

// Rasterize parses SVG text and renders it to PNG at its viewBox size.
func Rasterize(svgData []byte) ([]byte, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svgData), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("%w: parse svg: %v", ErrRender, err)
	}

	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: invalid canvas %dx%d", ErrRender, w, h)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encode png: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

// BuildMetadata serializes the metadata document for a token.
func BuildMetadata(tokenID uint256.Int, attrs model.Attributes, opts Options) ([]byte, error) {
	doc := Metadata{
		Name:       fmt.Sprintf("%s #%s", opts.CollectionName, model.FormatTokenID(tokenID)),
		Image:      BuildURL(opts.BaseURL, tokenID, "png"),
		ImageSVG:   BuildURL(opts.BaseURL, tokenID, "svg"),
		Attributes: attrs.Traits(),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal metadata: %v", ErrRender, err)
	}
	return data, nil
}

// BuildURL joins the base endpoint with the asset key of a token.
func BuildURL(base string, tokenID uint256.Int, ext string) string {
	return strings.TrimRight(base, "/") + "/" + model.AssetKey(tokenID, ext)
}

// Keyed returns the assets with their storage keys and headers. The metadata
// document comes last so it is never published ahead of the images it links.
func (a Assets) Keyed(tokenID uint256.Int) []model.KeyedAsset {
	return []model.KeyedAsset{
		{Key: model.AssetKey(tokenID, "png"), Asset: newAsset(ContentTypePNG, a.PNG)},
		{Key: model.AssetKey(tokenID, "svg"), Asset: newAsset(ContentTypeSVG, a.SVG)},
		{Key: model.AssetKey(tokenID, ""), Asset: newAsset(ContentTypeJSON, a.Metadata)},
	}
}

func newAsset(contentType string, body []byte) model.Asset {
	return model.Asset{
		Headers: []model.Header{{Name: "Content-Type", Value: contentType}},
		Body:    body,
	}
}
