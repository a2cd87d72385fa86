package globe

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"globeview/internal/geo"
)

// ErrAssetLoad marks texture failures. They are never fatal.
var ErrAssetLoad = errors.New("asset load failed")

// AssetLoadError reports a texture that could not be used.
type AssetLoadError struct {
	Path string
	Err  error
}

func (e *AssetLoadError) Error() string {
	return fmt.Sprintf("load texture %q: %v", e.Path, e.Err)
}

func (e *AssetLoadError) Unwrap() error { return e.Err }

func (e *AssetLoadError) Is(target error) bool { return target == ErrAssetLoad }

// OceanBlue colors the sphere when no texture is available.
var OceanBlue = geo.RGB{0.11, 0.32, 0.62}

// maxTextureWidth bounds the sampled grid; the terminal never shows more.
const maxTextureWidth = 1024

// Material gives the unlit surface color at a geographic position.
type Material interface {
	Sample(latDeg, lonDeg float64) geo.RGB
}

// FlatMaterial is a single color.
type FlatMaterial struct {
	Color geo.RGB
}

func (m FlatMaterial) Sample(float64, float64) geo.RGB { return m.Color }

// TextureMaterial samples an equirectangular image: longitude -180..180
// runs left to right and latitude 90..-90 top to bottom.
type TextureMaterial struct {
	width, height int
	texels        []geo.RGB
}

// NewTextureMaterial copies img into a texel grid, downsampling wide
// images by nearest neighbour.
func NewTextureMaterial(img image.Image) *TextureMaterial {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	step := 1
	if w > maxTextureWidth {
		step = (w + maxTextureWidth - 1) / maxTextureWidth
	}
	tw, th := w/step, h/step
	if tw == 0 || th == 0 {
		tw, th, step = w, h, 1
	}

	t := &TextureMaterial{width: tw, height: th, texels: make([]geo.RGB, tw*th)}
	for y := 0; y < th; y++ {
		for x := 0; x < tw; x++ {
			r, g, bl, _ := img.At(b.Min.X+x*step, b.Min.Y+y*step).RGBA()
			t.texels[y*tw+x] = geo.RGB{float64(r) / 0xffff, float64(g) / 0xffff, float64(bl) / 0xffff}
		}
	}
	return t
}

func (t *TextureMaterial) Size() (width, height int) { return t.width, t.height }

func (t *TextureMaterial) Sample(latDeg, lonDeg float64) geo.RGB {
	u := (lonDeg + 180) / 360
	v := (90 - latDeg) / 180
	x := int(math.Floor(u * float64(t.width)))
	y := int(math.Floor(v * float64(t.height)))
	x = ((x % t.width) + t.width) % t.width
	y = max(0, min(y, t.height-1))
	return t.texels[y*t.width+x]
}

// LoadMaterial decodes the texture at path. On any failure it returns the
// flat ocean material together with an *AssetLoadError, so callers can log
// and carry on with the returned material either way.
func LoadMaterial(path string) (Material, error) {
	fallback := FlatMaterial{Color: OceanBlue}
	f, err := os.Open(path)
	if err != nil {
		return fallback, &AssetLoadError{Path: path, Err: err}
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fallback, &AssetLoadError{Path: path, Err: err}
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return fallback, &AssetLoadError{Path: path, Err: errors.New("empty image")}
	}
	return NewTextureMaterial(img), nil
}
