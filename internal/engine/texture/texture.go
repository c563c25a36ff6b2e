// Package texture decodes image files and uploads them as 2D textures.
package texture

import (
	"bytes"
	"image"
	"image/draw"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	_ "golang.org/x/image/bmp" // BMP decoder registration

	"github.com/Faultbox/sheep3d/internal/engine/render"
	"github.com/Faultbox/sheep3d/internal/logger"
)

// ErrDecode reports image data that could not be decoded.
var ErrDecode = errors.New("texture: cannot decode image")

// Decode decodes image data. name is only used to pick the TGA decoder by
// extension; every other format is sniffed from the data.
func Decode(name string, data []byte) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(ErrDecode, "%s: %v", name, err)
	}
	return img, nil
}

// DecodeFile reads and decodes an image file.
func DecodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read texture")
	}
	return Decode(path, data)
}

// ToRGBA converts any image to tightly packed RGBA with its origin at 0,0.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) && rgba.Stride == 4*rgba.Rect.Dx() {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Texture2D is an uploaded texture bound to a fixed unit.
type Texture2D struct {
	backend render.Backend
	id      render.TextureID

	Unit   uint32
	Width  int
	Height int
}

// Upload creates a texture from img on unit 0.
func Upload(b render.Backend, img image.Image) (*Texture2D, error) {
	rgba := ToRGBA(img)
	id, err := b.CreateTexture()
	if err != nil {
		return nil, errors.Wrap(err, "create texture")
	}
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	b.UploadTexture(id, w, h, rgba.Pix)

	logger.Debug("texture uploaded",
		zap.Uint32("texture", uint32(id)),
		zap.Int("width", w),
		zap.Int("height", h),
	)
	return &Texture2D{backend: b, id: id, Width: w, Height: h}, nil
}

// Load decodes the file at path and uploads it.
func Load(b render.Backend, path string) (*Texture2D, error) {
	img, err := DecodeFile(path)
	if err != nil {
		return nil, err
	}
	return Upload(b, img)
}

// ID returns the backend texture name.
func (t *Texture2D) ID() render.TextureID { return t.id }

// Bind makes the texture current on its unit.
func (t *Texture2D) Bind() {
	t.backend.BindTexture(t.Unit, t.id)
}

// Delete releases the texture.
func (t *Texture2D) Delete() {
	if t.id != 0 {
		t.backend.DeleteTexture(t.id)
		t.id = 0
	}
}
