package texture

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
)

// TGA image types supported by DecodeTGA.
const (
	TGATypeUncompressed = 2  // uncompressed true-color
	TGATypeRLE          = 10 // RLE compressed true-color
)

const tgaHeaderSize = 18

// MaxTGADimension bounds the width and height DecodeTGA accepts.
const MaxTGADimension = 16384

// rlePixelsPerPacket is the most pixels one RLE packet can produce.
const rlePixelsPerPacket = 128

// DecodeTGA decodes uncompressed or RLE true-color TGA data at 24 or 32 bits.
// TGA has no magic number, so it is selected by file extension rather than
// registered with the image package.
func DecodeTGA(data []byte) (image.Image, error) {
	if len(data) < tgaHeaderSize {
		return nil, errors.Wrap(ErrDecode, "tga: header truncated")
	}

	idLength := int(data[0])
	colorMapType := data[1]
	imageType := int(data[2])
	width := int(data[12]) | int(data[13])<<8
	height := int(data[14]) | int(data[15])<<8
	bpp := int(data[16])
	topToBottom := data[17]&0x20 != 0

	if colorMapType != 0 {
		return nil, errors.Wrap(ErrDecode, "tga: color-mapped images not supported")
	}
	if imageType != TGATypeUncompressed && imageType != TGATypeRLE {
		return nil, errors.Wrapf(ErrDecode, "tga: unsupported image type %d", imageType)
	}
	if bpp != 24 && bpp != 32 {
		return nil, errors.Wrapf(ErrDecode, "tga: unsupported bit depth %d", bpp)
	}

	if width == 0 || height == 0 || width > MaxTGADimension || height > MaxTGADimension {
		return nil, errors.Wrapf(ErrDecode, "tga: invalid size %dx%d", width, height)
	}

	offset := tgaHeaderSize + idLength
	if offset > len(data) {
		return nil, errors.Wrap(ErrDecode, "tga: image id truncated")
	}
	pixels := data[offset:]
	pixelBytes := bpp / 8
	n := width * height

	// The pixel data must be able to cover the image before it is allocated.
	if imageType == TGATypeUncompressed && len(pixels) < n*pixelBytes {
		return nil, errors.Wrap(ErrDecode, "tga: pixel data truncated")
	}
	if imageType == TGATypeRLE && (len(pixels)/(1+pixelBytes)+1)*rlePixelsPerPacket < n {
		return nil, errors.Wrap(ErrDecode, "tga: run-length data truncated")
	}

	r := &tgaReader{
		img:         image.NewRGBA(image.Rect(0, 0, width, height)),
		data:        pixels,
		bytes:       pixelBytes,
		width:       width,
		height:      height,
		topToBottom: topToBottom,
	}

	var err error
	if imageType == TGATypeUncompressed {
		err = r.raw()
	} else {
		err = r.rle()
	}
	if err != nil {
		return nil, err
	}
	return r.img, nil
}

type tgaReader struct {
	img         *image.RGBA
	data        []byte
	pos         int
	bytes       int
	width       int
	height      int
	topToBottom bool
}

// pixel reads one BGR(A) pixel.
func (r *tgaReader) pixel() (color.RGBA, bool) {
	if r.pos+r.bytes > len(r.data) {
		return color.RGBA{}, false
	}
	p := r.data[r.pos:]
	c := color.RGBA{R: p[2], G: p[1], B: p[0], A: 255}
	if r.bytes == 4 {
		c.A = p[3]
	}
	r.pos += r.bytes
	return c, true
}

// set stores the i-th pixel in file order, flipping bottom-up images.
func (r *tgaReader) set(i int, c color.RGBA) {
	x, y := i%r.width, i/r.width
	if !r.topToBottom {
		y = r.height - 1 - y
	}
	r.img.SetRGBA(x, y, c)
}

func (r *tgaReader) raw() error {
	n := r.width * r.height
	if len(r.data) < n*r.bytes {
		return errors.Wrap(ErrDecode, "tga: pixel data truncated")
	}
	for i := 0; i < n; i++ {
		c, _ := r.pixel()
		r.set(i, c)
	}
	return nil
}

func (r *tgaReader) rle() error {
	n := r.width * r.height
	for i := 0; i < n; {
		if r.pos >= len(r.data) {
			return errors.Wrap(ErrDecode, "tga: run-length data truncated")
		}
		packet := r.data[r.pos]
		r.pos++
		count := int(packet&0x7f) + 1

		if packet&0x80 != 0 {
			c, ok := r.pixel()
			if !ok {
				return errors.Wrap(ErrDecode, "tga: run-length data truncated")
			}
			for k := 0; k < count && i < n; k++ {
				r.set(i, c)
				i++
			}
			continue
		}
		for k := 0; k < count && i < n; k++ {
			c, ok := r.pixel()
			if !ok {
				return errors.Wrap(ErrDecode, "tga: run-length data truncated")
			}
			r.set(i, c)
			i++
		}
	}
	return nil
}
