package glbackend

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/sheep3d/internal/engine/render"
)

func (b *Backend) CreateTexture() (render.TextureID, error) {
	var id uint32
	gl.GenTextures(1, &id)
	if id == 0 {
		return 0, fmt.Errorf("failed to create texture (error 0x%x)", gl.GetError())
	}
	return render.TextureID(id), nil
}

func (b *Backend) DeleteTexture(id render.TextureID) {
	name := uint32(id)
	gl.DeleteTextures(1, &name)
}

// UploadTexture stores RGBA8 pixels. Power-of-two images get mipmaps;
// others are clamped and filtered linearly.
func (b *Backend) UploadTexture(id render.TextureID, width, height int, pixels []byte) {
	if len(pixels) == 0 {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	if isPowerOfTwo(width) && isPowerOfTwo(height) {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
}

func (b *Backend) BindTexture(unit uint32, id render.TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
}

func isPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}
