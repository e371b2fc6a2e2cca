package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompressJPEGScalesDown(t *testing.T) {
	out, err := CompressJPEG(pngBytes(t, 400, 200), 100, DefaultQuality)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Width)
	assert.Equal(t, 50, cfg.Height)
}

func TestCompressJPEGKeepsSmallImages(t *testing.T) {
	out, err := CompressJPEG(pngBytes(t, 30, 60), DefaultMaxDimension, DefaultQuality)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 60, cfg.Height)
}

func TestCompressJPEGRejectsGarbage(t *testing.T) {
	_, err := CompressJPEG([]byte("not an image"), 100, 80)
	assert.Error(t, err)
}
