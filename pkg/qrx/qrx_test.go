package qrx_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/aussiebroadwan/coursehub/pkg/qrx"
	"github.com/stretchr/testify/require"
)

func TestPNG(t *testing.T) {
	b, err := qrx.PNG("otpauth://totp/CourseHub:a@example.com?secret=JBSWY3DPEHPK3PXP&issuer=CourseHub&digits=6", 200)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, 200, img.Bounds().Dx())
}

func TestPNG_DefaultSize(t *testing.T) {
	b, err := qrx.PNG("hello", 0)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	require.Equal(t, qrx.DefaultSize, img.Bounds().Dx())
}

func TestPNG_EmptyContent(t *testing.T) {
	for _, s := range []string{"", "   "} {
		_, err := qrx.PNG(s, 100)
		require.ErrorIs(t, err, qrx.ErrEmptyContent)
	}
}
