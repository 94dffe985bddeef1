package bento

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strconv"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
)

const (
	jpegQuality       = 82
	defaultAvatarSize = 192
	minAvatarSize     = 32
	maxAvatarSize     = 512
	placeholderWidth  = 1200
	placeholderHeight = 630
)

// resizeSquare center-crops img to a square and scales it to size x size,
// encoded as JPEG.
func resizeSquare(src io.Reader, size int) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	crop := image.Rect(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
		b.Min.X+(b.Dx()-side)/2+side,
		b.Min.Y+(b.Dy()-side)/2+side,
	)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// avatarSize parses the ?s= query value, clamped to a sane range.
func avatarSize(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultAvatarSize
	}
	return max(minAvatarSize, min(n, maxAvatarSize))
}

func (a *App) handleAvatar(c echo.Context) error {
	if a.Config.Profile.Avatar == "" {
		return echo.ErrNotFound
	}
	size := avatarSize(c.QueryParam("s"))
	if cached, ok := a.avatars.Load(size); ok {
		return c.Blob(http.StatusOK, "image/jpeg", cached.([]byte))
	}

	f, err := os.Open(a.Config.Profile.Avatar)
	if err != nil {
		return fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()

	data, err := resizeSquare(f, size)
	if err != nil {
		return err
	}
	a.avatars.Store(size, data)
	return c.Blob(http.StatusOK, "image/jpeg", data)
}

// placeholderJPEG is served wherever an image can't be resolved.
var placeholderJPEG = sync.OnceValues(func() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, placeholderWidth, placeholderHeight))
	top := color.RGBA{R: 0xf4, G: 0xf1, B: 0xea, A: 0xff}
	bottom := color.RGBA{R: 0xe2, G: 0xdc, B: 0xd0, A: 0xff}
	for y := 0; y < placeholderHeight; y++ {
		t := float64(y) / float64(placeholderHeight-1)
		row := color.RGBA{
			R: lerp(top.R, bottom.R, t),
			G: lerp(top.G, bottom.G, t),
			B: lerp(top.B, bottom.B, t),
			A: 0xff,
		}
		draw.Draw(img, image.Rect(0, y, placeholderWidth, y+1), image.NewUniform(row), image.Point{}, draw.Src)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
})

func lerp(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*t)
}

func handlePlaceholder(c echo.Context) error {
	data, err := placeholderJPEG()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/jpeg", data)
}
