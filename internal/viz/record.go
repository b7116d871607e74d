package viz

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"os"
	"time"

	"github.com/san-kum/riverlab/internal/render"
	"github.com/san-kum/riverlab/internal/terrain"
)

const (
	// frameCellSize is the pixel size of one cell in recorded frames.
	frameCellSize = 4
	// maxFrames caps a recording at one minute of 10 Hz frames.
	maxFrames = 600
)

// Frame converts t into a paletted GIF frame.
func Frame(t *terrain.Terrain) *image.Paletted {
	src := render.Image(t, frameCellSize)
	dst := image.NewPaletted(src.Bounds(), palette.Plan9)
	draw.Draw(dst, dst.Bounds(), src, image.Point{}, draw.Src)
	return dst
}

func (m *Model) captureFrame(t *terrain.Terrain) {
	if len(m.frames) >= maxFrames {
		return
	}
	m.frames = append(m.frames, Frame(t))
}

func (m *Model) stopRecording() {
	m.recording = false
	if len(m.frames) == 0 {
		return
	}
	name := fmt.Sprintf("riverlab_%d.gif", time.Now().Unix())
	if err := saveGIF(name, m.frames, m.interval); err != nil {
		m.status = err.Error()
	} else {
		m.status = "saved " + name
	}
	m.frames = nil
}

func saveGIF(path string, frames []*image.Paletted, interval time.Duration) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeGIF(f, frames, interval)
}

// EncodeGIF writes frames as a looping animation with interval between them.
func EncodeGIF(w io.Writer, frames []*image.Paletted, interval time.Duration) error {
	delay := int(interval / (10 * time.Millisecond))
	if delay < 1 {
		delay = 1
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}
