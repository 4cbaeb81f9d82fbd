package preview

import (
	"context"
	"image"
	"io"
	"log"
	"time"

	"github.com/gen2brain/x264-go"
)

// Source provides frames to encode.
type Source interface {
	Image() (image.Image, error)
}

// Encoder turns periodic snapshots of a Source into an H.264 byte stream.
type Encoder struct {
	src Source
	fps int

	pr *io.PipeReader
	pw *io.PipeWriter
}

func NewEncoder(src Source, fps int) *Encoder {
	e := &Encoder{src: src, fps: fps}
	e.pr, e.pw = io.Pipe()
	return e
}

// Read returns the annex-b stream.
func (e *Encoder) Read(p []byte) (int, error) {
	return e.pr.Read(p)
}

func (e *Encoder) Close() error {
	return e.pr.Close()
}

// Run encodes frames until ctx is done or the reader goes away.
func (e *Encoder) Run(ctx context.Context, w, h int) (err error) {
	defer func() { e.pw.CloseWithError(err) }()

	opts := &x264.Options{
		Width:     w,
		Height:    h,
		FrameRate: e.fps,
		Tune:      "zerolatency",
		Preset:    "veryfast",
		Profile:   "baseline",
		LogLevel:  x264.LogError,
	}
	var enc *x264.Encoder
	if enc, err = x264.NewEncoder(e.pw, opts); err != nil {
		e.Println("encoder", err)
		return
	}
	defer enc.Close()

	t := time.NewTicker(time.Second / time.Duration(e.fps))
	defer t.Stop()

	e.Println("encoding", w, h, e.fps)
	for {
		select {
		case <-ctx.Done():
			enc.Flush()
			return ctx.Err()
		case <-t.C:
			var img image.Image
			if img, err = e.src.Image(); err != nil {
				e.Println("frame", err)
				return
			}
			if err = enc.Encode(img); err != nil {
				e.Println("encode", err)
				return
			}
		}
	}
}

func (e *Encoder) Println(i ...interface{}) {
	log.Println("x264", i)
}
