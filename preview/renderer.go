// Package preview draws committed blend shape weights for monitoring.
package preview

import (
	"image"
	"image/color"
	"log"
	"sort"
	"sync"

	"github.com/dmisol/animface/morph"
	"gocv.io/x/gocv"
)

const (
	rowH   = 22
	margin = 8
	labelW = 110
)

var (
	bg   = color.RGBA{24, 24, 24, 0}
	bar  = color.RGBA{80, 200, 120, 0}
	over = color.RGBA{230, 90, 60, 0}
	text = color.RGBA{230, 230, 230, 0}
)

// Renderer is a blend shape sink keeping the latest committed weights.
type Renderer struct {
	W, H int

	mu      sync.Mutex
	weights map[morph.Key]float64
	commits uint64
}

func NewRenderer(w, h int) *Renderer {
	return &Renderer{W: w, H: h, weights: make(map[morph.Key]float64)}
}

func (r *Renderer) Commit(w map[morph.Key]float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for k, v := range w {
		r.weights[k] = v
	}
	r.commits++
}

// Reset forgets all weights, as when the avatar goes away.
func (r *Renderer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.weights = make(map[morph.Key]float64)
}

// Weights copies what was committed so far.
func (r *Renderer) Weights() map[morph.Key]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[morph.Key]float64, len(r.weights))
	for k, v := range r.weights {
		out[k] = v
	}
	return out
}

// Bars lays out one row per key, sorted by name, clipped to the image
// height. Bar widths scale a weight of 1 to the full width.
func (r *Renderer) Bars() (keys []morph.Key, rects []image.Rectangle) {
	weights := r.Weights()
	for k := range weights {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	full := r.W - labelW - 2*margin
	n := 0
	for i, k := range keys {
		y := margin + i*rowH
		if y+rowH > r.H {
			break
		}
		w := weights[k]
		if w < 0 {
			w = 0
		}
		x1 := labelW + margin + int(w*float64(full))
		if x1 > r.W-margin {
			x1 = r.W - margin
		}
		rects = append(rects, image.Rect(labelW+margin, y+3, x1, y+rowH-3))
		n++
	}
	return keys[:n], rects
}

// Draw renders the bars; the caller closes the returned Mat.
func (r *Renderer) Draw() gocv.Mat {
	img := gocv.NewMatWithSize(r.H, r.W, gocv.MatTypeCV8UC3)
	gocv.Rectangle(&img, image.Rect(0, 0, r.W, r.H), bg, -1)

	keys, rects := r.Bars()
	weights := r.Weights()
	for i, k := range keys {
		c := bar
		if weights[k] > 1 {
			c = over
		}
		gocv.PutText(&img, string(k), image.Pt(margin, rects[i].Max.Y), gocv.FontHersheyPlain, 1.0, text, 1)
		if rects[i].Dx() > 0 {
			gocv.Rectangle(&img, rects[i], c, -1)
		}
	}
	return img
}

// Image renders the bars as a Go image.
func (r *Renderer) Image() (image.Image, error) {
	img := r.Draw()
	defer img.Close()

	return img.ToImage()
}

// PNG renders the bars as a png file.
func (r *Renderer) PNG() (b []byte, err error) {
	img := r.Draw()
	defer img.Close()

	var buf *gocv.NativeByteBuffer
	if buf, err = gocv.IMEncode(gocv.PNGFileExt, img); err != nil {
		r.Println("png", err)
		return
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

func (r *Renderer) Println(i ...interface{}) {
	log.Println("preview", i)
}
