package viewport

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

var (
	// ErrNoImage is returned when a render callback succeeds without an image.
	ErrNoImage = errors.New("render returned no image")
	// ErrImageSize is returned when the image does not match the request.
	ErrImageSize = errors.New("render returned wrong image size")
	// ErrRenderPanic wraps a panic recovered from a render callback.
	ErrRenderPanic = errors.New("render panicked")
)

// Quality selects the resolution of a frame.
type Quality int

const (
	Full Quality = iota // Viewport resolution; never dropped
	Fast                // Reduced resolution while interacting
)

func (q Quality) String() string {
	if q == Fast {
		return "fast"
	}
	return "full"
}

// Frame is everything a render callback gets to see.
type Frame struct {
	Camera  Camera
	Width   int // Requested image width (viewport width / Scale)
	Height  int // Requested image height
	Scale   int
	Quality Quality
	Params  ParamSnapshot
}

// Result is the output of one render. FaceIndex, when present, holds one
// entry per pixel (-1 for background).
type Result struct {
	Image     *image.RGBA
	FaceIndex []int32
}

// RenderFunc produces a complete image for the frame or an error. Partial
// images are never shown.
type RenderFunc func(f Frame) (*Result, error)

// Surface displays finished images.
type Surface interface {
	Present(img image.Image) error
}

// Output receives render failures.
type Output interface {
	ShowError(err error)
}

// Dispatcher adapts a RenderFunc to the scheduler: it reads the controller
// snapshot, scales the request and pushes the image to the surface.
type Dispatcher struct {
	ctrl      Controller
	params    *Params
	render    RenderFunc
	surface   Surface
	downscale int

	last      *Result
	lastScale int
	canvas    *image.RGBA
}

// NewDispatcher creates a dispatcher. Fast frames are rendered at
// 1/downscale of the viewport in each dimension.
func NewDispatcher(ctrl Controller, params *Params, render RenderFunc, surface Surface, downscale int) *Dispatcher {
	return &Dispatcher{
		ctrl:      ctrl,
		params:    params,
		render:    render,
		surface:   surface,
		downscale: max(downscale, 1),
	}
}

// RenderFrame renders and presents one frame.
func (d *Dispatcher) RenderFrame(q Quality) error {
	cam := d.ctrl.Camera()
	scale := 1
	if q == Fast {
		scale = d.downscale
	}
	f := Frame{
		Camera:  cam,
		Width:   max(cam.Width/scale, 1),
		Height:  max(cam.Height/scale, 1),
		Scale:   scale,
		Quality: q,
	}
	if d.params != nil {
		f.Params = d.params.Snapshot()
	}

	res, err := d.call(f)
	if err != nil {
		return err
	}
	if res == nil || res.Image == nil {
		return ErrNoImage
	}
	if b := res.Image.Bounds(); b.Dx() != f.Width || b.Dy() != f.Height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrImageSize, b.Dx(), b.Dy(), f.Width, f.Height)
	}
	if res.FaceIndex != nil && len(res.FaceIndex) != f.Width*f.Height {
		return fmt.Errorf("%w: face index has %d entries, want %d", ErrImageSize, len(res.FaceIndex), f.Width*f.Height)
	}

	img := image.Image(res.Image)
	if scale != 1 {
		img = d.upscale(res.Image, max(cam.Width, 1), max(cam.Height, 1))
	}
	if err := d.surface.Present(img); err != nil {
		return fmt.Errorf("present frame: %w", err)
	}
	d.last = res
	d.lastScale = scale
	return nil
}

func (d *Dispatcher) call(f Frame) (res *Result, err error) {
	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("%w: %v", ErrRenderPanic, p)
		}
	}()
	res, err = d.render(f)
	if err != nil {
		return nil, fmt.Errorf("render %s frame: %w", f.Quality, err)
	}
	return res, nil
}

func (d *Dispatcher) upscale(src *image.RGBA, width, height int) *image.RGBA {
	if d.canvas == nil || d.canvas.Bounds().Dx() != width || d.canvas.Bounds().Dy() != height {
		d.canvas = image.NewRGBA(image.Rect(0, 0, width, height))
	}
	draw.NearestNeighbor.Scale(d.canvas, d.canvas.Bounds(), src, src.Bounds(), draw.Src, nil)
	return d.canvas
}

// Last returns the most recently presented result.
func (d *Dispatcher) Last() *Result {
	return d.last
}

// FaceAt looks up the face under a viewport pixel in the last result.
func (d *Dispatcher) FaceAt(x, y int) (int, bool) {
	if d.last == nil || d.last.FaceIndex == nil || d.lastScale == 0 {
		return -1, false
	}
	// Division truncates towards zero, so negatives are rejected first.
	if x < 0 || y < 0 {
		return -1, false
	}
	b := d.last.Image.Bounds()
	x, y = x/d.lastScale, y/d.lastScale
	if x >= b.Dx() || y >= b.Dy() {
		return -1, false
	}
	i := d.last.FaceIndex[y*b.Dx()+x]
	return int(i), i >= 0
}
