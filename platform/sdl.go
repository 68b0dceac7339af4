package platform

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/flowerbox/core"
)

// NewSDLWindow creates a fixed size SDL2 window
func NewSDLWindow(cfg core.WindowConfiguration, logger log.FieldLogger) (*SDLWindow, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, errors.Wrap(err, "sdl.Init()")
	}
	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width),
		int32(cfg.Height),
		sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "sdl.CreateWindow()")
	}
	logger.WithFields(log.Fields{
		"title":  cfg.Title,
		"width":  cfg.Width,
		"height": cfg.Height,
	}).Debug("sdl window created")
	return &SDLWindow{
		window: window,
		width:  cfg.Width,
		height: cfg.Height,
	}, nil
}

// SDLWindow is a host window backed by SDL2
type SDLWindow struct {
	window        *sdl.Window
	width, height uint32
}

// Handle implements interface
func (w *SDLWindow) Handle() uintptr {
	if w.window == nil {
		return 0
	}
	return nativeHandle(w.window)
}

// ClientSize implements interface
func (w *SDLWindow) ClientSize() (uint32, uint32) {
	return w.width, w.height
}

// Peek implements interface
func (w *SDLWindow) Peek() (core.Message, bool) {
	event := sdl.PollEvent()
	if event == nil {
		return core.Message{}, false
	}
	kind := core.OtherMessage
	if _, ok := event.(*sdl.QuitEvent); ok {
		kind = core.QuitMessage
	}
	return core.Message{Kind: kind, Native: event}, true
}

// Dispatch implements interface, SDL has handled the event by the time it's polled
func (w *SDLWindow) Dispatch(core.Message) {}

// Close implements interface
func (w *SDLWindow) Close() {
	if w.window == nil {
		return
	}
	w.window.Destroy()
	w.window = nil
	sdl.Quit()
}
