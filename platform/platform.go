// Package platform provides the host windows the renderer presents into.
package platform

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/flowerbox/core"
)

// Window is a host window together with its message queue
type Window interface {
	core.Window
	core.MessageSource

	// Close destroys the window
	Close()
}

// New creates the window backend named in cfg
func New(cfg core.WindowConfiguration, logger log.FieldLogger) (Window, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if err := cfg.CheckSize(); err != nil {
		return nil, errors.Wrap(err, "platform.New()")
	}
	switch cfg.Backend {
	case core.WindowNative:
		return NewNativeWindow(cfg, logger)
	case core.WindowSDL:
		w, err := NewSDLWindow(cfg, logger)
		if err != nil {
			return nil, err
		}
		return w, nil
	default:
		return nil, errors.Errorf("platform.New(): unknown window backend %q", cfg.Backend)
	}
}
