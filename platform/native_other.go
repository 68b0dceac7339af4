//go:build !windows

package platform

import (
	log "github.com/sirupsen/logrus"

	"github.com/devblok/flowerbox/core"
)

// NewNativeWindow creates a Win32 window, only available on Windows
func NewNativeWindow(core.WindowConfiguration, log.FieldLogger) (Window, error) {
	return nil, core.ErrUnsupportedPlatform
}
