//go:build !windows

package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/devblok/flowerbox/core"
)

func newDriver(log.FieldLogger) (core.Driver, error) {
	return nil, core.ErrUnsupportedPlatform
}
