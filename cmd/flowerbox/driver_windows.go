package main

import (
	log "github.com/sirupsen/logrus"

	"github.com/devblok/flowerbox/core"
	"github.com/devblok/flowerbox/core/d3d11"
)

func newDriver(logger log.FieldLogger) (core.Driver, error) {
	return d3d11.NewDriver(logger), nil
}
