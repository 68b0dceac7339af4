package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/flowerbox/core"
)

func TestLoggerWritesFile(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "flowerbox.log")

	cfg := core.DefaultConfiguration().Log
	cfg.Level = "debug"
	cfg.File = path

	logger, closer := newLogger(cfg)
	c.Assert(logger.GetLevel(), qt.Equals, log.DebugLevel)
	logger.WithField("step", core.StepViewport).Debug("initialising graphics device")
	c.Assert(closer.Close(), qt.IsNil)

	data, err := ioutil.ReadFile(path)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, `msg="initialising graphics device"`)
	c.Assert(string(data), qt.Contains, `step=viewport`)
}

func TestLoggerDefaultsToStderr(t *testing.T) {
	c := qt.New(t)
	logger, closer := newLogger(core.DefaultConfiguration().Log)
	c.Assert(logger.GetLevel(), qt.Equals, log.InfoLevel)
	c.Assert(closer.Close(), qt.IsNil)
}
