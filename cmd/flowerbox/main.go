package main

import (
	"flag"
	"io"
	"os"
	"runtime"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/devblok/flowerbox/core"
	"github.com/devblok/flowerbox/model"
	"github.com/devblok/flowerbox/platform"
	"github.com/devblok/flowerbox/resources"
)

func init() {
	// window messages and the device context belong to the thread that created them
	runtime.LockOSThread()
}

var (
	configFile = flag.String("config", "", "YAML configuration file")
	envFile    = flag.String("env", "", "dotenv file loaded before environment overrides")
)

func main() {
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			log.Fatal(errors.Wrap(err, "godotenv.Load()"))
		}
		envy.Reload()
	}

	cfg, err := core.LoadConfiguration(*configFile)
	if err != nil {
		log.Fatal(err)
	}

	logger, closer := newLogger(cfg.Log)
	err = run(cfg, logger)
	closer.Close()
	if err != nil {
		logger.Fatal(err)
	}
}

func run(cfg core.Configuration, logger *log.Logger) error {
	drv, err := newDriver(logger)
	if err != nil {
		return err
	}

	window, err := platform.New(cfg.Window, logger)
	if err != nil {
		return err
	}
	defer window.Close()

	source, err := core.ResolveShaderSource(resources.Shaders, cfg.Renderer)
	if err != nil {
		return err
	}

	device, err := core.NewGraphicsDevice(drv, window, cfg.Renderer, core.DefaultPipeline(source), logger)
	if err != nil {
		return err
	}
	defer device.Destroy()

	loop := core.FrameLoop{
		Source: window,
		Device: device,
		Mesh:   model.Cube(),
		Log:    logger,
		Stats:  core.NewFrameStats(logger, core.DefaultStatsInterval),
	}
	return loop.Run()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger configures logrus, routing into a rotated file when one is configured
func newLogger(cfg core.LogConfiguration) (*log.Logger, io.Closer) {
	logger := log.New()
	if level, err := log.ParseLevel(cfg.Level); err == nil {
		logger.SetLevel(level)
	}
	if cfg.File == "" {
		logger.SetOutput(os.Stderr)
		return logger, nopCloser{}
	}

	w := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
	}
	logger.SetOutput(w)
	logger.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	return logger, w
}
