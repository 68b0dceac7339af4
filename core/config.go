package core

import (
	"io/ioutil"
	"runtime"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Window backends
const (
	WindowNative = "native"
	WindowSDL    = "sdl"
)

// Environment variables overriding the configuration file
const (
	EnvWidth    = "FLOWERBOX_WIDTH"
	EnvHeight   = "FLOWERBOX_HEIGHT"
	EnvTitle    = "FLOWERBOX_TITLE"
	EnvWindow   = "FLOWERBOX_WINDOW"
	EnvDebug    = "FLOWERBOX_DEBUG"
	EnvShader   = "FLOWERBOX_SHADER"
	EnvLogLevel = "FLOWERBOX_LOG_LEVEL"
	EnvLogFile  = "FLOWERBOX_LOG_FILE"
)

// Configuration defines a global renderer configuration setting
type Configuration struct {
	Window   WindowConfiguration   `yaml:"window"`
	Renderer RendererConfiguration `yaml:"renderer"`
	Log      LogConfiguration      `yaml:"log"`
}

// WindowConfiguration is used to configure the host window.
// The size is fixed for the lifetime of the process.
type WindowConfiguration struct {
	Title   string `yaml:"title"`
	Width   uint32 `yaml:"width"`
	Height  uint32 `yaml:"height"`
	Backend string `yaml:"backend"`
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	// DebugMode enables the backend debug layer
	DebugMode bool `yaml:"debug"`

	// ShaderName is the shader resource compiled at startup
	ShaderName string `yaml:"shader"`

	// ShaderPath, if set, overrides ShaderName with a file on disk
	ShaderPath string `yaml:"shaderPath"`
}

// LogConfiguration is used to configure logging
type LogConfiguration struct {
	Level string `yaml:"level"`

	// File routes the log into a rotated file instead of stderr
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"maxSizeMB"`
	MaxBackups int    `yaml:"maxBackups"`
}

// MaxWindowDimension is the largest back buffer side a Direct3D 11 device supports
const MaxWindowDimension = 16384

// CheckSize rejects client sizes no swapchain can be created for
func (w WindowConfiguration) CheckSize() error {
	if w.Width == 0 || w.Height == 0 {
		return errors.Errorf("invalid window size %dx%d", w.Width, w.Height)
	}
	if w.Width > MaxWindowDimension || w.Height > MaxWindowDimension {
		return errors.Errorf("window size %dx%d exceeds %d", w.Width, w.Height, MaxWindowDimension)
	}
	return nil
}

// DefaultConfiguration returns the configuration used when nothing is overridden
func DefaultConfiguration() Configuration {
	backend := WindowSDL
	if runtime.GOOS == "windows" {
		backend = WindowNative
	}
	return Configuration{
		Window: WindowConfiguration{
			Title:   "FlowerBox",
			Width:   1920,
			Height:  1080,
			Backend: backend,
		},
		Renderer: RendererConfiguration{
			DebugMode:  true,
			ShaderName: "cube.hlsl",
		},
		Log: LogConfiguration{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// LoadConfiguration reads the YAML file at path over the defaults and then applies
// environment overrides. An empty path skips the file.
func LoadConfiguration(path string) (Configuration, error) {
	cfg := DefaultConfiguration()
	if path != "" {
		data, err := ioutil.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, "ioutil.ReadFile()")
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrap(err, "yaml.Unmarshal()")
		}
	}
	if err := cfg.ApplyEnvironment(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnvironment overrides settings from FLOWERBOX_* environment variables
func (c *Configuration) ApplyEnvironment() error {
	if err := envUint32(EnvWidth, &c.Window.Width); err != nil {
		return err
	}
	if err := envUint32(EnvHeight, &c.Window.Height); err != nil {
		return err
	}
	if v := envy.Get(EnvDebug, ""); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "%s", EnvDebug)
		}
		c.Renderer.DebugMode = debug
	}
	c.Window.Title = envy.Get(EnvTitle, c.Window.Title)
	c.Window.Backend = envy.Get(EnvWindow, c.Window.Backend)
	c.Renderer.ShaderPath = envy.Get(EnvShader, c.Renderer.ShaderPath)
	c.Log.Level = envy.Get(EnvLogLevel, c.Log.Level)
	c.Log.File = envy.Get(EnvLogFile, c.Log.File)
	return nil
}

func envUint32(key string, dst *uint32) error {
	v := envy.Get(key, "")
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return errors.Wrapf(err, "%s", key)
	}
	*dst = uint32(n)
	return nil
}

// Validate checks the configuration for values the renderer can't work with
func (c Configuration) Validate() error {
	if err := c.Window.CheckSize(); err != nil {
		return err
	}
	switch c.Window.Backend {
	case WindowNative, WindowSDL:
	default:
		return errors.Errorf("unknown window backend %q", c.Window.Backend)
	}
	if c.Renderer.ShaderName == "" && c.Renderer.ShaderPath == "" {
		return errors.New("no shader configured")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.ParseLevel()")
	}
	return nil
}
