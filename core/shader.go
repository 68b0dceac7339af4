package core

import (
	"io/ioutil"
	"path/filepath"

	"github.com/gobuffalo/packr"
	"github.com/pkg/errors"
)

// ShaderSource is HLSL source text, compiled once at startup
type ShaderSource struct {
	// Name is reported by the compiler in its diagnostics
	Name string
	Text []byte
}

// LoadShaderSource reads a shader from a resource box
func LoadShaderSource(box packr.Box, name string) (ShaderSource, error) {
	text, err := box.Find(name)
	if err != nil {
		return ShaderSource{}, errors.Wrap(err, "packr.Box.Find()")
	}
	if len(text) == 0 {
		return ShaderSource{}, errors.Errorf("shader %s is empty", name)
	}
	return ShaderSource{Name: name, Text: text}, nil
}

// ReadShaderSource reads a shader from a file on disk
func ReadShaderSource(path string) (ShaderSource, error) {
	text, err := ioutil.ReadFile(path)
	if err != nil {
		return ShaderSource{}, errors.Wrap(err, "ioutil.ReadFile()")
	}
	if len(text) == 0 {
		return ShaderSource{}, errors.Errorf("shader %s is empty", path)
	}
	return ShaderSource{Name: filepath.Base(path), Text: text}, nil
}

// ResolveShaderSource picks the shader configured for the renderer, a file
// on disk when ShaderPath is set and the named resource in box otherwise
func ResolveShaderSource(box packr.Box, cfg RendererConfiguration) (ShaderSource, error) {
	if cfg.ShaderPath != "" {
		return ReadShaderSource(cfg.ShaderPath)
	}
	return LoadShaderSource(box, cfg.ShaderName)
}
