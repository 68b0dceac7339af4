// Package resources holds the static assets compiled into the renderer
package resources

import "github.com/gobuffalo/packr"

// Shaders is the box of HLSL shader sources
var Shaders = packr.NewBox("./shaders")
