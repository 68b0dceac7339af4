package main

import (
	"bytes"
	"encoding/json"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/flowerbox/core"
)

func TestInspect(t *testing.T) {
	c := qt.New(t)

	var buf bytes.Buffer
	c.Assert(inspect(&buf, core.DefaultConfiguration()), qt.IsNil)

	var out struct {
		Steps    []string
		Pipeline struct {
			Topology     string
			VertexEntry  struct{ Name, Profile string }
			PixelEntry   struct{ Name, Profile string }
			DepthStencil struct {
				DepthFunc     string
				StencilEnable bool
			}
			Rasterizer struct{ Fill, Cull string }
		}
		ShaderName string
		Vertices   int
		Indices    int
	}
	c.Assert(json.Unmarshal(buf.Bytes(), &out), qt.IsNil)

	c.Assert(out.Steps, qt.DeepEquals, []string{
		"device",
		"render target",
		"viewport",
		"depth stencil state",
		"depth stencil view",
		"shaders",
		"input layout",
		"topology",
		"rasterizer",
	})
	c.Assert(out.Pipeline.Topology, qt.Equals, "triangle_list")
	c.Assert(out.Pipeline.VertexEntry.Name, qt.Equals, "VS")
	c.Assert(out.Pipeline.VertexEntry.Profile, qt.Equals, "vs_5_0")
	c.Assert(out.Pipeline.PixelEntry.Name, qt.Equals, "PS")
	c.Assert(out.Pipeline.PixelEntry.Profile, qt.Equals, "ps_5_0")
	c.Assert(out.Pipeline.DepthStencil.DepthFunc, qt.Equals, "less_equal")
	c.Assert(out.Pipeline.DepthStencil.StencilEnable, qt.IsFalse)
	c.Assert(out.Pipeline.Rasterizer.Fill, qt.Equals, "solid")
	c.Assert(out.Pipeline.Rasterizer.Cull, qt.Equals, "none")
	c.Assert(out.ShaderName, qt.Equals, "cube.hlsl")
	c.Assert(out.Vertices, qt.Equals, 8)
	c.Assert(out.Indices, qt.Equals, 36)
}

func TestInspectMissingShader(t *testing.T) {
	c := qt.New(t)
	cfg := core.DefaultConfiguration()
	cfg.Renderer.ShaderName = "missing.hlsl"

	var buf bytes.Buffer
	c.Assert(inspect(&buf, cfg), qt.ErrorMatches, `packr.Box.Find\(\): .*`)
	c.Assert(buf.Len(), qt.Equals, 0)
}
