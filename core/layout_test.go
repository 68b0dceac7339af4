package core_test

import (
	"io/ioutil"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/flowerbox/core"
	"github.com/devblok/flowerbox/core/coretest"
	"github.com/devblok/flowerbox/core/d3d11"
)

// compiledSignature is the input signature of the compiled cube vertex shader
func compiledSignature(c *qt.C) []core.InputElement {
	bytecode, err := ioutil.ReadFile("d3d11/testdata/cube_vs.dxbc")
	c.Assert(err, qt.IsNil)
	inputs, err := d3d11.InputSignature(bytecode)
	c.Assert(err, qt.IsNil)
	return inputs
}

func TestCompiledSignatureRejectsNarrowLayout(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{Signature: compiledSignature(c)}
	pipeline := core.DefaultPipeline(testShader)
	pipeline.InputLayout = []core.InputElement{{
		Semantic: "POSITION",
		Format:   core.FormatR32G32Float,
	}}

	dev, err := core.NewGraphicsDevice(drv, coretest.NewWindow(640, 480),
		core.DefaultConfiguration().Renderer, pipeline, nil)
	c.Assert(dev, qt.IsNil)

	var initErr *core.InitError
	c.Assert(err, qt.ErrorAs, &initErr)
	c.Assert(initErr.Step, qt.Equals, core.StepInputLayout)
	c.Assert(err, qt.ErrorIs, core.ErrInputLayoutMismatch)
	c.Assert(drv.Index("CreateInputLayout"), qt.Equals, -1)
	c.Assert(drv.Destroyed, qt.IsTrue)
}

func TestCompiledSignatureAcceptsVertexLayout(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{Signature: compiledSignature(c)}
	dev := newDevice(c, drv, 640, 480)
	defer dev.Destroy()
	c.Assert(drv.InputLayout, qt.DeepEquals, core.VertexLayout())
}
