package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/devblok/flowerbox/core"
	"github.com/devblok/flowerbox/core/coretest"
	"github.com/devblok/flowerbox/model"
)

var testShader = core.ShaderSource{
	Name: "test.hlsl",
	Text: []byte("float4 VS(float3 p : POSITION) : SV_POSITION { return float4(p, 1); }\nfloat4 PS() : SV_TARGET { return 1; }\n"),
}

func newDevice(c *qt.C, drv *coretest.Driver, width, height uint32) *core.Device {
	logger, _ := test.NewNullLogger()
	dev, err := core.NewGraphicsDevice(drv, coretest.NewWindow(width, height),
		core.DefaultConfiguration().Renderer, core.DefaultPipeline(testShader), logger)
	c.Assert(err, qt.IsNil)
	c.Cleanup(dev.Destroy)
	return dev
}

func TestInitialisationOrder(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	newDevice(c, drv, 800, 600)

	c.Assert(drv.Calls, qt.DeepEquals, []string{
		"CreateDevice",
		"CreateBackBufferView",
		"SetViewport",
		"CreateDepthStencilState",
		"SetDepthStencilState",
		"CreateDepthStencilView",
		"SetRenderTargets",
		"CompileShader",
		"CreateShader",
		"SetShader",
		"CompileShader",
		"CreateShader",
		"SetShader",
		"CreateInputLayout",
		"SetInputLayout",
		"SetPrimitiveTopology",
		"CreateRasterizerState",
		"SetRasterizerState",
	})
}

func TestInitialisationState(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	newDevice(c, drv, 800, 600)

	c.Assert(drv.Swapchain, qt.DeepEquals, core.SwapchainDescriptor{
		Window:      0x1000,
		Width:       800,
		Height:      600,
		Format:      core.FormatR8G8B8A8Unorm,
		BufferCount: 2,
		SwapEffect:  core.SwapEffectDiscard,
		Windowed:    true,
		Debug:       true,
	})
	c.Assert(drv.Viewport, qt.DeepEquals, core.Viewport{Width: 800, Height: 600, MinDepth: 0, MaxDepth: 1})
	c.Assert(drv.DepthStencil, qt.DeepEquals, core.DefaultDepthStencil())
	c.Assert(drv.StencilRef, qt.Equals, uint32(1))
	c.Assert(drv.DepthBuffer, qt.DeepEquals, core.DepthBufferDescriptor{
		Width:     800,
		Height:    600,
		MipLevels: 1,
		ArraySize: 1,
		Format:    core.FormatD32FloatS8X24Uint,
		Usage:     core.UsageDefault,
		Bind:      core.BindDepthStencil,
	})
	c.Assert(drv.RenderTargets[0], qt.Not(qt.Equals), core.NullHandle)
	c.Assert(drv.RenderTargets[1], qt.Not(qt.Equals), core.NullHandle)

	c.Assert(drv.Entries, qt.HasLen, 2)
	c.Assert(drv.Entries[0].Name, qt.Equals, "VS")
	c.Assert(drv.Entries[0].Profile, qt.Equals, "vs_5_0")
	c.Assert(drv.Entries[1].Name, qt.Equals, "PS")
	c.Assert(drv.Entries[1].Profile, qt.Equals, "ps_5_0")
	c.Assert(drv.CompileFlags, qt.Equals, core.CompileDebug|core.CompileSkipOptimization)
	c.Assert(drv.Shaders, qt.HasLen, 2)

	c.Assert(drv.InputLayout, qt.DeepEquals, []core.InputElement{{
		Semantic: "POSITION",
		Format:   core.FormatR32G32B32Float,
	}})
	c.Assert(drv.Topology, qt.Equals, core.TopologyTriangleList)
	c.Assert(drv.Rasterizer, qt.DeepEquals, core.RasterizerDescriptor{Fill: core.FillSolid, Cull: core.CullNone})
}

func TestDebugLayerFollowsConfiguration(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	cfg := core.DefaultConfiguration().Renderer
	cfg.DebugMode = false
	dev, err := core.NewGraphicsDevice(drv, coretest.NewWindow(64, 64), cfg, core.DefaultPipeline(testShader), nil)
	c.Assert(err, qt.IsNil)
	defer dev.Destroy()
	c.Assert(drv.Swapchain.Debug, qt.IsFalse)
}

func TestInitialisationFailure(t *testing.T) {
	tests := []struct {
		call string
		step core.Step
	}{
		{"CreateDevice", core.StepDevice},
		{"CreateBackBufferView", core.StepRenderTarget},
		{"CreateDepthStencilState", core.StepDepthStencilState},
		{"CreateDepthStencilView", core.StepDepthStencilView},
		{"CompileShader", core.StepShaders},
		{"CreateShader", core.StepShaders},
		{"CreateInputLayout", core.StepInputLayout},
		{"CreateRasterizerState", core.StepRasterizer},
	}
	for _, tt := range tests {
		tt := tt
		qt.New(t).Run(tt.call, func(c *qt.C) {
			drv := &coretest.Driver{FailAt: tt.call}
			dev, err := core.NewGraphicsDevice(drv, coretest.NewWindow(640, 480),
				core.DefaultConfiguration().Renderer, core.DefaultPipeline(testShader), nil)
			c.Assert(dev, qt.IsNil)

			var initErr *core.InitError
			c.Assert(err, qt.ErrorAs, &initErr)
			c.Assert(initErr.Step, qt.Equals, tt.step)
			c.Assert(err, qt.ErrorIs, coretest.ErrInjected)

			c.Assert(drv.Live(), qt.Equals, 0)
			c.Assert(drv.Destroyed, qt.IsTrue)
			c.Assert(drv.Calls[len(drv.Calls)-1], qt.Equals, "Destroy")
		})
	}
}

func TestInitialisationNullHandle(t *testing.T) {
	tests := []struct {
		call string
		step core.Step
	}{
		{"CreateBackBufferView", core.StepRenderTarget},
		{"CreateDepthStencilState", core.StepDepthStencilState},
		{"CreateDepthStencilView", core.StepDepthStencilView},
		{"CreateShader", core.StepShaders},
		{"CreateInputLayout", core.StepInputLayout},
		{"CreateRasterizerState", core.StepRasterizer},
	}
	for _, tt := range tests {
		tt := tt
		qt.New(t).Run(tt.call, func(c *qt.C) {
			drv := &coretest.Driver{NullAt: tt.call}
			_, err := core.NewGraphicsDevice(drv, coretest.NewWindow(640, 480),
				core.DefaultConfiguration().Renderer, core.DefaultPipeline(testShader), nil)

			var initErr *core.InitError
			c.Assert(err, qt.ErrorAs, &initErr)
			c.Assert(initErr.Step, qt.Equals, tt.step)
			c.Assert(err, qt.ErrorIs, core.ErrNullHandle)
			c.Assert(drv.Live(), qt.Equals, 0)
		})
	}
}

func TestNullWindowHandle(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	_, err := core.NewGraphicsDevice(drv, &coretest.Window{Width: 640, Height: 480},
		core.DefaultConfiguration().Renderer, core.DefaultPipeline(testShader), nil)

	var initErr *core.InitError
	c.Assert(err, qt.ErrorAs, &initErr)
	c.Assert(initErr.Step, qt.Equals, core.StepDevice)
	c.Assert(err, qt.ErrorIs, core.ErrNullHandle)
	c.Assert(drv.Index("CreateDevice"), qt.Equals, -1)
}

func TestCompilerDiagnosticIsKept(t *testing.T) {
	c := qt.New(t)
	diag := errors.New("test.hlsl(1,8): error X3000: unrecognized identifier 'flaot3'")
	drv := &coretest.Driver{FailAt: "CompileShader", Err: diag}
	_, err := core.NewGraphicsDevice(drv, coretest.NewWindow(640, 480),
		core.DefaultConfiguration().Renderer, core.DefaultPipeline(testShader), nil)
	c.Assert(err, qt.ErrorIs, diag)
	c.Assert(err, qt.ErrorMatches, `.*test\.hlsl\(1,8\): error X3000: unrecognized identifier 'flaot3'`)
}

func TestEmptyShaderSource(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	_, err := core.NewGraphicsDevice(drv, coretest.NewWindow(640, 480),
		core.DefaultConfiguration().Renderer, core.DefaultPipeline(core.ShaderSource{}), nil)

	var initErr *core.InitError
	c.Assert(err, qt.ErrorAs, &initErr)
	c.Assert(initErr.Step, qt.Equals, core.StepShaders)
	c.Assert(drv.Index("CompileShader"), qt.Equals, -1)
}

func TestInputLayoutRejectedBySignature(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{Signature: core.VertexLayout()}
	pipeline := core.DefaultPipeline(testShader)
	pipeline.InputLayout = []core.InputElement{{
		Semantic: "POSITION",
		Format:   core.FormatR32G32Float,
	}}

	_, err := core.NewGraphicsDevice(drv, coretest.NewWindow(640, 480),
		core.DefaultConfiguration().Renderer, pipeline, nil)

	var initErr *core.InitError
	c.Assert(err, qt.ErrorAs, &initErr)
	c.Assert(initErr.Step, qt.Equals, core.StepInputLayout)
	c.Assert(err, qt.ErrorIs, core.ErrInputLayoutMismatch)
	c.Assert(drv.Index("CreateInputLayout"), qt.Equals, -1)
	c.Assert(drv.Live(), qt.Equals, 0)
}

func TestInputLayoutAcceptedBySignature(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{Signature: core.VertexLayout()}
	newDevice(c, drv, 640, 480)
	c.Assert(drv.Index("SetInputLayout"), qt.Not(qt.Equals), -1)
}

func TestUnsupportedTopology(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	pipeline := core.DefaultPipeline(testShader)
	pipeline.Topology = core.Topology(5)

	_, err := core.NewGraphicsDevice(drv, coretest.NewWindow(640, 480),
		core.DefaultConfiguration().Renderer, pipeline, nil)

	var initErr *core.InitError
	c.Assert(err, qt.ErrorAs, &initErr)
	c.Assert(initErr.Step, qt.Equals, core.StepTopology)
}

func TestUploadBuffers(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	dev := newDevice(c, drv, 640, 480)
	cube := model.Cube()

	c.Assert(dev.SetVertexBuffer(cube.Vertices), qt.IsNil)
	c.Assert(dev.SetIndexBuffer(cube.Indices), qt.IsNil)

	vertexBuffers := drv.LiveBuffers(core.BindVertexBuffer)
	c.Assert(vertexBuffers, qt.HasLen, 1)
	c.Assert(vertexBuffers[0].Desc, qt.DeepEquals, core.BufferDescriptor{
		ByteWidth: 8 * model.VertexSize,
		Usage:     core.UsageImmutable,
		Bind:      core.BindVertexBuffer,
	})
	c.Assert(vertexBuffers[0].Data, qt.DeepEquals, model.VertexBytes(cube.Vertices))
	c.Assert(drv.VertexBuffer, qt.Equals, vertexBuffers[0].Handle)
	c.Assert(drv.VertexStride, qt.Equals, uint32(12))

	indexBuffers := drv.LiveBuffers(core.BindIndexBuffer)
	c.Assert(indexBuffers, qt.HasLen, 1)
	c.Assert(indexBuffers[0].Desc, qt.DeepEquals, core.BufferDescriptor{
		ByteWidth: 36 * model.IndexSize,
		Usage:     core.UsageImmutable,
		Bind:      core.BindIndexBuffer,
	})
	c.Assert(drv.IndexBuffer, qt.Equals, indexBuffers[0].Handle)
	c.Assert(drv.IndexFormat, qt.Equals, core.FormatR32Uint)

	c.Assert(drv.Index("SetVertexBuffer") < drv.Index("SetIndexBuffer"), qt.IsTrue)
	c.Assert(drv.Draws, qt.HasLen, 0)
}

func TestUploadReplacesBuffer(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	dev := newDevice(c, drv, 640, 480)
	cube := model.Cube()

	c.Assert(dev.SetVertexBuffer(cube.Vertices), qt.IsNil)
	first := drv.VertexBuffer
	c.Assert(dev.SetVertexBuffer(cube.Vertices), qt.IsNil)

	live := drv.LiveBuffers(core.BindVertexBuffer)
	c.Assert(live, qt.HasLen, 1)
	c.Assert(live[0].Handle, qt.Equals, drv.VertexBuffer)
	c.Assert(drv.VertexBuffer, qt.Not(qt.Equals), first)
	c.Assert(drv.Released, qt.Contains, first)

	c.Assert(dev.SetIndexBuffer(cube.Indices), qt.IsNil)
	c.Assert(dev.SetIndexBuffer(cube.Indices[:6]), qt.IsNil)
	c.Assert(drv.LiveBuffers(core.BindIndexBuffer), qt.HasLen, 1)
}

func TestUploadFailure(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	dev := newDevice(c, drv, 640, 480)

	drv.FailAt = "CreateBuffer"
	c.Assert(dev.SetVertexBuffer(model.Cube().Vertices), qt.ErrorIs, coretest.ErrInjected)
	c.Assert(drv.Index("SetVertexBuffer"), qt.Equals, -1)

	drv.FailAt = ""
	drv.NullAt = "CreateBuffer"
	c.Assert(dev.SetIndexBuffer(model.Cube().Indices), qt.ErrorIs, core.ErrNullHandle)
	c.Assert(drv.Index("SetIndexBuffer"), qt.Equals, -1)
}

func TestUploadEmpty(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	dev := newDevice(c, drv, 640, 480)
	c.Assert(dev.SetVertexBuffer(nil), qt.ErrorMatches, `.*no vertices`)
	c.Assert(dev.SetIndexBuffer(nil), qt.ErrorMatches, `.*no indices`)
	c.Assert(drv.Buffers, qt.HasLen, 0)
}

func TestDrawBeforeUpload(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	dev := newDevice(c, drv, 640, 480)

	c.Assert(dev.Draw(36), qt.ErrorIs, core.ErrNotUploaded)
	c.Assert(dev.SetVertexBuffer(model.Cube().Vertices), qt.IsNil)
	c.Assert(dev.Draw(36), qt.ErrorIs, core.ErrNotUploaded)
	c.Assert(drv.Draws, qt.HasLen, 0)
	c.Assert(drv.Presents, qt.HasLen, 0)
}

func TestEndToEnd(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	dev := newDevice(c, drv, 640, 480)
	cube := model.Cube()

	c.Assert(dev.SetVertexBuffer(cube.Vertices), qt.IsNil)
	c.Assert(dev.SetIndexBuffer(cube.Indices), qt.IsNil)
	c.Assert(dev.Draw(36), qt.IsNil)

	c.Assert(drv.Swapchain.Width, qt.Equals, uint32(640))
	c.Assert(drv.Swapchain.Height, qt.Equals, uint32(480))
	c.Assert(drv.LiveBuffers(core.BindVertexBuffer)[0].Desc.ByteWidth, qt.Equals, 8*model.VertexSize)
	c.Assert(drv.LiveBuffers(core.BindIndexBuffer)[0].Desc.ByteWidth, qt.Equals, 36*model.IndexSize)
	c.Assert(drv.Draws, qt.DeepEquals, []coretest.DrawCall{{Count: 36, StartIndex: 0, BaseVertex: 0}})
	c.Assert(drv.Presents, qt.DeepEquals, []uint32{1})
}

func TestPresentFailure(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	dev := newDevice(c, drv, 640, 480)
	cube := model.Cube()
	c.Assert(dev.SetVertexBuffer(cube.Vertices), qt.IsNil)
	c.Assert(dev.SetIndexBuffer(cube.Indices), qt.IsNil)

	drv.FailAt = "Present"
	c.Assert(dev.Draw(36), qt.ErrorIs, coretest.ErrInjected)
}

func TestDestroyReleasesEverything(t *testing.T) {
	c := qt.New(t)
	drv := &coretest.Driver{}
	dev, err := core.NewGraphicsDevice(drv, coretest.NewWindow(640, 480),
		core.DefaultConfiguration().Renderer, core.DefaultPipeline(testShader), nil)
	c.Assert(err, qt.IsNil)
	cube := model.Cube()
	c.Assert(dev.SetVertexBuffer(cube.Vertices), qt.IsNil)
	c.Assert(dev.SetIndexBuffer(cube.Indices), qt.IsNil)
	c.Assert(drv.Live(), qt.Not(qt.Equals), 0)

	dev.Destroy()
	c.Assert(drv.Live(), qt.Equals, 0)
	c.Assert(drv.Destroyed, qt.IsTrue)

	// buffers first, then initialisation objects newest to oldest
	n := len(drv.Released)
	c.Assert(drv.Released[n-1], qt.Equals, drv.RenderTargets[0])

	calls := len(drv.Calls)
	dev.Destroy()
	c.Assert(drv.Calls, qt.HasLen, calls)
}

func TestInitialisationIsLogged(t *testing.T) {
	c := qt.New(t)
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	dev, err := core.NewGraphicsDevice(&coretest.Driver{}, coretest.NewWindow(640, 480),
		core.DefaultConfiguration().Renderer, core.DefaultPipeline(testShader), logger)
	c.Assert(err, qt.IsNil)
	defer dev.Destroy()

	var steps []string
	for _, entry := range hook.AllEntries() {
		if step, ok := entry.Data["step"]; ok {
			steps = append(steps, step.(core.Step).String())
		}
	}
	c.Assert(steps, qt.HasLen, 9)
	c.Assert(steps[0], qt.Equals, "device")
	c.Assert(steps[8], qt.Equals, "rasterizer")
	c.Assert(hook.LastEntry().Message, qt.Equals, "graphics device initialised")
}
