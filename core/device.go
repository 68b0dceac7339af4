package core

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/flowerbox/model"
)

// NewGraphicsDevice creates a fully initialised graphics device presenting into win.
// Initialisation runs in a fixed order and stops at the first failing step, in which
// case everything created so far is released and an *InitError is returned.
func NewGraphicsDevice(drv Driver, win Window, cfg RendererConfiguration, pipeline PipelineDescriptor, logger log.FieldLogger) (*Device, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	width, height := win.ClientSize()
	d := &Device{
		driver: drv,
		log:    logger,
		window: win.Handle(),
		width:  width,
		height: height,
	}
	if err := d.initialise(cfg, pipeline); err != nil {
		d.Destroy()
		return nil, err
	}
	return d, nil
}

// Device implements GraphicsDevice on top of a backend Driver
type Device struct {
	driver Driver
	log    log.FieldLogger

	window        uintptr
	width, height uint32

	// owned holds every object created during initialisation, in creation order
	owned []Handle

	renderTarget Handle
	vertexShader Shader

	vertexBuffer Handle
	vertexCount  int
	indexBuffer  Handle
	indexCount   int

	destroyed bool
}

func (d *Device) initialise(cfg RendererConfiguration, p PipelineDescriptor) error {
	steps := []struct {
		step Step
		run  func() error
	}{
		{StepDevice, func() error { return d.createDevice(cfg) }},
		{StepRenderTarget, d.createRenderTarget},
		{StepViewport, d.createViewport},
		{StepDepthStencilState, func() error { return d.createDepthStencilState(p.DepthStencil) }},
		{StepDepthStencilView, d.createDepthStencilView},
		{StepShaders, func() error { return d.createShaders(p) }},
		{StepInputLayout, func() error { return d.createInputLayout(p.InputLayout) }},
		{StepTopology, func() error { return d.setTopology(p.Topology) }},
		{StepRasterizer, func() error { return d.createRasterizer(p.Rasterizer) }},
	}

	for _, s := range steps {
		d.log.WithField("step", s.step).Debug("initialising graphics device")
		if err := s.run(); err != nil {
			return &InitError{Step: s.step, Err: err}
		}
	}
	d.log.WithFields(log.Fields{
		"width":  d.width,
		"height": d.height,
	}).Info("graphics device initialised")
	return nil
}

// own records a freshly created handle so Destroy releases it
func (d *Device) own(h Handle, err error) (Handle, error) {
	if err != nil {
		return NullHandle, err
	}
	if h == NullHandle {
		return NullHandle, ErrNullHandle
	}
	d.owned = append(d.owned, h)
	return h, nil
}

func (d *Device) createDevice(cfg RendererConfiguration) error {
	if d.window == 0 {
		return errors.Wrap(ErrNullHandle, "window handle")
	}
	return d.driver.CreateDevice(SwapchainDescriptor{
		Window:      d.window,
		Width:       d.width,
		Height:      d.height,
		Format:      FormatR8G8B8A8Unorm,
		BufferCount: BackBufferCount,
		SwapEffect:  SwapEffectDiscard,
		Windowed:    true,
		Debug:       cfg.DebugMode,
	})
}

func (d *Device) createRenderTarget() error {
	rtv, err := d.own(d.driver.CreateBackBufferView())
	if err != nil {
		return err
	}
	d.renderTarget = rtv
	return nil
}

func (d *Device) createViewport() error {
	d.driver.SetViewport(Viewport{
		Width:    float32(d.width),
		Height:   float32(d.height),
		MinDepth: 0,
		MaxDepth: 1,
	})
	return nil
}

func (d *Device) createDepthStencilState(desc DepthStencilDescriptor) error {
	state, err := d.own(d.driver.CreateDepthStencilState(desc))
	if err != nil {
		return err
	}
	d.driver.SetDepthStencilState(state, desc.StencilRef)
	return nil
}

func (d *Device) createDepthStencilView() error {
	dsv, err := d.own(d.driver.CreateDepthStencilView(DepthBufferDescriptor{
		Width:     d.width,
		Height:    d.height,
		MipLevels: 1,
		ArraySize: 1,
		Format:    FormatD32FloatS8X24Uint,
		Usage:     UsageDefault,
		Bind:      BindDepthStencil,
	}))
	if err != nil {
		return err
	}
	d.driver.SetRenderTargets(d.renderTarget, dsv)
	return nil
}

func (d *Device) createShaders(p PipelineDescriptor) error {
	if len(p.Shader.Text) == 0 {
		return errors.New("empty shader source")
	}
	for _, entry := range []ShaderEntry{p.VertexEntry, p.PixelEntry} {
		compiled, err := d.driver.CompileShader(p.Shader, entry, p.CompileFlags)
		if err != nil {
			return err
		}
		handle, err := d.own(d.driver.CreateShader(compiled))
		if err != nil {
			return errors.Wrapf(err, "%s shader", entry.Stage)
		}
		d.driver.SetShader(entry.Stage, handle)
		if entry.Stage == VertexStage {
			d.vertexShader = compiled
		}
	}
	return nil
}

func (d *Device) createInputLayout(elements []InputElement) error {
	if len(d.vertexShader.Inputs) > 0 {
		if err := ValidateInputLayout(elements, d.vertexShader.Inputs); err != nil {
			return err
		}
	}
	layout, err := d.own(d.driver.CreateInputLayout(elements, d.vertexShader))
	if err != nil {
		return err
	}
	d.driver.SetInputLayout(layout)
	return nil
}

func (d *Device) setTopology(t Topology) error {
	if t != TopologyTriangleList {
		return errors.Errorf("unsupported topology %s", t)
	}
	d.driver.SetPrimitiveTopology(t)
	return nil
}

func (d *Device) createRasterizer(desc RasterizerDescriptor) error {
	state, err := d.own(d.driver.CreateRasterizerState(desc))
	if err != nil {
		return err
	}
	d.driver.SetRasterizerState(state)
	return nil
}

// SetVertexBuffer implements interface
func (d *Device) SetVertexBuffer(vertices []model.Vertex) error {
	if len(vertices) == 0 {
		return errors.New("core.SetVertexBuffer(): no vertices")
	}
	buf, err := d.createBuffer(BufferDescriptor{
		ByteWidth: uint32(len(vertices)) * model.VertexSize,
		Usage:     UsageImmutable,
		Bind:      BindVertexBuffer,
	}, model.VertexBytes(vertices))
	if err != nil {
		return errors.Wrap(err, "core.SetVertexBuffer()")
	}
	d.driver.SetVertexBuffer(0, buf, model.VertexSize, 0)
	if d.vertexBuffer != NullHandle {
		d.driver.Release(d.vertexBuffer)
	}
	d.vertexBuffer = buf
	d.vertexCount = len(vertices)
	d.log.WithField("vertices", d.vertexCount).Debug("vertex buffer uploaded")
	return nil
}

// SetIndexBuffer implements interface
func (d *Device) SetIndexBuffer(indices []uint32) error {
	if len(indices) == 0 {
		return errors.New("core.SetIndexBuffer(): no indices")
	}
	buf, err := d.createBuffer(BufferDescriptor{
		ByteWidth: uint32(len(indices)) * model.IndexSize,
		Usage:     UsageImmutable,
		Bind:      BindIndexBuffer,
	}, model.IndexBytes(indices))
	if err != nil {
		return errors.Wrap(err, "core.SetIndexBuffer()")
	}
	d.driver.SetIndexBuffer(buf, FormatR32Uint, 0)
	if d.indexBuffer != NullHandle {
		d.driver.Release(d.indexBuffer)
	}
	d.indexBuffer = buf
	d.indexCount = len(indices)
	d.log.WithField("indices", d.indexCount).Debug("index buffer uploaded")
	return nil
}

func (d *Device) createBuffer(desc BufferDescriptor, data []byte) (Handle, error) {
	buf, err := d.driver.CreateBuffer(desc, data)
	if err != nil {
		return NullHandle, err
	}
	if buf == NullHandle {
		return NullHandle, ErrNullHandle
	}
	return buf, nil
}

// Draw implements interface
func (d *Device) Draw(count uint32) error {
	if d.vertexBuffer == NullHandle || d.indexBuffer == NullHandle {
		return ErrNotUploaded
	}
	d.driver.DrawIndexed(count, 0, 0)
	if err := d.driver.Present(PresentSyncInterval); err != nil {
		return errors.Wrap(err, "core.Draw()")
	}
	return nil
}

// Destroy implements interface
func (d *Device) Destroy() {
	if d.destroyed {
		return
	}
	d.destroyed = true

	if d.indexBuffer != NullHandle {
		d.driver.Release(d.indexBuffer)
		d.indexBuffer = NullHandle
	}
	if d.vertexBuffer != NullHandle {
		d.driver.Release(d.vertexBuffer)
		d.vertexBuffer = NullHandle
	}
	for idx := len(d.owned) - 1; idx >= 0; idx-- {
		d.driver.Release(d.owned[idx])
	}
	d.owned = nil
	d.driver.Destroy()
}

var _ GraphicsDevice = (*Device)(nil)
