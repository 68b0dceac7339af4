package d3d11

import (
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/devblok/flowerbox/core"
)

// NewDriver creates a Direct3D 11 driver, the device itself is created by CreateDevice
func NewDriver(logger log.FieldLogger) *Driver {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Driver{
		log:     logger,
		objects: make(map[core.Handle]unsafe.Pointer),
	}
}

// Driver implements core.Driver with Direct3D 11
type Driver struct {
	log log.FieldLogger

	device       *Device
	context      *DeviceContext
	swapchain    *IDXGISwapChain
	featureLevel uint32

	objects map[core.Handle]unsafe.Pointer
	next    core.Handle
}

func (d *Driver) add(obj unsafe.Pointer) (core.Handle, error) {
	if obj == nil {
		return core.NullHandle, core.ErrNullHandle
	}
	d.next++
	d.objects[d.next] = obj
	return d.next, nil
}

// CreateDevice implements interface
func (d *Driver) CreateDevice(desc core.SwapchainDescriptor) error {
	if d.device != nil {
		return errors.New("d3d11.CreateDevice(): device already created")
	}
	swapDesc := NewSwapChainDesc(desc)
	dev, ctx, swchain, featLvl, err := CreateDeviceAndSwapChain(DRIVER_TYPE_HARDWARE, CreateFlags(desc), &swapDesc)
	if err != nil {
		return err
	}
	if dev == nil || ctx == nil || swchain == nil {
		release(unsafe.Pointer(swchain))
		release(unsafe.Pointer(ctx))
		release(unsafe.Pointer(dev))
		return errors.Wrap(core.ErrNullHandle, "D3D11CreateDeviceAndSwapChain")
	}
	d.device, d.context, d.swapchain, d.featureLevel = dev, ctx, swchain, featLvl
	d.log.WithFields(log.Fields{
		"featureLevel": featLvl,
		"debug":        desc.Debug,
	}).Debug("d3d11 device created")
	return nil
}

// CreateBackBufferView implements interface
func (d *Driver) CreateBackBufferView() (core.Handle, error) {
	buf, err := d.swapchain.GetBuffer(0, &IID_Texture2D)
	if err != nil {
		return core.NullHandle, err
	}
	if buf == nil {
		return core.NullHandle, errors.Wrap(core.ErrNullHandle, "IDXGISwapChainGetBuffer")
	}
	defer IUnknownRelease(unsafe.Pointer(buf), buf.Vtbl.Release)

	rtv, err := d.device.CreateRenderTargetView((*Resource)(unsafe.Pointer(buf)))
	if err != nil {
		return core.NullHandle, err
	}
	return d.add(unsafe.Pointer(rtv))
}

// SetViewport implements interface
func (d *Driver) SetViewport(vp core.Viewport) {
	viewport := NewViewport(vp)
	d.context.RSSetViewports(&viewport)
}

// CreateDepthStencilState implements interface
func (d *Driver) CreateDepthStencilState(desc core.DepthStencilDescriptor) (core.Handle, error) {
	dsDesc := NewDepthStencilDesc(desc)
	state, err := d.device.CreateDepthStencilState(&dsDesc)
	if err != nil {
		return core.NullHandle, err
	}
	return d.add(unsafe.Pointer(state))
}

// SetDepthStencilState implements interface
func (d *Driver) SetDepthStencilState(state core.Handle, stencilRef uint32) {
	d.context.OMSetDepthStencilState((*DepthStencilState)(d.objects[state]), stencilRef)
}

// CreateDepthStencilView implements interface
func (d *Driver) CreateDepthStencilView(desc core.DepthBufferDescriptor) (core.Handle, error) {
	texDesc := NewTexture2DDesc(desc)
	tex, err := d.device.CreateTexture2D(&texDesc)
	if err != nil {
		return core.NullHandle, err
	}
	if tex == nil {
		return core.NullHandle, errors.Wrap(core.ErrNullHandle, "DeviceCreateTexture2D")
	}
	// the view keeps its own reference to the texture
	defer IUnknownRelease(unsafe.Pointer(tex), tex.Vtbl.Release)

	viewDesc := NewDepthStencilViewDesc(desc)
	view, err := d.device.CreateDepthStencilViewTEX2D((*Resource)(unsafe.Pointer(tex)), &viewDesc)
	if err != nil {
		return core.NullHandle, err
	}
	return d.add(unsafe.Pointer(view))
}

// SetRenderTargets implements interface
func (d *Driver) SetRenderTargets(color, depth core.Handle) {
	d.context.OMSetRenderTargets(
		(*RenderTargetView)(d.objects[color]),
		(*DepthStencilView)(d.objects[depth]),
	)
}

// CompileShader implements interface
func (d *Driver) CompileShader(source core.ShaderSource, entry core.ShaderEntry, flags core.CompileFlags) (core.Shader, error) {
	if len(source.Text) == 0 {
		return core.Shader{}, errors.New("d3d11.CompileShader(): empty source")
	}
	bytecode, err := Compile(source.Text, source.Name, entry.Name, entry.Profile, CompileFlags(flags))
	if err != nil {
		return core.Shader{}, err
	}
	shader := core.Shader{Stage: entry.Stage, Bytecode: bytecode}
	if entry.Stage == core.VertexStage {
		if shader.Inputs, err = InputSignature(bytecode); err != nil {
			return core.Shader{}, err
		}
	}
	d.log.WithFields(log.Fields{
		"entry":   entry.Name,
		"profile": entry.Profile,
		"size":    len(bytecode),
		"inputs":  len(shader.Inputs),
	}).Debug("shader compiled")
	return shader, nil
}

// CreateShader implements interface
func (d *Driver) CreateShader(shader core.Shader) (core.Handle, error) {
	if len(shader.Bytecode) == 0 {
		return core.NullHandle, errors.Errorf("d3d11.CreateShader(): empty %s shader bytecode", shader.Stage)
	}
	switch shader.Stage {
	case core.VertexStage:
		vs, err := d.device.CreateVertexShader(shader.Bytecode)
		if err != nil {
			return core.NullHandle, err
		}
		return d.add(unsafe.Pointer(vs))
	case core.PixelStage:
		ps, err := d.device.CreatePixelShader(shader.Bytecode)
		if err != nil {
			return core.NullHandle, err
		}
		return d.add(unsafe.Pointer(ps))
	default:
		return core.NullHandle, errors.Errorf("d3d11.CreateShader(): unsupported stage %s", shader.Stage)
	}
}

// SetShader implements interface
func (d *Driver) SetShader(stage core.ShaderStage, shader core.Handle) {
	switch stage {
	case core.VertexStage:
		d.context.VSSetShader((*VertexShader)(d.objects[shader]))
	case core.PixelStage:
		d.context.PSSetShader((*PixelShader)(d.objects[shader]))
	}
}

// CreateInputLayout implements interface. Formats are checked against the
// signature before this is called, the runtime only checks semantics.
func (d *Driver) CreateInputLayout(elements []core.InputElement, vertexShader core.Shader) (core.Handle, error) {
	if len(vertexShader.Bytecode) == 0 {
		return core.NullHandle, errors.New("d3d11.CreateInputLayout(): no vertex shader bytecode")
	}
	descs, names := NewInputElementDescs(elements)
	layout, err := d.device.CreateInputLayout(descs, vertexShader.Bytecode)
	runtime.KeepAlive(names)
	if err != nil {
		return core.NullHandle, inputLayoutError(err)
	}
	return d.add(unsafe.Pointer(layout))
}

// SetInputLayout implements interface
func (d *Driver) SetInputLayout(layout core.Handle) {
	d.context.IASetInputLayout((*InputLayout)(d.objects[layout]))
}

// SetPrimitiveTopology implements interface
func (d *Driver) SetPrimitiveTopology(t core.Topology) {
	topology, err := PrimitiveTopology(t)
	if err != nil {
		d.log.WithError(err).Error("topology not set")
		return
	}
	d.context.IASetPrimitiveTopology(topology)
}

// CreateRasterizerState implements interface
func (d *Driver) CreateRasterizerState(desc core.RasterizerDescriptor) (core.Handle, error) {
	rsDesc := NewRasterizerDesc(desc)
	state, err := d.device.CreateRasterizerState(&rsDesc)
	if err != nil {
		return core.NullHandle, err
	}
	return d.add(unsafe.Pointer(state))
}

// SetRasterizerState implements interface
func (d *Driver) SetRasterizerState(state core.Handle) {
	d.context.RSSetState((*RasterizerState)(d.objects[state]))
}

// CreateBuffer implements interface
func (d *Driver) CreateBuffer(desc core.BufferDescriptor, data []byte) (core.Handle, error) {
	bufDesc := NewBufferDesc(desc)
	buf, err := d.device.CreateBuffer(&bufDesc, data)
	if err != nil {
		return core.NullHandle, err
	}
	return d.add(unsafe.Pointer(buf))
}

// SetVertexBuffer implements interface
func (d *Driver) SetVertexBuffer(slot uint32, buffer core.Handle, stride, offset uint32) {
	d.context.IASetVertexBuffers(slot, (*Buffer)(d.objects[buffer]), stride, offset)
}

// SetIndexBuffer implements interface
func (d *Driver) SetIndexBuffer(buffer core.Handle, format core.Format, offset uint32) {
	d.context.IASetIndexBuffer((*Buffer)(d.objects[buffer]), DXGIFormat(format), offset)
}

// DrawIndexed implements interface
func (d *Driver) DrawIndexed(count, startIndex uint32, baseVertex int32) {
	d.context.DrawIndexed(count, startIndex, baseVertex)
}

// Present implements interface
func (d *Driver) Present(syncInterval uint32) error {
	err := d.swapchain.Present(int(syncInterval), 0)
	if code, ok := err.(ErrorCode); ok && code.DeviceLost() {
		return errors.Wrap(err, "device lost")
	}
	return err
}

// Release implements interface
func (d *Driver) Release(h core.Handle) {
	obj, ok := d.objects[h]
	if !ok {
		return
	}
	release(obj)
	delete(d.objects, h)
}

// Destroy implements interface
func (d *Driver) Destroy() {
	for h, obj := range d.objects {
		release(obj)
		delete(d.objects, h)
	}
	release(unsafe.Pointer(d.context))
	release(unsafe.Pointer(d.swapchain))
	release(unsafe.Pointer(d.device))
	d.context, d.swapchain, d.device = nil, nil, nil
}

var _ core.Driver = (*Driver)(nil)
