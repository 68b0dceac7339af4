// Package coretest provides a recording fake backend and scripted host window
// for exercising the core without a GPU.
package coretest

import (
	"github.com/pkg/errors"

	"github.com/devblok/flowerbox/core"
)

// ErrInjected is returned by the call named in Driver.FailAt unless Driver.Err is set
var ErrInjected = errors.New("injected driver failure")

// Buffer is a buffer created through the fake driver
type Buffer struct {
	Handle core.Handle
	Desc   core.BufferDescriptor
	Data   []byte
}

// DrawCall is a recorded indexed draw
type DrawCall struct {
	Count      uint32
	StartIndex uint32
	BaseVertex int32
}

// Driver records every call made against it
type Driver struct {
	// FailAt names a call that returns Err instead of succeeding
	FailAt string
	// NullAt names a Create* call that succeeds with a null handle
	NullAt string
	Err    error

	// Signature is reported as the compiled vertex shader input signature
	Signature []core.InputElement

	Calls []string

	Swapchain     core.SwapchainDescriptor
	Viewport      core.Viewport
	DepthStencil  core.DepthStencilDescriptor
	StencilRef    uint32
	DepthBuffer   core.DepthBufferDescriptor
	RenderTargets [2]core.Handle
	Entries       []core.ShaderEntry
	CompileFlags  core.CompileFlags
	Shaders       map[core.ShaderStage]core.Handle
	InputLayout   []core.InputElement
	Topology      core.Topology
	Rasterizer    core.RasterizerDescriptor

	Buffers      []Buffer
	VertexBuffer core.Handle
	VertexStride uint32
	IndexBuffer  core.Handle
	IndexFormat  core.Format

	Draws    []DrawCall
	Presents []uint32
	Released []core.Handle

	DeviceCreated bool
	Destroyed     bool

	next core.Handle
	live map[core.Handle]string
}

func (d *Driver) call(name string) error {
	d.Calls = append(d.Calls, name)
	if d.FailAt == name {
		if d.Err != nil {
			return d.Err
		}
		return ErrInjected
	}
	return nil
}

func (d *Driver) create(name string) (core.Handle, error) {
	if err := d.call(name); err != nil {
		return core.NullHandle, err
	}
	if d.NullAt == name {
		return core.NullHandle, nil
	}
	if d.live == nil {
		d.live = make(map[core.Handle]string)
	}
	d.next++
	d.live[d.next] = name
	return d.next, nil
}

// Live returns the number of created objects not yet released
func (d *Driver) Live() int {
	return len(d.live)
}

// LiveBuffers returns the live buffers having all of the bind flags
func (d *Driver) LiveBuffers(bind core.BindFlags) []Buffer {
	var live []Buffer
	for _, b := range d.Buffers {
		if _, ok := d.live[b.Handle]; ok && b.Desc.Bind&bind == bind {
			live = append(live, b)
		}
	}
	return live
}

// Index returns the position of the first call named name, or -1
func (d *Driver) Index(name string) int {
	for idx, c := range d.Calls {
		if c == name {
			return idx
		}
	}
	return -1
}

// CreateDevice implements interface
func (d *Driver) CreateDevice(desc core.SwapchainDescriptor) error {
	if err := d.call("CreateDevice"); err != nil {
		return err
	}
	d.Swapchain = desc
	d.DeviceCreated = true
	return nil
}

// CreateBackBufferView implements interface
func (d *Driver) CreateBackBufferView() (core.Handle, error) {
	return d.create("CreateBackBufferView")
}

// SetViewport implements interface
func (d *Driver) SetViewport(vp core.Viewport) {
	d.Calls = append(d.Calls, "SetViewport")
	d.Viewport = vp
}

// CreateDepthStencilState implements interface
func (d *Driver) CreateDepthStencilState(desc core.DepthStencilDescriptor) (core.Handle, error) {
	d.DepthStencil = desc
	return d.create("CreateDepthStencilState")
}

// SetDepthStencilState implements interface
func (d *Driver) SetDepthStencilState(state core.Handle, stencilRef uint32) {
	d.Calls = append(d.Calls, "SetDepthStencilState")
	d.StencilRef = stencilRef
}

// CreateDepthStencilView implements interface
func (d *Driver) CreateDepthStencilView(desc core.DepthBufferDescriptor) (core.Handle, error) {
	d.DepthBuffer = desc
	return d.create("CreateDepthStencilView")
}

// SetRenderTargets implements interface
func (d *Driver) SetRenderTargets(color, depth core.Handle) {
	d.Calls = append(d.Calls, "SetRenderTargets")
	d.RenderTargets = [2]core.Handle{color, depth}
}

// CompileShader implements interface
func (d *Driver) CompileShader(source core.ShaderSource, entry core.ShaderEntry, flags core.CompileFlags) (core.Shader, error) {
	if err := d.call("CompileShader"); err != nil {
		return core.Shader{}, err
	}
	d.Entries = append(d.Entries, entry)
	d.CompileFlags = flags
	shader := core.Shader{
		Stage:    entry.Stage,
		Bytecode: []byte(entry.Name + "/" + entry.Profile),
	}
	if entry.Stage == core.VertexStage {
		shader.Inputs = d.Signature
	}
	return shader, nil
}

// CreateShader implements interface
func (d *Driver) CreateShader(core.Shader) (core.Handle, error) {
	return d.create("CreateShader")
}

// SetShader implements interface
func (d *Driver) SetShader(stage core.ShaderStage, shader core.Handle) {
	d.Calls = append(d.Calls, "SetShader")
	if d.Shaders == nil {
		d.Shaders = make(map[core.ShaderStage]core.Handle)
	}
	d.Shaders[stage] = shader
}

// CreateInputLayout implements interface
func (d *Driver) CreateInputLayout(elements []core.InputElement, vertexShader core.Shader) (core.Handle, error) {
	d.InputLayout = elements
	return d.create("CreateInputLayout")
}

// SetInputLayout implements interface
func (d *Driver) SetInputLayout(core.Handle) {
	d.Calls = append(d.Calls, "SetInputLayout")
}

// SetPrimitiveTopology implements interface
func (d *Driver) SetPrimitiveTopology(t core.Topology) {
	d.Calls = append(d.Calls, "SetPrimitiveTopology")
	d.Topology = t
}

// CreateRasterizerState implements interface
func (d *Driver) CreateRasterizerState(desc core.RasterizerDescriptor) (core.Handle, error) {
	d.Rasterizer = desc
	return d.create("CreateRasterizerState")
}

// SetRasterizerState implements interface
func (d *Driver) SetRasterizerState(core.Handle) {
	d.Calls = append(d.Calls, "SetRasterizerState")
}

// CreateBuffer implements interface
func (d *Driver) CreateBuffer(desc core.BufferDescriptor, data []byte) (core.Handle, error) {
	h, err := d.create("CreateBuffer")
	if err != nil || h == core.NullHandle {
		return h, err
	}
	d.Buffers = append(d.Buffers, Buffer{
		Handle: h,
		Desc:   desc,
		Data:   append([]byte(nil), data...),
	})
	return h, nil
}

// SetVertexBuffer implements interface
func (d *Driver) SetVertexBuffer(slot uint32, buffer core.Handle, stride, offset uint32) {
	d.Calls = append(d.Calls, "SetVertexBuffer")
	d.VertexBuffer = buffer
	d.VertexStride = stride
}

// SetIndexBuffer implements interface
func (d *Driver) SetIndexBuffer(buffer core.Handle, format core.Format, offset uint32) {
	d.Calls = append(d.Calls, "SetIndexBuffer")
	d.IndexBuffer = buffer
	d.IndexFormat = format
}

// DrawIndexed implements interface
func (d *Driver) DrawIndexed(count, startIndex uint32, baseVertex int32) {
	d.Calls = append(d.Calls, "DrawIndexed")
	d.Draws = append(d.Draws, DrawCall{Count: count, StartIndex: startIndex, BaseVertex: baseVertex})
}

// Present implements interface
func (d *Driver) Present(syncInterval uint32) error {
	if err := d.call("Present"); err != nil {
		return err
	}
	d.Presents = append(d.Presents, syncInterval)
	return nil
}

// Release implements interface
func (d *Driver) Release(h core.Handle) {
	d.Calls = append(d.Calls, "Release")
	d.Released = append(d.Released, h)
	delete(d.live, h)
}

// Destroy implements interface
func (d *Driver) Destroy() {
	d.Calls = append(d.Calls, "Destroy")
	d.Destroyed = true
}

var _ core.Driver = (*Driver)(nil)
