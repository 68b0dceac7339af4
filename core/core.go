package core

import "github.com/devblok/flowerbox/model"

// BackBufferCount is the fixed number of swapchain buffers (double buffering)
const BackBufferCount = 2

// PresentSyncInterval makes Present wait for the next vertical blank
const PresentSyncInterval = 1

// GraphicsDevice describes the rendering capabilities the frame loop relies on.
// It's created fully initialised by a backend, buffers have to be uploaded
// before the first Draw.
type GraphicsDevice interface {
	// SetVertexBuffer uploads an immutable vertex buffer and binds it
	// at slot 0, replacing the previously bound one
	SetVertexBuffer(vertices []model.Vertex) error

	// SetIndexBuffer uploads an immutable buffer of 32-bit indices
	// and binds it, replacing the previously bound one
	SetIndexBuffer(indices []uint32) error

	// Draw issues an indexed draw of count indices and presents
	// the swapchain, waiting for vertical sync
	Draw(count uint32) error

	// Destroy releases every object owned by the device
	Destroy()
}

// Handle is an opaque reference to a backend object. Zero is never valid.
type Handle uintptr

// NullHandle is the empty handle
const NullHandle Handle = 0

// ShaderStage identifies the programmable stage a shader runs in
type ShaderStage int

// Supported shader stages
const (
	VertexStage ShaderStage = iota
	PixelStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case PixelStage:
		return "pixel"
	default:
		return "unknown"
	}
}

// Shader is compiled shader bytecode
type Shader struct {
	Stage    ShaderStage
	Bytecode []byte

	// Inputs is the input signature of a vertex shader, if the backend
	// is able to report it. Empty means the backend validates on its own.
	Inputs []InputElement
}

// Driver is the low level backend API the device initialization runs against.
// Every Create* call returns a handle owned by the caller, which releases it
// with Release. Set* calls bind state on the immediate context.
type Driver interface {
	// CreateDevice creates the device, its immediate context and
	// a swapchain bound to the window in the descriptor
	CreateDevice(SwapchainDescriptor) error

	// CreateBackBufferView creates a render target view over back buffer 0
	CreateBackBufferView() (Handle, error)

	SetViewport(Viewport)

	CreateDepthStencilState(DepthStencilDescriptor) (Handle, error)
	SetDepthStencilState(state Handle, stencilRef uint32)

	// CreateDepthStencilView creates the depth texture and a view over it
	CreateDepthStencilView(DepthBufferDescriptor) (Handle, error)

	// SetRenderTargets binds a colour view and a depth view together
	SetRenderTargets(color, depth Handle)

	// CompileShader compiles one entry point of the source text. On failure
	// the error carries the compiler's diagnostic text verbatim.
	CompileShader(source ShaderSource, entry ShaderEntry, flags CompileFlags) (Shader, error)
	CreateShader(Shader) (Handle, error)
	SetShader(stage ShaderStage, shader Handle)

	// CreateInputLayout creates an input layout validated against
	// the vertex shader's input signature
	CreateInputLayout(elements []InputElement, vertexShader Shader) (Handle, error)
	SetInputLayout(Handle)

	SetPrimitiveTopology(Topology)

	CreateRasterizerState(RasterizerDescriptor) (Handle, error)
	SetRasterizerState(Handle)

	CreateBuffer(desc BufferDescriptor, data []byte) (Handle, error)
	SetVertexBuffer(slot uint32, buffer Handle, stride, offset uint32)
	SetIndexBuffer(buffer Handle, format Format, offset uint32)

	DrawIndexed(count, startIndex uint32, baseVertex int32)
	Present(syncInterval uint32) error

	// Release releases a handle returned by one of the Create* calls
	Release(Handle)

	// Destroy releases the device, context and swapchain
	Destroy()
}

// Window is the host window the device presents into
type Window interface {
	// Handle returns the native window handle
	Handle() uintptr

	// ClientSize returns the fixed client area size
	ClientSize() (width, height uint32)
}

// MessageKind classifies a window message for the frame loop
type MessageKind int

// The only distinction the frame loop makes
const (
	OtherMessage MessageKind = iota
	QuitMessage
)

// Message is one record taken off the host window's message queue
type Message struct {
	Kind MessageKind

	// Native is the platform message record, handed back to Dispatch
	Native interface{}
}

// MessageSource is the host window's message queue
type MessageSource interface {
	// Peek takes the next pending message off the queue without blocking,
	// reporting false when the queue is empty
	Peek() (Message, bool)

	// Dispatch translates the message and hands it to the window procedure
	Dispatch(Message)
}
