// SPDX-License-Identifier: Unlicense OR MIT

// Package d3d11 is the Direct3D 11 backend of the renderer. The COM bindings
// and the core.Driver implementation are Windows only; descriptor layouts and
// their translation from core descriptors build everywhere.
package d3d11

import "fmt"

const (
	SDK_VERSION          = 7
	DRIVER_TYPE_HARDWARE = 1

	CREATE_DEVICE_DEBUG = 0x2

	DXGI_FORMAT_UNKNOWN              = 0
	DXGI_FORMAT_R32G32B32A32_FLOAT   = 2
	DXGI_FORMAT_R32G32B32_FLOAT      = 6
	DXGI_FORMAT_R32G32_FLOAT         = 16
	DXGI_FORMAT_D32_FLOAT_S8X24_UINT = 20
	DXGI_FORMAT_R8G8B8A8_UNORM       = 28
	DXGI_FORMAT_R32_FLOAT            = 41
	DXGI_FORMAT_R32_UINT             = 42

	DXGI_USAGE_RENDER_TARGET_OUTPUT = 1 << (1 + 4)

	DXGI_SWAP_EFFECT_DISCARD    = 0
	DXGI_SWAP_EFFECT_SEQUENTIAL = 1

	USAGE_DEFAULT   = 0
	USAGE_IMMUTABLE = 1

	BIND_VERTEX_BUFFER = 0x1
	BIND_INDEX_BUFFER  = 0x2
	BIND_DEPTH_STENCIL = 0x40

	INPUT_PER_VERTEX_DATA   = 0
	INPUT_PER_INSTANCE_DATA = 1

	PRIMITIVE_TOPOLOGY_TRIANGLELIST = 4

	FILL_WIREFRAME = 2
	FILL_SOLID     = 3

	CULL_NONE  = 1
	CULL_FRONT = 2
	CULL_BACK  = 3

	DSV_DIMENSION_TEXTURE2D = 3

	DEPTH_WRITE_MASK_ZERO = 0
	DEPTH_WRITE_MASK_ALL  = 1

	D3DCOMPILE_DEBUG             = 1 << 0
	D3DCOMPILE_SKIP_OPTIMIZATION = 1 << 2

	DXGI_STATUS_OCCLUDED      = 0x087A0001
	DXGI_ERROR_DEVICE_REMOVED = 0x887A0005
	DXGI_ERROR_DEVICE_RESET   = 0x887A0007

	E_INVALIDARG = 0x80070057
)

type DXGI_SWAP_CHAIN_DESC struct {
	BufferDesc   DXGI_MODE_DESC
	SampleDesc   DXGI_SAMPLE_DESC
	BufferUsage  uint32
	BufferCount  uint32
	OutputWindow uintptr
	Windowed     uint32
	SwapEffect   uint32
	Flags        uint32
}

type DXGI_SAMPLE_DESC struct {
	Count   uint32
	Quality uint32
}

type DXGI_MODE_DESC struct {
	Width            uint32
	Height           uint32
	RefreshRate      DXGI_RATIONAL
	Format           uint32
	ScanlineOrdering uint32
	Scaling          uint32
}

type DXGI_RATIONAL struct {
	Numerator   uint32
	Denominator uint32
}

type TEXTURE2D_DESC struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         uint32
	SampleDesc     DXGI_SAMPLE_DESC
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type DEPTH_STENCIL_DESC struct {
	DepthEnable      uint32
	DepthWriteMask   uint32
	DepthFunc        uint32
	StencilEnable    uint32
	StencilReadMask  uint8
	StencilWriteMask uint8
	FrontFace        DEPTH_STENCILOP_DESC
	BackFace         DEPTH_STENCILOP_DESC
}

type DEPTH_STENCILOP_DESC struct {
	StencilFailOp      uint32
	StencilDepthFailOp uint32
	StencilPassOp      uint32
	StencilFunc        uint32
}

type DEPTH_STENCIL_VIEW_DESC_TEX2D struct {
	Format        uint32
	ViewDimension uint32
	Flags         uint32
	Texture2D     TEX2D_DSV
}

type TEX2D_DSV struct {
	MipSlice uint32
}

type INPUT_ELEMENT_DESC struct {
	SemanticName         *byte
	SemanticIndex        uint32
	Format               uint32
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       uint32
	InstanceDataStepRate uint32
}

type BUFFER_DESC struct {
	ByteWidth           uint32
	Usage               uint32
	BindFlags           uint32
	CPUAccessFlags      uint32
	MiscFlags           uint32
	StructureByteStride uint32
}

type SUBRESOURCE_DATA struct {
	pSysMem          *byte
	SysMemPitch      uint32
	SysMemSlicePitch uint32
}

type RASTERIZER_DESC struct {
	FillMode              uint32
	CullMode              uint32
	FrontCounterClockwise uint32
	DepthBias             int32
	DepthBiasClamp        float32
	SlopeScaledDepthBias  float32
	DepthClipEnable       uint32
	ScissorEnable         uint32
	MultisampleEnable     uint32
	AntialiasedLineEnable uint32
}

type VIEWPORT struct {
	TopLeftX float32
	TopLeftY float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

type GUID struct {
	Data1   uint32
	Data2   uint16
	Data3   uint16
	Data4_0 uint8
	Data4_1 uint8
	Data4_2 uint8
	Data4_3 uint8
	Data4_4 uint8
	Data4_5 uint8
	Data4_6 uint8
	Data4_7 uint8
}

var IID_Texture2D = GUID{0x6f15aaf2, 0xd208, 0x4e89, 0x9a, 0xb4, 0x48, 0x95, 0x35, 0xd3, 0x4f, 0x9c}

// ErrorCode is a failed HRESULT of a named call
type ErrorCode struct {
	Name string
	Code uint32
}

func (e ErrorCode) Error() string {
	return fmt.Sprintf("%s: %#x", e.Name, e.Code)
}

// Failed tells if an HRESULT is an error. Status codes such as
// DXGI_STATUS_OCCLUDED have the severity bit clear and are successes.
func Failed(hr uint32) bool {
	return int32(hr) < 0
}

// InvalidArg tells if the call rejected its arguments
func (e ErrorCode) InvalidArg() bool {
	return e.Code == E_INVALIDARG
}

// DeviceLost tells if the code means the GPU went away
func (e ErrorCode) DeviceLost() bool {
	return e.Code == DXGI_ERROR_DEVICE_REMOVED || e.Code == DXGI_ERROR_DEVICE_RESET
}

// CompileError is a failed shader compilation. Its message is the
// compiler's diagnostic output, unchanged.
type CompileError struct {
	Entry   string
	Code    uint32
	Message string
}

func (e CompileError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("D3DCompile(%s): %#x", e.Entry, e.Code)
	}
	return e.Message
}
