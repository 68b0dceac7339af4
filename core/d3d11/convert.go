package d3d11

import (
	"github.com/pkg/errors"

	"github.com/devblok/flowerbox/core"
)

// DXGIFormat returns the DXGI format matching f
func DXGIFormat(f core.Format) uint32 {
	switch f {
	case core.FormatR8G8B8A8Unorm:
		return DXGI_FORMAT_R8G8B8A8_UNORM
	case core.FormatD32FloatS8X24Uint:
		return DXGI_FORMAT_D32_FLOAT_S8X24_UINT
	case core.FormatR32G32B32Float:
		return DXGI_FORMAT_R32G32B32_FLOAT
	case core.FormatR32G32Float:
		return DXGI_FORMAT_R32G32_FLOAT
	case core.FormatR32Uint:
		return DXGI_FORMAT_R32_UINT
	case core.FormatR32Float:
		return DXGI_FORMAT_R32_FLOAT
	case core.FormatR32G32B32A32Float:
		return DXGI_FORMAT_R32G32B32A32_FLOAT
	default:
		return DXGI_FORMAT_UNKNOWN
	}
}

// CreateFlags returns the device creation flags for desc
func CreateFlags(desc core.SwapchainDescriptor) uint32 {
	var flags uint32
	if desc.Debug {
		flags |= CREATE_DEVICE_DEBUG
	}
	return flags
}

// NewSwapChainDesc translates a swapchain descriptor
func NewSwapChainDesc(desc core.SwapchainDescriptor) DXGI_SWAP_CHAIN_DESC {
	swapEffect := uint32(DXGI_SWAP_EFFECT_DISCARD)
	if desc.SwapEffect == core.SwapEffectSequential {
		swapEffect = DXGI_SWAP_EFFECT_SEQUENTIAL
	}
	return DXGI_SWAP_CHAIN_DESC{
		BufferDesc: DXGI_MODE_DESC{
			Width:  desc.Width,
			Height: desc.Height,
			Format: DXGIFormat(desc.Format),
		},
		SampleDesc: DXGI_SAMPLE_DESC{
			Count: 1,
		},
		BufferUsage:  DXGI_USAGE_RENDER_TARGET_OUTPUT,
		BufferCount:  desc.BufferCount,
		OutputWindow: desc.Window,
		Windowed:     boolean(desc.Windowed),
		SwapEffect:   swapEffect,
	}
}

// NewViewport translates a viewport
func NewViewport(vp core.Viewport) VIEWPORT {
	return VIEWPORT{
		TopLeftX: vp.X,
		TopLeftY: vp.Y,
		Width:    vp.Width,
		Height:   vp.Height,
		MinDepth: vp.MinDepth,
		MaxDepth: vp.MaxDepth,
	}
}

// NewDepthStencilDesc translates a depth-stencil state. Comparison functions
// and stencil operations share their numbering with D3D11.
func NewDepthStencilDesc(desc core.DepthStencilDescriptor) DEPTH_STENCIL_DESC {
	writeMask := uint32(DEPTH_WRITE_MASK_ZERO)
	if desc.DepthWrite {
		writeMask = DEPTH_WRITE_MASK_ALL
	}
	return DEPTH_STENCIL_DESC{
		DepthEnable:      boolean(desc.DepthEnable),
		DepthWriteMask:   writeMask,
		DepthFunc:        uint32(desc.DepthFunc),
		StencilEnable:    boolean(desc.StencilEnable),
		StencilReadMask:  desc.StencilReadMask,
		StencilWriteMask: desc.StencilWriteMask,
		FrontFace:        newStencilOpDesc(desc.FrontFace),
		BackFace:         newStencilOpDesc(desc.BackFace),
	}
}

func newStencilOpDesc(op core.StencilOpDescriptor) DEPTH_STENCILOP_DESC {
	return DEPTH_STENCILOP_DESC{
		StencilFailOp:      uint32(op.FailOp),
		StencilDepthFailOp: uint32(op.DepthFailOp),
		StencilPassOp:      uint32(op.PassOp),
		StencilFunc:        uint32(op.Func),
	}
}

// NewTexture2DDesc translates a depth buffer descriptor into its texture
func NewTexture2DDesc(desc core.DepthBufferDescriptor) TEXTURE2D_DESC {
	return TEXTURE2D_DESC{
		Width:     desc.Width,
		Height:    desc.Height,
		MipLevels: desc.MipLevels,
		ArraySize: desc.ArraySize,
		Format:    DXGIFormat(desc.Format),
		SampleDesc: DXGI_SAMPLE_DESC{
			Count:   1,
			Quality: 0,
		},
		Usage:     uint32(desc.Usage),
		BindFlags: bindFlags(desc.Bind),
	}
}

// NewDepthStencilViewDesc returns the view over a depth buffer texture
func NewDepthStencilViewDesc(desc core.DepthBufferDescriptor) DEPTH_STENCIL_VIEW_DESC_TEX2D {
	return DEPTH_STENCIL_VIEW_DESC_TEX2D{
		Format:        DXGIFormat(desc.Format),
		ViewDimension: DSV_DIMENSION_TEXTURE2D,
	}
}

// NewBufferDesc translates a buffer descriptor
func NewBufferDesc(desc core.BufferDescriptor) BUFFER_DESC {
	return BUFFER_DESC{
		ByteWidth: desc.ByteWidth,
		Usage:     uint32(desc.Usage),
		BindFlags: bindFlags(desc.Bind),
	}
}

func bindFlags(b core.BindFlags) uint32 {
	var flags uint32
	if b&core.BindVertexBuffer != 0 {
		flags |= BIND_VERTEX_BUFFER
	}
	if b&core.BindIndexBuffer != 0 {
		flags |= BIND_INDEX_BUFFER
	}
	if b&core.BindDepthStencil != 0 {
		flags |= BIND_DEPTH_STENCIL
	}
	return flags
}

// NewRasterizerDesc translates a rasterizer state
func NewRasterizerDesc(desc core.RasterizerDescriptor) RASTERIZER_DESC {
	fill := uint32(FILL_SOLID)
	if desc.Fill == core.FillWireframe {
		fill = FILL_WIREFRAME
	}
	cull := uint32(CULL_NONE)
	switch desc.Cull {
	case core.CullFront:
		cull = CULL_FRONT
	case core.CullBack:
		cull = CULL_BACK
	}
	return RASTERIZER_DESC{
		FillMode:        fill,
		CullMode:        cull,
		DepthClipEnable: 1,
	}
}

// PrimitiveTopology translates a topology
func PrimitiveTopology(t core.Topology) (uint32, error) {
	if t != core.TopologyTriangleList {
		return 0, errors.Errorf("d3d11: unsupported topology %s", t)
	}
	return PRIMITIVE_TOPOLOGY_TRIANGLELIST, nil
}

// CompileFlags translates shader compile flags
func CompileFlags(f core.CompileFlags) uint32 {
	var flags uint32
	if f&core.CompileDebug != 0 {
		flags |= D3DCOMPILE_DEBUG
	}
	if f&core.CompileSkipOptimization != 0 {
		flags |= D3DCOMPILE_SKIP_OPTIMIZATION
	}
	return flags
}

// NewInputElementDescs translates an input layout. The returned names back the
// SemanticName pointers and have to stay reachable until the layout is created.
func NewInputElementDescs(elements []core.InputElement) ([]INPUT_ELEMENT_DESC, [][]byte) {
	descs := make([]INPUT_ELEMENT_DESC, len(elements))
	names := make([][]byte, len(elements))
	for idx, el := range elements {
		names[idx] = append([]byte(el.Semantic), 0)
		class := uint32(INPUT_PER_VERTEX_DATA)
		if el.Class == core.PerInstance {
			class = INPUT_PER_INSTANCE_DATA
		}
		descs[idx] = INPUT_ELEMENT_DESC{
			SemanticName:         &names[idx][0],
			SemanticIndex:        el.SemanticIndex,
			Format:               DXGIFormat(el.Format),
			InputSlot:            el.Slot,
			AlignedByteOffset:    el.Offset,
			InputSlotClass:       class,
			InstanceDataStepRate: el.StepRate,
		}
	}
	return descs, names
}

func boolean(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// inputLayoutError reports a layout the runtime rejected as not matching the
// shader, any other failure is passed on unchanged
func inputLayoutError(err error) error {
	if code, ok := errors.Cause(err).(ErrorCode); ok && code.InvalidArg() {
		return errors.Wrap(core.ErrInputLayoutMismatch, err.Error())
	}
	return err
}
