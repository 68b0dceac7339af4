package core

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/pkg/errors"

	"github.com/devblok/flowerbox/model"
)

// Format is a pixel or vertex element format
type Format int

// Formats used by the renderer
const (
	FormatUnknown Format = iota
	FormatR8G8B8A8Unorm
	FormatD32FloatS8X24Uint
	FormatR32G32B32Float
	FormatR32G32Float
	FormatR32Uint
	FormatR32Float
	FormatR32G32B32A32Float
)

var formatNames = [...]string{"unknown", "r8g8b8a8_unorm", "d32_float_s8x24_uint", "r32g32b32_float", "r32g32_float", "r32_uint", "r32_float", "r32g32b32a32_float"}

func (f Format) String() string { return enumName(formatNames[:], int(f)) }

// MarshalText implements encoding.TextMarshaler
func (f Format) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// Size returns the byte size of one element of the format
func (f Format) Size() uint32 {
	switch f {
	case FormatR8G8B8A8Unorm, FormatR32Uint, FormatR32Float:
		return 4
	case FormatD32FloatS8X24Uint, FormatR32G32Float:
		return 8
	case FormatR32G32B32Float:
		return 12
	case FormatR32G32B32A32Float:
		return 16
	default:
		return 0
	}
}

// SwapEffect defines what happens to a back buffer after it's presented
type SwapEffect int

// Swap effects
const (
	SwapEffectDiscard SwapEffect = iota
	SwapEffectSequential
)

var swapEffectNames = [...]string{"discard", "sequential"}

func (s SwapEffect) String() string { return enumName(swapEffectNames[:], int(s)) }

// MarshalText implements encoding.TextMarshaler
func (s SwapEffect) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// SwapchainDescriptor describes the device and its swapchain
type SwapchainDescriptor struct {
	Window      uintptr `json:"-"`
	Width       uint32
	Height      uint32
	Format      Format
	BufferCount uint32
	SwapEffect  SwapEffect
	Windowed    bool
	Debug       bool
}

// Viewport maps normalized device coordinates onto the render target
type Viewport struct {
	X, Y          float32
	Width, Height float32
	MinDepth      float32
	MaxDepth      float32
}

// ComparisonFunc compares a new value against an existing one
type ComparisonFunc int

// Comparison functions
const (
	ComparisonNever ComparisonFunc = iota + 1
	ComparisonLess
	ComparisonEqual
	ComparisonLessEqual
	ComparisonGreater
	ComparisonNotEqual
	ComparisonGreaterEqual
	ComparisonAlways
)

var comparisonNames = [...]string{"", "never", "less", "equal", "less_equal", "greater", "not_equal", "greater_equal", "always"}

func (c ComparisonFunc) String() string { return enumName(comparisonNames[:], int(c)) }

// MarshalText implements encoding.TextMarshaler
func (c ComparisonFunc) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// StencilOp is an operation applied to the stencil buffer
type StencilOp int

// Stencil operations
const (
	StencilKeep StencilOp = iota + 1
	StencilZero
	StencilReplace
	StencilIncrSat
	StencilDecrSat
	StencilInvert
	StencilIncr
	StencilDecr
)

var stencilOpNames = [...]string{"", "keep", "zero", "replace", "incr_sat", "decr_sat", "invert", "incr", "decr"}

func (s StencilOp) String() string { return enumName(stencilOpNames[:], int(s)) }

// MarshalText implements encoding.TextMarshaler
func (s StencilOp) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// StencilOpDescriptor describes stencil operations for one face orientation
type StencilOpDescriptor struct {
	FailOp      StencilOp
	DepthFailOp StencilOp
	PassOp      StencilOp
	Func        ComparisonFunc
}

// DepthStencilDescriptor describes the depth-stencil state
type DepthStencilDescriptor struct {
	DepthEnable      bool
	DepthWrite       bool
	DepthFunc        ComparisonFunc
	StencilEnable    bool
	StencilReadMask  uint8
	StencilWriteMask uint8
	FrontFace        StencilOpDescriptor
	BackFace         StencilOpDescriptor
	StencilRef       uint32
}

// Usage describes how a resource is read and written
type Usage int

// Resource usages
const (
	UsageDefault Usage = iota
	UsageImmutable
)

var usageNames = [...]string{"default", "immutable"}

func (u Usage) String() string { return enumName(usageNames[:], int(u)) }

// MarshalText implements encoding.TextMarshaler
func (u Usage) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// BindFlags describe how a resource is bound to the pipeline
type BindFlags uint32

// Bind flags
const (
	BindVertexBuffer BindFlags = 1 << iota
	BindIndexBuffer
	BindDepthStencil
)

// DepthBufferDescriptor describes the depth-stencil texture
type DepthBufferDescriptor struct {
	Width     uint32
	Height    uint32
	MipLevels uint32
	ArraySize uint32
	Format    Format
	Usage     Usage
	Bind      BindFlags
}

// BufferDescriptor describes a vertex or index buffer
type BufferDescriptor struct {
	ByteWidth uint32
	Usage     Usage
	Bind      BindFlags
}

// CompileFlags control shader compilation
type CompileFlags uint32

// Compile flags
const (
	CompileDebug CompileFlags = 1 << iota
	CompileSkipOptimization
)

// ShaderEntry names an entry point in the shader source and its target profile
type ShaderEntry struct {
	Stage   ShaderStage `json:"-"`
	Name    string
	Profile string
}

// InputClassification tells if an element advances per vertex or per instance
type InputClassification int

// Input classifications
const (
	PerVertex InputClassification = iota
	PerInstance
)

var classificationNames = [...]string{"per_vertex", "per_instance"}

func (i InputClassification) String() string { return enumName(classificationNames[:], int(i)) }

// MarshalText implements encoding.TextMarshaler
func (i InputClassification) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

// InputElement describes one vertex attribute of an input layout
type InputElement struct {
	Semantic      string
	SemanticIndex uint32
	Format        Format
	Slot          uint32
	Offset        uint32
	Class         InputClassification
	StepRate      uint32
}

// Topology tells how indices are assembled into primitives
type Topology int

// Primitive topologies, only triangle lists are supported
const (
	TopologyTriangleList Topology = iota
)

func (t Topology) String() string { return enumName([]string{"triangle_list"}, int(t)) }

// MarshalText implements encoding.TextMarshaler
func (t Topology) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// FillMode is the rasterizer fill mode
type FillMode int

// Fill modes
const (
	FillSolid FillMode = iota
	FillWireframe
)

var fillNames = [...]string{"solid", "wireframe"}

func (f FillMode) String() string { return enumName(fillNames[:], int(f)) }

// MarshalText implements encoding.TextMarshaler
func (f FillMode) MarshalText() ([]byte, error) { return []byte(f.String()), nil }

// CullMode tells which triangles the rasterizer discards
type CullMode int

// Cull modes
const (
	CullNone CullMode = iota
	CullFront
	CullBack
)

var cullNames = [...]string{"none", "front", "back"}

func (c CullMode) String() string { return enumName(cullNames[:], int(c)) }

// MarshalText implements encoding.TextMarshaler
func (c CullMode) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

// RasterizerDescriptor describes the rasterizer state
type RasterizerDescriptor struct {
	Fill FillMode
	Cull CullMode
}

// PipelineDescriptor is the complete static pipeline, created and bound
// once during initialisation
type PipelineDescriptor struct {
	DepthStencil DepthStencilDescriptor
	Shader       ShaderSource `json:"-"`
	VertexEntry  ShaderEntry
	PixelEntry   ShaderEntry
	CompileFlags CompileFlags
	InputLayout  []InputElement
	Topology     Topology
	Rasterizer   RasterizerDescriptor
}

// DefaultDepthStencil returns the depth-stencil state of the renderer. Stencil
// testing is off, but its masks and face operations are set up so enabling
// it needs no further changes.
func DefaultDepthStencil() DepthStencilDescriptor {
	return DepthStencilDescriptor{
		DepthEnable:      true,
		DepthWrite:       true,
		DepthFunc:        ComparisonLessEqual,
		StencilEnable:    false,
		StencilReadMask:  0xFF,
		StencilWriteMask: 0xFF,
		FrontFace: StencilOpDescriptor{
			FailOp:      StencilKeep,
			DepthFailOp: StencilIncr,
			PassOp:      StencilKeep,
			Func:        ComparisonAlways,
		},
		BackFace: StencilOpDescriptor{
			FailOp:      StencilKeep,
			DepthFailOp: StencilDecr,
			PassOp:      StencilKeep,
			Func:        ComparisonAlways,
		},
		StencilRef: 1,
	}
}

// VertexLayout returns the input layout matching model.Vertex
func VertexLayout() []InputElement {
	return []InputElement{{
		Semantic: "POSITION",
		Format:   FormatR32G32B32Float,
		Slot:     0,
		Offset:   uint32(unsafe.Offsetof(model.Vertex{}.Pos)),
		Class:    PerVertex,
	}}
}

// DefaultPipeline returns the fixed pipeline used to draw the cube
func DefaultPipeline(source ShaderSource) PipelineDescriptor {
	return PipelineDescriptor{
		DepthStencil: DefaultDepthStencil(),
		Shader:       source,
		VertexEntry:  ShaderEntry{Stage: VertexStage, Name: "VS", Profile: "vs_5_0"},
		PixelEntry:   ShaderEntry{Stage: PixelStage, Name: "PS", Profile: "ps_5_0"},
		CompileFlags: CompileDebug | CompileSkipOptimization,
		InputLayout:  VertexLayout(),
		Topology:     TopologyTriangleList,
		Rasterizer: RasterizerDescriptor{
			Fill: FillSolid,
			Cull: CullNone,
		},
	}
}

// ValidateInputLayout checks that elements match a vertex shader input signature
// one to one by semantic, semantic index and format
func ValidateInputLayout(elements, signature []InputElement) error {
	if len(elements) != len(signature) {
		return errors.Wrapf(ErrInputLayoutMismatch, "layout has %d elements, shader expects %d", len(elements), len(signature))
	}
	for idx, el := range elements {
		want := signature[idx]
		if !strings.EqualFold(el.Semantic, want.Semantic) || el.SemanticIndex != want.SemanticIndex {
			return errors.Wrapf(ErrInputLayoutMismatch, "element %d is %s%d, shader expects %s%d",
				idx, el.Semantic, el.SemanticIndex, want.Semantic, want.SemanticIndex)
		}
		if el.Format != want.Format {
			return errors.Wrapf(ErrInputLayoutMismatch, "element %d (%s) has format %s, shader expects %s",
				idx, el.Semantic, el.Format, want.Format)
		}
	}
	return nil
}

func enumName(names []string, v int) string {
	if v < 0 || v >= len(names) || names[v] == "" {
		return fmt.Sprintf("invalid(%d)", v)
	}
	return names[v]
}
