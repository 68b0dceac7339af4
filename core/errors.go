package core

import "github.com/pkg/errors"

var (
	// ErrNullHandle is returned when a backend call succeeds but hands back an empty object
	ErrNullHandle = errors.New("backend returned a null handle")

	// ErrNotUploaded is returned by Draw when vertex or index data was never uploaded
	ErrNotUploaded = errors.New("vertex and index buffers must be uploaded before drawing")

	// ErrInputLayoutMismatch is returned when the input layout does not match
	// the vertex shader input signature
	ErrInputLayoutMismatch = errors.New("input layout does not match vertex shader signature")

	// ErrUnsupportedPlatform is returned where no graphics backend exists
	ErrUnsupportedPlatform = errors.New("no graphics backend for this platform")
)

// Step is one stage of device initialisation
type Step int

// Initialisation steps, in the order they run
const (
	StepDevice Step = iota
	StepRenderTarget
	StepViewport
	StepDepthStencilState
	StepDepthStencilView
	StepShaders
	StepInputLayout
	StepTopology
	StepRasterizer
)

var stepNames = [...]string{
	"device",
	"render target",
	"viewport",
	"depth stencil state",
	"depth stencil view",
	"shaders",
	"input layout",
	"topology",
	"rasterizer",
}

func (s Step) String() string { return enumName(stepNames[:], int(s)) }

// InitError is a failed initialisation step
type InitError struct {
	Step Step
	Err  error
}

func (e *InitError) Error() string {
	return "core.NewGraphicsDevice(): " + e.Step.String() + ": " + e.Err.Error()
}

// Unwrap returns the backend error
func (e *InitError) Unwrap() error { return e.Err }

// Cause implements the pkg/errors causer
func (e *InitError) Cause() error { return e.Err }
