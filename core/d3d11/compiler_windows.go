package d3d11

import (
	"strings"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/windows"

	"github.com/devblok/flowerbox/core"
)

var (
	d3dcompiler = windows.NewLazySystemDLL("d3dcompiler_47.dll")

	_D3DCompile = d3dcompiler.NewProc("D3DCompile")
)

// Compile compiles one entry point of HLSL source. On failure the returned
// CompileError carries the compiler diagnostics.
func Compile(src []byte, name, entry, target string, flags uint32) ([]byte, error) {
	if err := _D3DCompile.Find(); err != nil {
		return nil, err
	}
	pName, err := windows.BytePtrFromString(name)
	if err != nil {
		return nil, err
	}
	pEntry, err := windows.BytePtrFromString(entry)
	if err != nil {
		return nil, err
	}
	pTarget, err := windows.BytePtrFromString(target)
	if err != nil {
		return nil, err
	}

	var code, errs *Blob
	r, _, _ := _D3DCompile.Call(
		uintptr(unsafe.Pointer(&src[0])), // pSrcData
		uintptr(len(src)),                // SrcDataSize
		uintptr(unsafe.Pointer(pName)),   // pSourceName
		0,                                // pDefines
		0,                                // pInclude
		uintptr(unsafe.Pointer(pEntry)),  // pEntrypoint
		uintptr(unsafe.Pointer(pTarget)), // pTarget
		uintptr(flags),                   // Flags1
		0,                                // Flags2
		uintptr(unsafe.Pointer(&code)),   // ppCode
		uintptr(unsafe.Pointer(&errs)),   // ppErrorMsgs
	)
	if errs != nil {
		defer release(unsafe.Pointer(errs))
	}
	if code != nil {
		defer release(unsafe.Pointer(code))
	}
	if Failed(uint32(r)) {
		msg := ""
		if errs != nil {
			msg = strings.TrimRight(string(errs.Bytes()), "\x00")
		}
		return nil, CompileError{Entry: entry, Code: uint32(r), Message: msg}
	}
	if code == nil {
		return nil, errors.Wrap(core.ErrNullHandle, "D3DCompile")
	}
	return code.Bytes(), nil
}
