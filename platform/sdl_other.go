//go:build !windows

package platform

import "github.com/veandco/go-sdl2/sdl"

// nativeHandle has no HWND to report outside Windows
func nativeHandle(*sdl.Window) uintptr {
	return 0
}
