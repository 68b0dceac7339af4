package platform

import "github.com/veandco/go-sdl2/sdl"

func nativeHandle(window *sdl.Window) uintptr {
	info, err := window.GetWMInfo()
	if err != nil {
		return 0
	}
	return uintptr(info.GetWindowsInfo().Window)
}
