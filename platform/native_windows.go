package platform

import (
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"

	"github.com/devblok/flowerbox/core"
)

const (
	className = "FlowerBoxWindow"

	wsOverlappedWindow = 0x00CF0000
	swShow             = 5
	cwUseDefault       = 0x80000000

	wmDestroy = 0x0002
	wmQuit    = 0x0012

	pmRemove = 0x0001

	errorClassAlreadyExists = 1410
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procRegisterClassExW = user32.NewProc("RegisterClassExW")
	procCreateWindowExW  = user32.NewProc("CreateWindowExW")
	procAdjustWindowRect = user32.NewProc("AdjustWindowRect")
	procShowWindow       = user32.NewProc("ShowWindow")
	procDestroyWindow    = user32.NewProc("DestroyWindow")
	procIsWindow         = user32.NewProc("IsWindow")
	procDefWindowProcW   = user32.NewProc("DefWindowProcW")
	procPostQuitMessage  = user32.NewProc("PostQuitMessage")
	procPeekMessageW     = user32.NewProc("PeekMessageW")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procDispatchMessageW = user32.NewProc("DispatchMessageW")
)

type wndClassEx struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     windows.Handle
	hIcon         windows.Handle
	hCursor       windows.Handle
	hbrBackground windows.Handle
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       windows.Handle
}

type point struct {
	x, y int32
}

type msg struct {
	hwnd    windows.HWND
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      point
}

type rect struct {
	left, top, right, bottom int32
}

// NewNativeWindow creates a Win32 window whose client area matches the configured size
func NewNativeWindow(cfg core.WindowConfiguration, logger log.FieldLogger) (Window, error) {
	if err := registerClass(); err != nil {
		return nil, err
	}

	r := rect{right: int32(cfg.Width), bottom: int32(cfg.Height)}
	if ret, _, err := procAdjustWindowRect.Call(uintptr(unsafe.Pointer(&r)), wsOverlappedWindow, 0); ret == 0 {
		return nil, errors.Wrap(err, "AdjustWindowRect")
	}

	title, err := windows.UTF16PtrFromString(cfg.Title)
	if err != nil {
		return nil, errors.Wrap(err, "windows.UTF16PtrFromString()")
	}
	class, _ := windows.UTF16PtrFromString(className)
	hwnd, _, err := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(class)),
		uintptr(unsafe.Pointer(title)),
		wsOverlappedWindow,
		cwUseDefault,
		cwUseDefault,
		uintptr(r.right-r.left),
		uintptr(r.bottom-r.top),
		0,
		0,
		uintptr(moduleHandle()),
		0,
	)
	if hwnd == 0 {
		return nil, errors.Wrap(err, "CreateWindowExW")
	}
	procShowWindow.Call(hwnd, swShow)

	logger.WithFields(log.Fields{
		"title":  cfg.Title,
		"width":  cfg.Width,
		"height": cfg.Height,
	}).Debug("native window created")
	return &NativeWindow{
		hwnd:   windows.HWND(hwnd),
		width:  cfg.Width,
		height: cfg.Height,
	}, nil
}

// NativeWindow is a plain Win32 window
type NativeWindow struct {
	hwnd          windows.HWND
	width, height uint32
}

// Handle implements interface
func (w *NativeWindow) Handle() uintptr {
	return uintptr(w.hwnd)
}

// ClientSize implements interface
func (w *NativeWindow) ClientSize() (uint32, uint32) {
	return w.width, w.height
}

// Peek implements interface. Messages for every window of the thread are taken
// so WM_QUIT, which has no window, is seen.
func (w *NativeWindow) Peek() (core.Message, bool) {
	var m msg
	ret, _, _ := procPeekMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0, pmRemove)
	if ret == 0 {
		return core.Message{}, false
	}
	kind := core.OtherMessage
	if m.message == wmQuit {
		kind = core.QuitMessage
	}
	return core.Message{Kind: kind, Native: &m}, true
}

// Dispatch implements interface
func (w *NativeWindow) Dispatch(message core.Message) {
	m, ok := message.Native.(*msg)
	if !ok {
		return
	}
	procTranslateMessage.Call(uintptr(unsafe.Pointer(m)))
	procDispatchMessageW.Call(uintptr(unsafe.Pointer(m)))
}

// Close implements interface
func (w *NativeWindow) Close() {
	if w.hwnd == 0 {
		return
	}
	if ret, _, _ := procIsWindow.Call(uintptr(w.hwnd)); ret != 0 {
		procDestroyWindow.Call(uintptr(w.hwnd))
	}
	w.hwnd = 0
}

func registerClass() error {
	class, err := windows.UTF16PtrFromString(className)
	if err != nil {
		return errors.Wrap(err, "windows.UTF16PtrFromString()")
	}
	wc := wndClassEx{
		lpfnWndProc:   syscall.NewCallback(wndProc),
		hInstance:     moduleHandle(),
		lpszClassName: class,
	}
	wc.cbSize = uint32(unsafe.Sizeof(wc))
	if ret, _, err := procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc))); ret == 0 {
		if errno, ok := err.(syscall.Errno); ok && errno == errorClassAlreadyExists {
			return nil
		}
		return errors.Wrap(err, "RegisterClassExW")
	}
	return nil
}

// wndProc posts WM_QUIT once the window is gone, closing is left to DefWindowProcW
func wndProc(hwnd, message, wParam, lParam uintptr) uintptr {
	if message == wmDestroy {
		procPostQuitMessage.Call(0)
		return 0
	}
	ret, _, _ := procDefWindowProcW.Call(hwnd, message, wParam, lParam)
	return ret
}

func moduleHandle() windows.Handle {
	var h windows.Handle
	if err := windows.GetModuleHandleEx(0, nil, &h); err != nil {
		return 0
	}
	return h
}
