//go:build linux

package system

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// KD console modes from linux/kd.h
const (
	kdText     = 0x00
	kdGraphics = 0x01
	kdSetMode  = 0x4B3A // KDSETMODE ioctl
)

var vtPaths = []string{"/dev/tty", "/dev/tty0"}

// SetGraphicsMode stops the kernel console from drawing over the
// framebuffer and hides its cursor.
func SetGraphicsMode(l Logger) error {
	err := setKDMode(kdGraphics)
	logTTY(l, "KD_GRAPHICS", err)
	if err == nil {
		_ = writeVT("\x1b[?25l")
	}
	return err
}

// RestoreTextMode gives the console back.
func RestoreTextMode(l Logger) error {
	_ = writeVT("\x1b[?25h")
	err := setKDMode(kdText)
	logTTY(l, "KD_TEXT", err)
	return err
}

func setKDMode(mode int) error {
	var lastErr error
	for _, p := range vtPaths {
		fd, err := unix.Open(p, unix.O_RDONLY, 0)
		if err != nil {
			lastErr = fmt.Errorf("open %s: %w", p, err)
			continue
		}
		err = unix.IoctlSetInt(fd, kdSetMode, mode)
		unix.Close(fd)
		if err != nil {
			lastErr = fmt.Errorf("KDSETMODE %d on %s: %w", mode, p, err)
			continue
		}
		return nil
	}
	return lastErr
}

func writeVT(s string) error {
	var lastErr error
	for _, p := range vtPaths {
		f, err := os.OpenFile(p, os.O_WRONLY, 0)
		if err != nil {
			lastErr = err
			continue
		}
		_, err = f.WriteString(s)
		f.Close()
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("write VT: %w", lastErr)
}

func logTTY(l Logger, what string, err error) {
	if l == nil {
		return
	}
	if err != nil {
		l.Errorf("tty", "%s failed: %v", what, err)
		return
	}
	l.Infof("tty", "%s set", what)
}
