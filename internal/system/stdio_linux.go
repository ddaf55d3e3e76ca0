//go:build linux

package system

import (
	"os"

	"golang.org/x/sys/unix"
)

// RedirectStdIO points the stdout and stderr descriptors at path so panics
// and prints from any goroutine land in the file.
func RedirectStdIO(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := unix.Dup3(int(f.Fd()), int(os.Stdout.Fd()), 0); err != nil {
		return err
	}
	return unix.Dup3(int(f.Fd()), int(os.Stderr.Fd()), 0)
}
