//go:build !linux

package system

func SetGraphicsMode(l Logger) error { return nil }
func RestoreTextMode(l Logger) error { return nil }
