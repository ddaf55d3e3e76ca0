// Package system wraps the host: external commands, the Linux console, and
// the evdev keyboard.
package system

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
)

// stderr kept from a failed command.
const maxStderr = 4096

type Runner interface {
	Run(ctx context.Context, cmd string, args ...string) (stdout, stderr string, err error)
}

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// ShellRunner executes commands from PATH, through sudo when Sudo is set.
// It returns stdout, the tail of stderr, and an error if the command exits
// non-zero.
type ShellRunner struct {
	Sudo   bool
	Logger Logger
}

func (r ShellRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	name, argv := cmd, args
	if r.Sudo {
		name, argv = "sudo", append([]string{cmd}, args...)
	}
	c := exec.CommandContext(ctx, name, argv...)
	var outBuf bytes.Buffer
	errBuf := &ringBuffer{max: maxStderr}
	c.Stdout = &outBuf
	c.Stderr = errBuf
	err := c.Run()
	if r.Logger != nil {
		r.Logger.Infof("exec", "%s %v: err=%v", cmd, args, err)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return outBuf.String(), errBuf.String(), fmt.Errorf("exit %d: %w", exitErr.ExitCode(), err)
		}
		return outBuf.String(), errBuf.String(), err
	}
	return outBuf.String(), errBuf.String(), nil
}

// ringBuffer keeps the last max bytes written to it.
type ringBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (r *ringBuffer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.max <= 0 {
		return len(p), nil
	}
	if len(p) >= r.max {
		r.buf = append(r.buf[:0], p[len(p)-r.max:]...)
		return len(p), nil
	}
	if over := len(r.buf) + len(p) - r.max; over > 0 {
		r.buf = append(r.buf[over:], p...)
		return len(p), nil
	}
	r.buf = append(r.buf, p...)
	return len(p), nil
}

func (r *ringBuffer) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.buf)
}
