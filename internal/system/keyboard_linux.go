//go:build linux

package system

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/rook-computer/typewriter/internal/keys"
)

// EVIOCGRAB, _IOW('E', 0x90, int)
const eviocgrab = 0x40044590

// EvdevSource reads key events from Linux input devices. With Grab set the
// devices are taken exclusively so keystrokes do not reach the console.
type EvdevSource struct {
	Device string // empty reads every keyboard under /dev/input
	Grab   bool
	Logger Logger

	events chan keys.Event
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewEvdevSource(device string, grab bool, logger Logger) *EvdevSource {
	return &EvdevSource{Device: device, Grab: grab, Logger: logger, events: make(chan keys.Event, 64)}
}

func (s *EvdevSource) Events() <-chan keys.Event { return s.events }

func (s *EvdevSource) Start(ctx context.Context) error {
	paths, err := s.devices()
	if err != nil {
		return err
	}
	ctx, s.cancel = context.WithCancel(ctx)
	opened := 0
	for _, p := range paths {
		fd, err := unix.Open(p, unix.O_RDONLY|unix.O_NONBLOCK, 0)
		if err != nil {
			s.errorf("open %s: %v", p, err)
			continue
		}
		if s.Grab {
			if err := unix.IoctlSetInt(fd, eviocgrab, 1); err != nil {
				s.errorf("grab %s: %v", p, err)
			}
		}
		opened++
		s.wg.Add(1)
		go s.read(ctx, p, fd)
	}
	if opened == 0 {
		s.cancel()
		return fmt.Errorf("no readable keyboard among %v", paths)
	}
	go func() {
		s.wg.Wait()
		close(s.events)
	}()
	return nil
}

func (s *EvdevSource) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

func (s *EvdevSource) devices() ([]string, error) {
	if s.Device != "" {
		return []string{s.Device}, nil
	}
	for _, pattern := range []string{"/dev/input/by-id/*-event-kbd", "/dev/input/by-path/*-event-kbd", "/dev/input/event*"} {
		paths, err := filepath.Glob(pattern)
		if err == nil && len(paths) > 0 {
			return dedupe(paths), nil
		}
	}
	return nil, errors.New("no evdev devices found")
}

// dedupe resolves symlinks so one keyboard listed under several names is
// read once.
func dedupe(paths []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range paths {
		real, err := filepath.EvalSymlinks(p)
		if err != nil {
			real = p
		}
		if !seen[real] {
			seen[real] = true
			out = append(out, real)
		}
	}
	return out
}

func (s *EvdevSource) read(ctx context.Context, path string, fd int) {
	defer s.wg.Done()
	f := os.NewFile(uintptr(fd), path)
	defer func() {
		if s.Grab {
			_ = unix.IoctlSetInt(fd, eviocgrab, 0)
		}
		_ = f.Close()
	}()

	// input_event = timeval + u16 type + u16 code + s32 value.
	tvSize := binary.Size(unix.Timeval{})
	buf := make([]byte, 64*(tvSize+8))
	for {
		if ctx.Err() != nil {
			return
		}
		pollFds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		if _, err := unix.Poll(pollFds, 250); err != nil {
			if err == unix.EINTR {
				continue
			}
			s.errorf("poll %s: %v", path, err)
			return
		}
		if pollFds[0].Revents&(unix.POLLERR|unix.POLLHUP) != 0 {
			s.errorf("%s went away", path)
			return
		}
		if pollFds[0].Revents&unix.POLLIN == 0 {
			continue
		}
		n, err := unix.Read(fd, buf)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			s.errorf("read %s: %v", path, err)
			return
		}
		for _, ev := range decodeEvents(buf[:n], tvSize) {
			select {
			case s.events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *EvdevSource) errorf(format string, args ...interface{}) {
	if s.Logger != nil {
		s.Logger.Errorf("input", format, args...)
	}
}
