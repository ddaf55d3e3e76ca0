//go:build !linux

package system

import (
	"context"
	"errors"

	"github.com/rook-computer/typewriter/internal/keys"
)

type EvdevSource struct {
	events chan keys.Event
}

func NewEvdevSource(device string, grab bool, logger Logger) *EvdevSource {
	return &EvdevSource{events: make(chan keys.Event)}
}

func (s *EvdevSource) Start(ctx context.Context) error {
	return errors.New("evdev keyboard requires linux")
}

func (s *EvdevSource) Stop() error               { return nil }
func (s *EvdevSource) Events() <-chan keys.Event { return s.events }
