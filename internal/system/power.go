package system

import (
	"context"
	"fmt"
	"strings"
)

// PowerOff halts the machine immediately.
func PowerOff(ctx context.Context, r Runner) error {
	_, stderr, err := r.Run(ctx, "poweroff", "-f")
	if err != nil {
		return fmt.Errorf("poweroff failed: %v: %s", err, strings.TrimSpace(stderr))
	}
	return nil
}
