package main

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// simRunner prints commands instead of running them and answers the
// network queries with fixed values.
type simRunner struct {
	out io.Writer
}

func (r simRunner) Run(ctx context.Context, cmd string, args ...string) (string, string, error) {
	fmt.Fprintf(r.out, "[sim] would run: %s %s\r\n", cmd, strings.Join(args, " "))
	switch cmd {
	case "iwgetid":
		return "simulator-wifi\n", "", nil
	case "hostname":
		return "127.0.0.1\n", "", nil
	}
	return "", "", nil
}
