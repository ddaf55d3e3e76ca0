package system

import (
	"context"
	"fmt"
	"net"
	"strings"
)

const unavailable = "unavailable"

// NetworkStatus is what the status screen shows.
type NetworkStatus struct {
	SSID      string
	Addresses []string
}

func (n NetworkStatus) Lines() []string {
	ssid := n.SSID
	if ssid == "" {
		ssid = unavailable
	}
	addr := unavailable
	if len(n.Addresses) > 0 {
		addr = strings.Join(n.Addresses, " ")
	}
	return []string{"WiFi: " + ssid, "IP:   " + addr}
}

// QueryNetwork asks the host for the joined WiFi network and its IPv4
// addresses. Failures leave the field empty and are returned joined.
func QueryNetwork(ctx context.Context, r Runner) (NetworkStatus, error) {
	var st NetworkStatus
	var errs []string
	ssid, err := WiFiSSID(ctx, r)
	if err != nil {
		errs = append(errs, err.Error())
	}
	st.SSID = ssid
	addrs, err := IPv4Addresses(ctx, r)
	if err != nil {
		errs = append(errs, err.Error())
	}
	st.Addresses = addrs
	if len(errs) > 0 {
		return st, fmt.Errorf("network status: %s", strings.Join(errs, "; "))
	}
	return st, nil
}

func WiFiSSID(ctx context.Context, r Runner) (string, error) {
	stdout, stderr, err := r.Run(ctx, "iwgetid", "-r")
	if err != nil {
		return "", fmt.Errorf("iwgetid failed: %v: %s", err, strings.TrimSpace(stderr))
	}
	return strings.TrimSpace(stdout), nil
}

// IPv4Addresses parses `hostname -I`, dropping IPv6 entries.
func IPv4Addresses(ctx context.Context, r Runner) ([]string, error) {
	stdout, stderr, err := r.Run(ctx, "hostname", "-I")
	if err != nil {
		return nil, fmt.Errorf("hostname -I failed: %v: %s", err, strings.TrimSpace(stderr))
	}
	var out []string
	for _, field := range strings.Fields(stdout) {
		if ip := net.ParseIP(field); ip != nil && ip.To4() != nil {
			out = append(out, field)
		}
	}
	return out, nil
}
