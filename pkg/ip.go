package pkg

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

const LocalClient = "localhost"

// ClientIP returns the address used to key per-client rate limits. Proxy headers
// win over RemoteAddr. Loopback and private addresses (local dev, docker bridge)
// all collapse into LocalClient.
func ClientIP(r *http.Request) (string, error) {
	raw := r.Header.Get("X-Real-Ip")
	if raw == "" {
		raw, _, _ = strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = r.RemoteAddr
	}

	addr, err := parseAddr(raw)
	if err != nil {
		return "", err
	}

	if IsLocalAddr(addr) {
		return LocalClient, nil
	}
	return addr.String(), nil
}

func IsLocalAddr(addr netip.Addr) bool {
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsUnspecified()
}

func parseAddr(raw string) (netip.Addr, error) {
	if host, _, err := net.SplitHostPort(raw); err == nil {
		raw = host
	}
	addr, err := netip.ParseAddr(strings.Trim(raw, "[]"))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("client ip [%s] is invalid: %w", raw, err)
	}
	return addr.Unmap(), nil
}
