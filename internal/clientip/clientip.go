// Package clientip resolves the originating client address used as the
// server-side rate limit actor key.
package clientip

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

var headerOrder = []string{"X-Forwarded-For", "X-Real-Ip", "X-Client-Ip"}

// FromRequest returns the best-effort original client address. Forwarded
// headers are preferred but only trusted when they carry a globally
// routable address; otherwise the direct connection address is used.
func FromRequest(r *http.Request) string {
	for _, header := range headerOrder {
		value := r.Header.Get(header)
		if value == "" {
			continue
		}
		// X-Forwarded-For may carry a chain; the first hop is the client.
		if idx := strings.IndexByte(value, ','); idx >= 0 {
			value = value[:idx]
		}
		if addr, ok := parsePublic(strings.TrimSpace(value)); ok {
			return addr
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "0.0.0.0"
	}
	return host
}

// parsePublic accepts only addresses outside private and reserved ranges,
// mirroring the trust rules for forwarded headers.
func parsePublic(value string) (string, bool) {
	addr, err := netip.ParseAddr(value)
	if err != nil {
		return "", false
	}
	if addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsMulticast() || addr.IsUnspecified() {
		return "", false
	}
	return addr.String(), true
}
