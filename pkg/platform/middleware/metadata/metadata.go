// Package metadata resolves the client address once per request so the rate
// limiter and log lines agree on who is calling.
package metadata

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"rishta/pkg/requestcontext"
)

// ClientMetadata stores the resolved client IP in the request context.
// Forwarding headers are honoured only when the socket peer falls inside one
// of the trusted prefixes. Mount it before the rate limiter.
func ClientMetadata(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithClientIP(r.Context(), ClientIPFromRequest(r, trusted))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClientIP(ctx context.Context) string {
	return requestcontext.ClientIP(ctx)
}

// ParseTrustedProxies accepts CIDR prefixes or bare addresses.
func ParseTrustedProxies(raw []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(raw))
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			out = append(out, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		out = append(out, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return out, nil
}

// ClientIPFromRequest returns the socket address unless the peer is a trusted
// proxy. Behind one, X-Forwarded-For is walked from the right and the first
// hop outside the trusted set wins; X-Real-IP is the fallback. Header values
// that are not IP addresses are ignored.
func ClientIPFromRequest(r *http.Request, trusted []netip.Prefix) string {
	peer := socketIP(r.RemoteAddr)
	peerAddr, ok := parseAddr(peer)
	if !ok || !contains(trusted, peerAddr) {
		return peer
	}

	if ip, ok := forwardedFor(r.Header.Values("X-Forwarded-For"), trusted); ok {
		return ip
	}
	if addr, ok := parseAddr(r.Header.Get("X-Real-IP")); ok {
		return addr.String()
	}
	return peer
}

func forwardedFor(values []string, trusted []netip.Prefix) (string, bool) {
	var hops []string
	for _, v := range values {
		hops = append(hops, strings.Split(v, ",")...)
	}
	var leftmost string
	for i := len(hops) - 1; i >= 0; i-- {
		addr, ok := parseAddr(hops[i])
		if !ok {
			return "", false
		}
		if !contains(trusted, addr) {
			return addr.String(), true
		}
		leftmost = addr.String()
	}
	return leftmost, leftmost != ""
}

func socketIP(remoteAddr string) string {
	if remoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(remoteAddr); err == nil {
		return host
	}
	return remoteAddr
}

func contains(prefixes []netip.Prefix, addr netip.Addr) bool {
	for _, p := range prefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

func parseAddr(raw string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(raw))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
