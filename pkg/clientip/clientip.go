package clientip

import (
	"net"
	"net/http"
	"strings"
)

// proxyHeaders are consulted in order before falling back to RemoteAddr.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Real-IP"}

// GetIP returns the normalized client address of r, or "" if none parses.
// CF-Connecting-IP wins, then the first valid X-Forwarded-For hop, then
// X-Real-IP, then the connection's remote address.
func GetIP(r *http.Request) string {
	if ip := parseIP(r.Header.Get(proxyHeaders[0])); ip != "" {
		return ip
	}
	for hop := range strings.SplitSeq(r.Header.Get("X-Forwarded-For"), ",") {
		if ip := parseIP(hop); ip != "" {
			return ip
		}
	}
	for _, h := range proxyHeaders[1:] {
		if ip := parseIP(r.Header.Get(h)); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return parseIP(r.RemoteAddr)
	}
	return parseIP(host)
}

func parseIP(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return ""
	}
	return ip.String()
}
