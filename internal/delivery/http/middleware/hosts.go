package middleware

import (
	"net"
	"net/http"
	"strings"

	h "bodhini/internal/delivery/http/helpers"
)

// AllowedHosts rejects requests whose Host header is not in hosts with 400.
// An empty list or an entry of "*" disables the check. Entries starting with "."
// match the domain and every subdomain.
func AllowedHosts(hosts []string, next http.Handler) http.Handler {
	exact := make(map[string]struct{})
	var suffixes []string
	for _, host := range hosts {
		host = strings.ToLower(strings.TrimSpace(host))
		switch {
		case host == "":
		case host == "*":
			return next
		case strings.HasPrefix(host, "."):
			suffixes = append(suffixes, host)
		default:
			exact[host] = struct{}{}
		}
	}
	if len(exact) == 0 && len(suffixes) == 0 {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := strings.ToLower(r.Host)
		if hn, _, err := net.SplitHostPort(host); err == nil {
			host = hn
		}
		host = strings.TrimSuffix(host, ".")
		if _, ok := exact[host]; ok {
			next.ServeHTTP(w, r)
			return
		}
		for _, s := range suffixes {
			if host == s[1:] || strings.HasSuffix(host, s) {
				next.ServeHTTP(w, r)
				return
			}
		}
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid host header")
	})
}
