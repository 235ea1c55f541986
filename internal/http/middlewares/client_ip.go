package middlewares

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// TrustedProxies es el set de proxies cuyos X-Forwarded-For / X-Real-IP se
// aceptan. Un *TrustedProxies nil no confía en nadie: la IP es RemoteAddr.
type TrustedProxies struct {
	nets []*net.IPNet
}

// ParseTrustedProxies acepta IPs sueltas o CIDRs. Lista vacía retorna nil.
func ParseTrustedProxies(list []string) (*TrustedProxies, error) {
	var tp TrustedProxies
	for _, raw := range list {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if !strings.Contains(s, "/") {
			ip := net.ParseIP(s)
			if ip == nil {
				return nil, fmt.Errorf("trusted proxy %q: invalid ip", s)
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			tp.nets = append(tp.nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, n, err := net.ParseCIDR(s)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", s, err)
		}
		tp.nets = append(tp.nets, n)
	}
	if len(tp.nets) == 0 {
		return nil, nil
	}
	return &tp, nil
}

func (t *TrustedProxies) trusts(addr string) bool {
	if t == nil {
		return false
	}
	ip := net.ParseIP(addr)
	if ip == nil {
		return false
	}
	for _, n := range t.nets {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// ClientIP resuelve la IP del cliente. Los headers de proxy solo cuentan si
// la conexión viene de un proxy confiable. En X-Forwarded-For gana la entrada
// más a la derecha que no sea un proxy confiable.
func (t *TrustedProxies) ClientIP(r *http.Request) string {
	remote := remoteHost(r)
	if !t.trusts(remote) {
		return remote
	}

	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop == "" || t.trusts(hop) {
				continue
			}
			if net.ParseIP(hop) == nil {
				// basura en la cadena: no seguimos hacia la izquierda
				return remote
			}
			return hop
		}
	}
	if xr := strings.TrimSpace(r.Header.Get("X-Real-IP")); net.ParseIP(xr) != nil {
		return xr
	}
	return remote
}
