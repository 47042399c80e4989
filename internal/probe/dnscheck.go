package probe

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"
)

// DNS classes reported when the backend cannot be reached.
const (
	DNSResolves      = "RESOLVES"
	DNSNXDomain      = "NXDOMAIN"
	DNSNoARecord     = "NO_A_RECORD"
	DNSServfail      = "SERVFAIL_or_TIMEOUT"
	DNSInvalidName   = "INVALID_NAME"
	DNSLiteralIPHost = "IP_LITERAL"
)

type DNSStatus struct {
	Domain        string   `json:"domain"`
	Class         string   `json:"class"`
	IPs           []string `json:"ips,omitempty"`
	ResolverError string   `json:"resolver_error,omitempty"`
}

var dnsTimeout = 3 * time.Second

// Resolver is the subset of *net.Resolver used by CheckDNS.
type Resolver interface {
	LookupIP(ctx context.Context, network, host string) ([]net.IP, error)
}

// CheckDNS explains a transport failure: it tells a typo'd or unresolvable
// backend host apart from one that resolves but refuses connections.
func CheckDNS(ctx context.Context, r Resolver, host string) DNSStatus {
	s := DNSStatus{Domain: strings.TrimSpace(host)}
	if s.Domain == "" || strings.Contains(s.Domain, "://") {
		s.Class = DNSInvalidName
		return s
	}
	// The default backend is addressed by IP; nothing to resolve.
	if ip := net.ParseIP(s.Domain); ip != nil {
		s.Class = DNSLiteralIPHost
		s.IPs = []string{ip.String()}
		return s
	}
	if r == nil {
		r = net.DefaultResolver
	}

	ctx, cancel := context.WithTimeout(ctx, dnsTimeout)
	defer cancel()

	ips, err := r.LookupIP(ctx, "ip", s.Domain)
	if err == nil && len(ips) > 0 {
		s.Class = DNSResolves
		for _, ip := range ips {
			s.IPs = append(s.IPs, ip.String())
		}
		return s
	}
	if err == nil {
		s.Class = DNSNoARecord
		return s
	}

	s.ResolverError = err.Error()
	var de *net.DNSError
	switch {
	case errors.As(err, &de) && de.IsNotFound:
		s.Class = DNSNXDomain
	default:
		s.Class = DNSServfail
	}
	return s
}
