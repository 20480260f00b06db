package security

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"webseek/internal/domain"
)

// blockedPrefixes covers the loopback, RFC 1918, link-local and
// unspecified IPv4 ranges plus the IPv6 loopback, unique-local and
// link-local ranges. Nothing inside these serves public content, so
// outbound requests must never reach them.
var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
}

// IsPrivateIP reports whether ip falls in a blocked private or reserved
// range. Malformed addresses count as private so a bad parse can never
// open a hole.
func IsPrivateIP(ip net.IP) bool {
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return true
	}
	return isBlockedAddr(addr)
}

// isBlockedAddr unmaps IPv4-in-IPv6 addresses and strips IPv6 zones
// before matching, so neither ::ffff:127.0.0.1 nor fe80::1%eth0 can
// slip past the prefix rules.
func isBlockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap().WithZone("")
	for _, p := range blockedPrefixes {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// ValidateURL rejects URLs whose host is, or resolves to, a private or
// reserved IP. Only http and https schemes are accepted. Hostnames are
// resolved here once; NewSSRFSafeTransport re-checks at dial time.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return domain.NewDomainError("ValidateURL", domain.ErrSSRFBlocked,
			fmt.Sprintf("invalid URL: %v", err))
	}

	switch scheme := strings.ToLower(u.Scheme); scheme {
	case "http", "https":
	case "":
		return domain.NewDomainError("ValidateURL", domain.ErrSSRFBlocked,
			"missing URL scheme, only http/https allowed")
	default:
		return domain.NewDomainError("ValidateURL", domain.ErrSSRFBlocked,
			fmt.Sprintf("scheme %q not allowed, only http/https", u.Scheme))
	}

	host := u.Hostname()
	if host == "" {
		return domain.NewDomainError("ValidateURL", domain.ErrSSRFBlocked, "empty hostname")
	}

	if addr, parseErr := netip.ParseAddr(host); parseErr == nil {
		if isBlockedAddr(addr) {
			return domain.NewDomainError("ValidateURL", domain.ErrSSRFBlocked,
				fmt.Sprintf("IP %s is private or reserved", addr))
		}
		return nil
	}

	ips, err := net.LookupIP(host)
	if err != nil {
		return domain.NewDomainError("ValidateURL", domain.ErrSSRFBlocked,
			fmt.Sprintf("DNS lookup failed: %v", err))
	}
	for _, ip := range ips {
		if IsPrivateIP(ip) {
			return domain.NewDomainError("ValidateURL", domain.ErrSSRFBlocked,
				fmt.Sprintf("host %s resolves to private IP %s", host, ip))
		}
	}
	return nil
}

// NewSSRFSafeTransport returns an http.Transport that resolves DNS at
// dial time, rejects private results and connects to the exact IP it
// validated. Checking only before the request would leave a window for
// a rebinding resolver to swap in a private address.
func NewSSRFSafeTransport() *http.Transport {
	return &http.Transport{
		DialContext:           dialPublic,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// dialPublic resolves addr, rejects any private result and dials the
// first validated IP directly so no second resolver round trip happens.
func dialPublic(ctx context.Context, network, addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", err)
	}

	addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, domain.NewDomainError("SSRFSafeTransport.Dial", err,
			fmt.Sprintf("DNS lookup failed for %s", host))
	}
	if len(addrs) == 0 {
		return nil, domain.NewDomainError("SSRFSafeTransport.Dial",
			fmt.Errorf("no IPs resolved"), host)
	}

	for _, a := range addrs {
		if isBlockedAddr(a) {
			return nil, domain.NewDomainError("SSRFSafeTransport.Dial",
				domain.ErrSSRFBlocked,
				fmt.Sprintf("%s resolves to private IP %s", host, a))
		}
	}

	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	return dialer.DialContext(ctx, network,
		net.JoinHostPort(addrs[0].Unmap().String(), port))
}
