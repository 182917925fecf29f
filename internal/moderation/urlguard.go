package moderation

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"regexp"
	"strings"
)

const DefaultMaxURLLength = 1000

var (
	errEmptyURL      = errors.New("url is empty")
	errURLTooLong    = errors.New("url exceeds maximum length")
	errScheme        = errors.New("url scheme must be http or https")
	errMissingHost   = errors.New("url has no host")
	errPrivateHost   = errors.New("url points to a private, loopback or link-local host")
	errSuspiciousTLD = errors.New("url uses a disallowed top-level domain")
)

var privateHostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^localhost$`),
	regexp.MustCompile(`(?i)\.localhost$`),
	regexp.MustCompile(`^127\.`),
	regexp.MustCompile(`^192\.168\.`),
	regexp.MustCompile(`^10\.`),
	regexp.MustCompile(`^172\.(1[6-9]|2[0-9]|3[01])\.`),
	regexp.MustCompile(`^169\.254\.`),
	regexp.MustCompile(`^0\.`),
	regexp.MustCompile(`^::1$`),
	regexp.MustCompile(`(?i)^fe80:`),
}

var suspiciousTLDs = []string{".tk", ".ml", ".cf", ".onion"}

// URLGuard 抓取前的 URL 校验,防止抓取器被用来探测内网。
// 只看 URL 本身,不做 DNS 解析。
type URLGuard struct {
	MaxLength int
}

// Validate 校验通过返回解析后的 URL
func (g URLGuard) Validate(raw string) (*url.URL, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, errEmptyURL
	}
	maxLen := g.MaxLength
	if maxLen <= 0 {
		maxLen = DefaultMaxURLLength
	}
	if len(raw) > maxLen {
		return nil, errURLTooLong
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}
	if err := g.CheckURL(u); err != nil {
		return nil, err
	}
	return u, nil
}

// CheckURL 校验已解析的 URL,重定向时也会调用
func (g URLGuard) CheckURL(u *url.URL) error {
	if u.Scheme != "http" && u.Scheme != "https" {
		return errScheme
	}
	// 结尾的点是合法的绝对域名写法,去掉后再匹配
	host := strings.TrimSuffix(strings.ToLower(u.Hostname()), ".")
	if host == "" {
		return errMissingHost
	}
	if isPrivateHost(host) {
		return errPrivateHost
	}
	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			return errSuspiciousTLD
		}
	}
	return nil
}

func isPrivateHost(host string) bool {
	for _, p := range privateHostPatterns {
		if p.MatchString(host) {
			return true
		}
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() ||
		addr.IsLinkLocalMulticast() || addr.IsUnspecified()
}
