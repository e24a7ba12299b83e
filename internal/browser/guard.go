package browser

import (
	"fmt"
	"net/url"
	"strings"
)

var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
	"about": true,
	"file":  true,
}

// urlGuard отсекает переходы по запрещенным адресам.
// Шаблон, начинающийся с "/", сравнивается с путем, остальные - с хостом и его поддоменами.
type urlGuard struct {
	hosts []string
	paths []string
}

func newURLGuard(patterns []string) urlGuard {
	var g urlGuard
	for _, p := range patterns {
		p = strings.ToLower(strings.TrimSpace(p))
		switch {
		case p == "":
		case strings.HasPrefix(p, "/"):
			g.paths = append(g.paths, p)
		default:
			g.hosts = append(g.hosts, p)
		}
	}
	return g
}

func (g urlGuard) check(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("некорректный адрес %q: %w", raw, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if !allowedSchemes[scheme] {
		return fmt.Errorf("%w: схема %q не поддерживается", ErrBlockedURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	for _, h := range g.hosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return fmt.Errorf("%w: %s", ErrBlockedURL, host)
		}
	}

	path := strings.ToLower(u.Path)
	for _, p := range g.paths {
		if strings.HasPrefix(path, p) {
			return fmt.Errorf("%w: %s", ErrBlockedURL, u.Path)
		}
	}
	return nil
}
