// Package csrf resolves the anti-forgery token the challenge server expects
// on state-changing requests. A hidden form field value is preferred over
// the cookie of the same purpose.
package csrf

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

const (
	DefaultFieldName  = "csrfmiddlewaretoken"
	DefaultCookieName = "csrftoken"
)

type Config struct {
	// FieldValue is a hidden field value known up front. It wins over
	// everything else.
	FieldValue string

	// PageURL is a page carrying the hidden field. When set, the page is
	// fetched once and the field value is cached.
	PageURL string

	FieldName  string
	CookieName string

	// BaseURL selects the cookies read from Jar.
	BaseURL string

	// Jar is shared with the HTTP client that talks to the backend.
	Jar http.CookieJar

	HTTPClient *http.Client
}

type Source struct {
	cfg  Config
	base *url.URL

	mu      sync.Mutex
	scraped string
}

func NewSource(cfg Config) (*Source, error) {
	if cfg.FieldName == "" {
		cfg.FieldName = DefaultFieldName
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Jar: cfg.Jar}
	}
	s := &Source{cfg: cfg}
	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, errors.Wrap(err, "invalid base url")
		}
		s.base = base
	}
	return s, nil
}

// Token returns the hidden field value if one can be found, otherwise the
// cookie value, otherwise an empty string. Failing to fetch the page is not
// an error, the cookie is consulted instead.
func (s *Source) Token(ctx context.Context) (string, error) {
	if s.cfg.FieldValue != "" {
		return s.cfg.FieldValue, nil
	}
	if s.cfg.PageURL != "" {
		token, err := s.fieldFromPage(ctx)
		if err != nil {
			slog.Warn("failed to read csrf field from page", "url", s.cfg.PageURL, "error", err)
		} else if token != "" {
			return token, nil
		}
	}
	return s.fromCookie(), nil
}

func (s *Source) fieldFromPage(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scraped != "" {
		return s.scraped, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.PageURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("page returned status %d", resp.StatusCode)
	}

	token, err := FindField(resp.Body, s.cfg.FieldName)
	if err != nil {
		return "", err
	}
	s.scraped = token
	return token, nil
}

func (s *Source) fromCookie() string {
	if s.cfg.Jar == nil || s.base == nil {
		return ""
	}
	for _, c := range s.cfg.Jar.Cookies(s.base) {
		if c.Name == s.cfg.CookieName {
			return c.Value
		}
	}
	return ""
}

// FindField returns the value of the first input element named name.
func FindField(r io.Reader, name string) (string, error) {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return "", errors.Wrap(err, "failed to parse page")
			}
			return "", nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "input" {
				continue
			}
			var fieldName, value string
			for _, attr := range tok.Attr {
				switch strings.ToLower(attr.Key) {
				case "name":
					fieldName = attr.Val
				case "value":
					value = attr.Val
				}
			}
			if fieldName == name {
				return value, nil
			}
		}
	}
}
