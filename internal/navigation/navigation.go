// Package navigation builds page URLs of the challenge site and reloads the
// challenge page after a correct answer.
package navigation

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type Site struct {
	BaseURL string
}

func NewSite(baseURL string) Site {
	return Site{BaseURL: strings.TrimRight(baseURL, "/")}
}

// ChallengeURL is the detail page of a challenge.
func (s Site) ChallengeURL(challengeId int64) string {
	return s.BaseURL + "/challenges/challenge/" + strconv.FormatInt(challengeId, 10) + "/"
}

// WeekURL lists the challenges of a week.
func (s Site) WeekURL(weekNumber int) string {
	return s.BaseURL + "/challenges/week/" + strconv.Itoa(weekNumber) + "/"
}

// PageReloader fetches a page again so the server side progress it shows is
// current, and reports the outcome through OnReload.
type PageReloader struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
	// OnReload is called with the HTTP status, or the error if the page
	// could not be fetched.
	OnReload func(status int, err error)
}

func (r *PageReloader) Reload() {
	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	ctx := context.Background()
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	status, err := r.fetch(ctx, client)
	if err != nil {
		slog.Warn("failed to reload page", "url", r.URL, "error", err)
	} else {
		slog.Info("page reloaded", "url", r.URL, "status", status)
	}
	if r.OnReload != nil {
		r.OnReload(status, err)
	}
}

func (r *PageReloader) fetch(ctx context.Context, client *http.Client) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
