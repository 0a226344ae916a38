package main

import (
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/cutekitek/challenge-console/internal/backend"
	"github.com/cutekitek/challenge-console/internal/config"
	"github.com/cutekitek/challenge-console/internal/csrf"
	"github.com/cutekitek/challenge-console/internal/files"
	"github.com/cutekitek/challenge-console/internal/navigation"
	"github.com/cutekitek/challenge-console/internal/playground"
	"github.com/cutekitek/challenge-console/internal/rabbitmq"
	"github.com/cutekitek/challenge-console/internal/repository/dto"
	"github.com/cutekitek/challenge-console/internal/ui"
	"github.com/pkg/errors"
)

const sessionCookie = "sessionid"

type appOptions struct {
	codePath    string
	challengeId int64
	assumeYes   bool
}

type app struct {
	playground *playground.Playground
	editor     playground.Editor
	terminal   *ui.Terminal
	publisher  *rabbitmq.RabbitMQPublisher
}

func newApp(cfg *config.Config, opts appOptions) (*app, error) {
	jar, err := newJar(cfg.BaseURL, cfg.SessionID)
	if err != nil {
		return nil, err
	}
	httpClient := &http.Client{Jar: jar, Timeout: cfg.HTTPTimeout}

	tokens, err := csrf.NewSource(csrf.Config{
		FieldValue: cfg.CSRFToken,
		PageURL:    cfg.CSRFPageURL,
		CookieName: cfg.CSRFCookie,
		BaseURL:    cfg.BaseURL,
		Jar:        jar,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, err
	}
	client, err := backend.New(backend.Config{
		BaseURL:     cfg.BaseURL,
		ExecutePath: cfg.ExecutePath,
		SubmitPath:  cfg.SubmitPath,
		TokenHeader: cfg.CSRFHeader,
		Tokens:      tokens,
		HTTPClient:  httpClient,
	})
	if err != nil {
		return nil, err
	}

	a := &app{
		terminal: ui.NewTerminal(ui.TerminalConfig{AssumeYes: opts.assumeYes}),
		editor:   files.NewFileEditor(opts.codePath),
	}
	pcfg := playground.Config{
		Runner:      client,
		Panel:       a.terminal,
		Notifier:    a.terminal,
		Confirmer:   a.terminal,
		Busy:        a.terminal,
		Editor:      a.editor,
		ReloadDelay: cfg.ReloadDelay,
		Serialize:   cfg.Serialize,
	}

	starter, err := newStarterSource(cfg)
	if err != nil {
		return nil, err
	}
	pcfg.Starter = starter

	if cfg.RabbitMQEnabled {
		publisher := rabbitmq.NewRabbitMQPublisher(rabbitmq.RabbitMqPublisherConfig{
			Login:    cfg.RabbitMQUser,
			Password: cfg.RabbitMQPassword,
			Host:     cfg.RabbitMQHost,
			Port:     cfg.RabbitMQPort,
			Queue:    cfg.RabbitMQQueue,
		})
		if err := publisher.Start(); err != nil {
			slog.Warn("event publishing disabled", "error", err)
		} else {
			a.publisher = publisher
			pcfg.Notifier = playground.Notifiers{a.terminal, publisher}
			pcfg.Attempts = publisher
		}
	}

	if opts.challengeId > 0 {
		terminal := a.terminal
		pcfg.Reloader = &navigation.PageReloader{
			URL:     navigation.NewSite(cfg.BaseURL).ChallengeURL(opts.challengeId),
			Client:  httpClient,
			Timeout: cfg.HTTPTimeout,
			OnReload: func(status int, err error) {
				if err != nil {
					terminal.Notify(dto.Notification{Level: dto.LevelWarning, Message: "Failed to reload challenge page: " + err.Error()})
					return
				}
				terminal.Notify(dto.Notification{Level: dto.LevelInfo, Message: "Challenge page reloaded."})
			},
		}
	}

	a.playground, err = playground.New(pcfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) Close() {
	if a.publisher != nil {
		a.publisher.Close()
	}
}

// newJar seeds a cookie jar with the session cookie so the backend sees an
// authenticated user.
func newJar(baseURL, sessionID string) (*cookiejar.Jar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cookie jar")
	}
	if sessionID == "" {
		return jar, nil
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid base url")
	}
	jar.SetCookies(u, []*http.Cookie{{Name: sessionCookie, Value: sessionID, Path: "/"}})
	return jar, nil
}

func newStarterSource(cfg *config.Config) (playground.StarterSource, error) {
	if cfg.MinIOEnabled() {
		return files.NewFileStorage(files.Config{
			Url:        cfg.MinIOHost,
			Login:      cfg.MinIOLogin,
			Password:   cfg.MinIOPassword,
			Bucket:     cfg.MinIOBucket,
			Secure:     cfg.MinIOSecure,
			KeyPattern: cfg.StarterPattern,
		})
	}
	if cfg.StarterDir != "" {
		return files.DirStarter{Dir: cfg.StarterDir, KeyPattern: cfg.StarterPattern}, nil
	}
	return nil, nil
}
