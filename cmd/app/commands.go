package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cutekitek/challenge-console/internal/config"
	"github.com/cutekitek/challenge-console/internal/files"
	"github.com/cutekitek/challenge-console/internal/navigation"
	"github.com/cutekitek/challenge-console/internal/repository/dto"
	"github.com/cutekitek/challenge-console/pkg/shell"
	"github.com/cutekitek/challenge-console/pkg/utils"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

const (
	watchInterval = 500 * time.Millisecond
	watchMinGap   = time.Second
)

type rootOptions struct {
	envFile   string
	logLevel  string
	assumeYes bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "challenge-console",
		Short:         "Run and submit challenge solutions from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "file with configuration variables")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "overrides LOG_LEVEL")
	cmd.PersistentFlags().BoolVarP(&opts.assumeYes, "yes", "y", false, "answer yes to every confirmation")

	cmd.AddCommand(
		newRunCmd(opts),
		newSubmitCmd(opts),
		newResetCmd(opts),
		newOpenCmd(opts),
	)
	return cmd
}

func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	setLogLevel(cfg.LogLevel)
	return cfg, nil
}

func newRunCmd(opts *rootOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Execute the code in a file without grading it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, appOptions{codePath: args[0], assumeYes: opts.assumeYes})
			if err != nil {
				return err
			}
			defer a.Close()

			if watch {
				return a.watch(cmd.Context(), rate.NewLimiter(rate.Every(watchMinGap), 1), watchInterval)
			}
			return verdict(a.playground.ExecuteEditor(cmd.Context()))
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "execute again every time the file changes")
	return cmd
}

func newSubmitCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <challenge-id> <file>",
		Short: "Submit the code in a file as the solution of a challenge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			challengeId, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, appOptions{codePath: args[1], challengeId: challengeId, assumeYes: opts.assumeYes})
			if err != nil {
				return err
			}
			defer a.Close()

			result := a.playground.SubmitEditor(cmd.Context(), challengeId)
			// let the deferred reload run before the process exits
			a.playground.Wait()
			return verdict(result)
		},
	}
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <challenge-id> <file>",
		Short: "Replace the file with the starter code of a challenge",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			challengeId, err := utils.ParseID(args[0])
			if err != nil {
				return err
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			a, err := newApp(cfg, appOptions{codePath: args[1], challengeId: challengeId, assumeYes: opts.assumeYes})
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.playground.Reset(cmd.Context(), challengeId)
			if err != nil {
				return err
			}
			if result.State == dto.StateAborted {
				slog.Info("reset skipped", "challenge", challengeId)
			}
			return nil
		},
	}
}

func newOpenCmd(opts *rootOptions) *cobra.Command {
	var browser bool
	cmd := &cobra.Command{
		Use:       "open <challenge|week> <n>",
		Short:     "Print or open the page of a challenge or a week",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"challenge", "week"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			url, err := pageURL(navigation.NewSite(cfg.BaseURL), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), url)
			if browser {
				return errors.Wrap(shell.OpenURL(url), "failed to open browser")
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&browser, "browser", "b", false, "open the page in the default browser")
	return cmd
}

func pageURL(site navigation.Site, kind, n string) (string, error) {
	switch kind {
	case "challenge":
		challengeId, err := utils.ParseID(n)
		if err != nil {
			return "", err
		}
		return site.ChallengeURL(challengeId), nil
	case "week":
		week, err := utils.ParseWeek(n)
		if err != nil {
			return "", err
		}
		return site.WeekURL(week), nil
	default:
		return "", errors.Errorf("unknown page kind %q, expected challenge or week", kind)
	}
}

// verdict turns a display result into the command's exit status.
func verdict(result dto.DisplayResult) error {
	switch result.State {
	case dto.StateError, dto.StateWarning:
		return errFailed
	}
	return nil
}

// watch executes the file once and then again after every modification.
// limiter bounds how often a burst of saves triggers a run. On exit the
// latest run decides the verdict, as with a single run.
func (a *app) watch(ctx context.Context, limiter *rate.Limiter, interval time.Duration) error {
	editor, ok := a.editor.(*files.FileEditor)
	if !ok {
		return errors.New("watch needs a file editor")
	}
	last, err := editor.ModTime()
	if err != nil {
		return err
	}
	result := a.playground.ExecuteEditor(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return verdict(result)
		case <-ticker.C:
		}
		mod, err := editor.ModTime()
		if err != nil {
			slog.Warn("failed to stat code file", "path", editor.Path, "error", err)
			continue
		}
		if mod == last {
			continue
		}
		last = mod
		if err := limiter.Wait(ctx); err != nil {
			return verdict(result)
		}
		result = a.playground.ExecuteEditor(ctx)
	}
}
