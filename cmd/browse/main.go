// Command browse boots the headless client against a running site and walks
// a list of paths, printing where each visit landed.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"myeasyevent_front/internal/app"
	"myeasyevent_front/internal/browser"
	"myeasyevent_front/internal/config"
)

const redisStorageKey = "myeasyevent:localStorage"

var rootCmd = &cobra.Command{
	Use:   "browse [paths...]",
	Short: "Walk the My Easy Event front end with the headless client",
	Long: `Boots the client on the first path (default "/"), then navigates to
each following path in turn. Every stop prints the final URL, the view
state and the document title; --dump also prints the whole document.`,
	RunE: runBrowse,
}

func init() {
	rootCmd.Flags().String("origin", "", "asset server origin (overrides ASSET_ORIGIN)")
	rootCmd.Flags().String("backend", "", "backend API root (overrides BACKEND_URL)")
	rootCmd.Flags().Bool("dump", false, "print the document HTML after each visit")
	rootCmd.Flags().Duration("wait", 0, "time to let asynchronous page work settle after each visit")
	rootCmd.Flags().BoolP("verbose", "v", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, loaded := config.Load()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          "browse",
	})
	verbose, _ := cmd.Flags().GetBool("verbose")
	if cfg.Debug || verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if !loaded {
		logger.Debug("no .env file found, using system environment")
	}

	if origin, _ := cmd.Flags().GetString("origin"); origin != "" {
		cfg.AssetOrigin = strings.TrimRight(origin, "/")
	}
	if backend, _ := cmd.Flags().GetString("backend"); backend != "" {
		cfg.BackendURL = backend
	}
	dump, _ := cmd.Flags().GetBool("dump")
	wait, _ := cmd.Flags().GetDuration("wait")

	if len(args) == 0 {
		args = []string{"/"}
	}

	opts := app.FromConfig(cfg, args[0])
	opts.Logger = logger
	if cfg.RedisURL != "" {
		store, err := browser.NewRedisStorage(cfg.RedisURL, redisStorageKey)
		if err != nil {
			return fmt.Errorf("open redis storage: %w", err)
		}
		opts.Local = store
	}

	a, err := app.New(opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	defer a.Close(context.WithoutCancel(ctx))

	if err := a.Boot(ctx); err != nil {
		return fmt.Errorf("boot: %w", err)
	}
	settle(ctx, wait)
	report(cmd.OutOrStdout(), a, dump)

	for _, path := range args[1:] {
		if !a.Visit(ctx, path) {
			logger.Info("already there", "path", path)
		}
		settle(ctx, wait)
		report(cmd.OutOrStdout(), a, dump)
	}
	return nil
}

func settle(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func report(w io.Writer, a *app.App, dump bool) {
	fmt.Fprintf(w, "%s\t%s\t%s\t%q\n", a.Location(), a.Mounter.View(), a.Mounter.State(), a.Window.Document.Title())
	if dump {
		fmt.Fprintln(w, a.Window.Document.HTML())
	}
}
