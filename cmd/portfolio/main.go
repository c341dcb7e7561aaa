package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amandeeptherockstar/portfolio"
	"github.com/amandeeptherockstar/portfolio/content"
)

// version is set at build time via ldflags.
var version = "dev"

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:           "portfolio",
		Short:         "Personal portfolio and MDX blog server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd(), checkCmd(), &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("portfolio %s\n", version)
		},
	})

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var (
		dev  bool
		addr string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Load content and serve the site",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := portfolio.LoadSiteConfig()
			if err != nil {
				return err
			}
			if dev {
				cfg.Env = portfolio.ModeDevelopment
				cfg.Watch = true
			}
			if addr != "" {
				cfg.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := portfolio.New(cfg, portfolio.WithLogger(slog.Default()))
			defer app.Close()

			errCh := make(chan error, 1)
			go func() { errCh <- app.Start(ctx) }()

			select {
			case err := <-errCh:
				return reportBuildErrors(os.Stderr, err)
			case <-ctx.Done():
			}
			slog.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return app.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&dev, "dev", false, "Development mode: list drafts and reload content on change")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides ADDR)")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate every document's front matter without serving",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := portfolio.LoadSiteConfig()
			if err != nil {
				return err
			}
			col, err := content.Load(cmd.Context(), content.Options{
				Root:       cfg.ContentDir,
				Pattern:    cfg.ContentPattern,
				SlugPrefix: cfg.SlugPrefix,
				Logger:     slog.Default(),
			})
			if err != nil {
				return reportBuildErrors(os.Stderr, err)
			}
			drafts := 0
			for _, d := range col.All() {
				if d.Draft {
					drafts++
				}
			}
			fmt.Printf("%d documents (%d drafts) OK\n", col.Len(), drafts)
			for _, slug := range col.Shadowed() {
				fmt.Printf("warning: slug %q is shadowed by an earlier document\n", slug)
			}
			return nil
		},
	}
}

// reportBuildErrors prints every joined BuildError on its own line to w.
func reportBuildErrors(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	var joined interface{ Unwrap() []error }
	if !errors.As(err, &joined) {
		return err
	}
	errs := joined.Unwrap()
	for _, e := range errs {
		fmt.Fprintln(w, e)
	}
	return fmt.Errorf("%d invalid document(s)", len(errs))
}
