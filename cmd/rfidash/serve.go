package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/rfidash/internal/auth"
	"github.com/erazemk/rfidash/internal/metrics"
	"github.com/erazemk/rfidash/internal/reader"
	"github.com/erazemk/rfidash/internal/rfidapi"
	"github.com/erazemk/rfidash/internal/web"
)

type serveFlags struct {
	addr                 string
	apiURL               string
	apiTimeout           time.Duration
	sessionSecret        string
	legacyDeleteReenters bool
	rfidRateLimit        string
	secureCookies        bool
}

func serveCmd(g *globalFlags) *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, g, f)
		},
	}

	cmd.Flags().StringVarP(&f.addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&f.apiURL, "api-url", "http://localhost:8000", "inventory service base URL")
	cmd.Flags().DurationVar(&f.apiTimeout, "api-timeout", 15*time.Second, "timeout of inventory service requests")
	cmd.Flags().StringVar(&f.sessionSecret, "session-secret", "", "session signing key (generated if empty)")
	cmd.Flags().BoolVar(&f.legacyDeleteReenters, "legacy-delete-reenters", false, "make delete re-enter items like older dashboards")
	cmd.Flags().StringVar(&f.rfidRateLimit, "rfid-rate-limit", "30-M", "reader actions allowed per client (e.g. 30-M)")
	cmd.Flags().BoolVar(&f.secureCookies, "secure-cookies", false, "mark cookies Secure (serve behind TLS)")
	return cmd
}

func runServe(cmd *cobra.Command, g *globalFlags, f *serveFlags) error {
	cfg, closeLog, err := g.load(cmd)
	if err != nil {
		return err
	}
	defer closeLog()

	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = f.addr
	}
	if flags.Changed("api-url") {
		cfg.APIURL = f.apiURL
	}
	if flags.Changed("api-timeout") {
		cfg.APITimeout = f.apiTimeout
	}
	if flags.Changed("session-secret") {
		cfg.SessionSecret = f.sessionSecret
	}
	if flags.Changed("legacy-delete-reenters") {
		cfg.LegacyDeleteReenters = f.legacyDeleteReenters
	}
	if flags.Changed("secure-cookies") {
		cfg.SecureCookies = f.secureCookies
	}
	if flags.Changed("rfid-rate-limit") {
		cfg.RFIDRateLimit = f.rfidRateLimit
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Sessions do not survive a restart without a configured secret.
	if cfg.SessionSecret == "" {
		secret, err := auth.GenerateSecret()
		if err != nil {
			return err
		}
		cfg.SessionSecret = secret
		slog.Info("no session secret configured, generated one for this run")
	}

	m := metrics.New()
	client := rfidapi.New(cfg.APIURL, rfidapi.WithHTTPClient(&http.Client{
		Timeout:   cfg.APITimeout,
		Transport: m.RoundTripper(nil),
	}))

	handler, err := web.NewRouter(web.Options{
		API:                  client,
		Reader:               reader.New(client),
		Sessions:             auth.NewManager(cfg.SessionSecret),
		Metrics:              m,
		LegacyDeleteReenters: cfg.LegacyDeleteReenters,
		SecureCookies:        cfg.SecureCookies,
		RFIDRateLimit:        cfg.RFIDRateLimit,
	})
	if err != nil {
		return err
	}

	slog.Info("dashboard configured", "api_url", client.BaseURL(), "api_timeout", cfg.APITimeout)
	return listenAndServe(newServer(cfg.Addr, handler), nil)
}
