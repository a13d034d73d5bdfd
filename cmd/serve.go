package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jerilmartin/rankprobe/config"
	"github.com/jerilmartin/rankprobe/internal/api"
	"github.com/jerilmartin/rankprobe/internal/entity"
	"github.com/jerilmartin/rankprobe/internal/fetcher"
	"github.com/jerilmartin/rankprobe/internal/keywords"
	"github.com/jerilmartin/rankprobe/internal/notify"
	"github.com/jerilmartin/rankprobe/internal/pagespeed"
	"github.com/jerilmartin/rankprobe/internal/scan"
	"github.com/jerilmartin/rankprobe/internal/serp"
	"github.com/jerilmartin/rankprobe/internal/technical"
	"github.com/jerilmartin/rankprobe/internal/whois"
)

// serveCmd is the cobra command that starts the rankprobe API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the rankprobe api server",
	Run: func(cmd *cobra.Command, _ []string) {
		err := serve(cmd.Context())
		cobra.CheckErr(err)
	},
}

// init registers the serve command and its flags on the root command
func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.PersistentFlags().String("config", config.DefaultConfigFilePath, "config file location")
}

// serve initializes dependencies and starts the rankprobe API server
func serve(ctx context.Context) error {
	cfgPath := k.String("config")

	cfg, err := config.Load(&cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cfg.Server.Debug = k.Bool("debug")
	cfg.Server.Pretty = k.Bool("pretty")

	pages := setupFetcher(cfg)
	defer pages.Close()

	store := scan.NewMemoryStore(cfg.Scan.MaxStored)
	runner := scan.NewRunner(store, setupPipeline(cfg, pages), runnerOptions(cfg)...)
	runner.Start(ctx)

	handler := api.NewRouter(api.RouterConfig{
		Store:          store,
		Runner:         runner,
		MaxBodySize:    cfg.Server.MaxBodySize,
		RequestTimeout: cfg.Server.WriteTimeout,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Msg("starting rankprobe service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	drainRunner(runner, cfg.Server.ShutdownGracePeriod)

	return nil
}

// drainRunner waits for in-flight scans to finish, bounded by the grace
// period. Probes are never canceled server-side, so a scan mid-flight gets
// its chance to complete before the process exits.
func drainRunner(runner *scan.Runner, grace time.Duration) {
	drained := make(chan struct{})

	go func() {
		runner.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-time.After(grace):
		log.Warn().Msg("shutdown grace period elapsed with scans still running")
	}
}

// runnerOptions builds the scan runner options from config
func runnerOptions(cfg *config.Config) []scan.RunnerOption {
	opts := []scan.RunnerOption{
		scan.WithWorkers(cfg.Scan.Workers),
		scan.WithQueueSize(cfg.Scan.QueueSize),
		scan.WithScanTimeout(cfg.Scan.Timeout),
	}

	if notifier := setupNotifier(cfg); notifier != nil {
		opts = append(opts, scan.WithNotifier(notifier))
	}

	return opts
}

// setupFetcher initializes the page fetcher from config
func setupFetcher(cfg *config.Config) *fetcher.Fetcher {
	return fetcher.New(
		fetcher.WithTimeout(cfg.Fetcher.RequestTimeout),
		fetcher.WithUserAgent(cfg.Fetcher.UserAgent),
		fetcher.WithRender(cfg.Fetcher.Render),
		fetcher.WithRenderTimeout(cfg.Fetcher.RenderTimeout),
		fetcher.WithMinTextChars(cfg.Fetcher.MinTextChars),
	)
}

// setupPipeline wires every configured probe into the scan pipeline.
// Unconfigured providers stay nil; the affected signals degrade to zero
// contribution instead of failing the scan.
func setupPipeline(cfg *config.Config, pages *fetcher.Fetcher) *scan.Pipeline {
	opts := []scan.PipelineOption{
		scan.WithTechnicalChecker(technical.NewChecker(technical.WithUserAgent(cfg.Fetcher.UserAgent))),
		scan.WithPageFetcher(pages),
		scan.WithWhoisResolver(whois.NewResolver(cfg.Whois.APIKey, whois.WithTimeout(cfg.Whois.RequestTimeout))),
		scan.WithMaxKeywords(cfg.Serp.MaxKeywords),
	}

	if psi := setupPagespeed(cfg); psi != nil {
		opts = append(opts, scan.WithPagespeedClient(psi))
	}

	if ent := setupEntity(cfg); ent != nil {
		opts = append(opts, scan.WithEntityClient(ent))
	}

	if analyzer := setupKeywords(cfg); analyzer != nil {
		opts = append(opts, scan.WithKeywordAnalyzer(analyzer))
	}

	return scan.NewPipeline(opts...)
}

// setupPagespeed initializes the performance audit client from config,
// returning nil when unconfigured
func setupPagespeed(cfg *config.Config) *pagespeed.Client {
	if cfg.Pagespeed.APIKey == "" {
		log.Info().Msg("pagespeed audits not configured, skipping")
		return nil
	}

	client, err := pagespeed.New(
		cfg.Pagespeed.APIKey,
		pagespeed.WithHTTPClient(&http.Client{Timeout: cfg.Pagespeed.RequestTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize pagespeed client")
		return nil
	}

	log.Info().Msg("pagespeed audits configured")

	return client
}

// setupEntity initializes the knowledge graph and salience client from
// config, returning nil when unconfigured
func setupEntity(cfg *config.Config) *entity.Client {
	if cfg.Entity.APIKey == "" {
		log.Info().Msg("entity verification not configured, skipping")
		return nil
	}

	client, err := entity.New(
		cfg.Entity.APIKey,
		entity.WithHTTPClient(&http.Client{Timeout: cfg.Entity.RequestTimeout}),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize entity client")
		return nil
	}

	log.Info().Msg("entity verification configured")

	return client
}

// setupKeywords initializes the keyword analyzer from config, returning nil
// when the search provider is unconfigured
func setupKeywords(cfg *config.Config) *keywords.Analyzer {
	if cfg.Serp.APIKey == "" {
		log.Info().Msg("keyword intelligence not configured, skipping")
		return nil
	}

	client, err := serp.New(
		cfg.Serp.APIKey,
		serp.WithTimeout(cfg.Serp.RequestTimeout),
		serp.WithInterval(cfg.Serp.Interval),
		serp.WithCacheTTL(cfg.Serp.CacheTTL),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize serp client")
		return nil
	}

	opts := []keywords.AnalyzerOption{
		keywords.WithLocations(cfg.Serp.Locations),
		keywords.WithSuggester(setupSuggester(cfg, client)),
	}

	if len(cfg.Serp.DomainAliases) > 0 {
		opts = append(opts, keywords.WithAliases(cfg.Serp.DomainAliases))
	}

	log.Info().Msg("keyword intelligence configured")

	return keywords.NewAnalyzer(client, opts...)
}

// setupSuggester orders the suggestion sources: the keyword planner first
// when its credentials are complete, result-page mining as the fallback
func setupSuggester(cfg *config.Config, client *serp.Client) *serp.Suggester {
	if !cfg.Planner.Configured() {
		return serp.NewSuggester(client)
	}

	planner, err := serp.NewPlanner(serp.PlannerCredentials{
		ClientID:       cfg.Planner.ClientID,
		ClientSecret:   cfg.Planner.ClientSecret,
		RefreshToken:   cfg.Planner.RefreshToken,
		DeveloperToken: cfg.Planner.DeveloperToken,
		CustomerID:     cfg.Planner.CustomerID,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize keyword planner")
		return serp.NewSuggester(client)
	}

	log.Info().Msg("keyword planner configured")

	return serp.NewSuggester(planner, client)
}

// setupNotifier initializes the Slack webhook notifier from config,
// returning nil when unconfigured
func setupNotifier(cfg *config.Config) *notify.Client {
	if cfg.Slack.WebhookURL == "" {
		log.Info().Msg("slack notifications not configured, skipping")
		return nil
	}

	client, err := notify.New(
		cfg.Slack.WebhookURL,
		notify.WithTimeout(cfg.Slack.RequestTimeout),
	)
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize slack notifier")
		return nil
	}

	log.Info().Msg("slack notifications configured")

	return client
}
