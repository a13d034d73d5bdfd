package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jerilmartin/rankprobe/config"
	"github.com/jerilmartin/rankprobe/internal/scan"
)

// pollInterval is how often the progress display refreshes
const pollInterval = 200 * time.Millisecond

// scanCmd is the cobra command that runs a single scan inline
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "run a single scan and print the result as JSON",
	Run: func(cmd *cobra.Command, _ []string) {
		err := runScan(cmd.Context())
		cobra.CheckErr(err)
	},
}

// init registers the scan command and its flags on the root command
func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().String("url", "", "page or domain to assess")
	scanCmd.Flags().Duration("timeout", 0, "bound for the whole scan, overrides config when set")
	scanCmd.Flags().String("config", config.DefaultConfigFilePath, "config file location")

	cobra.CheckErr(scanCmd.MarkFlagRequired("url"))
}

// runScan drives one scan through the same pipeline the server uses and
// prints the resulting assessment.
func runScan(ctx context.Context) error {
	cfgPath := k.String("config")

	cfg, err := config.Load(&cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if timeout := k.Duration("timeout"); timeout > 0 {
		cfg.Scan.Timeout = timeout
	}

	// keep the progress line readable unless debug logging was asked for
	if !k.Bool("debug") {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	pages := setupFetcher(cfg)
	defer pages.Close()

	store := scan.NewMemoryStore(1)
	runner := scan.NewRunner(store, setupPipeline(cfg, pages),
		scan.WithWorkers(1),
		scan.WithQueueSize(1),
		scan.WithScanTimeout(cfg.Scan.Timeout),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	runner.Start(runCtx)

	id, err := runner.Submit(k.String("url"))
	if err != nil {
		return err
	}

	sc := pollUntilTerminal(ctx, store, id)

	cancel()
	runner.Wait()

	if !sc.Status.Terminal() {
		return errors.New("scan interrupted")
	}

	if sc.Status == scan.StatusFailed {
		return fmt.Errorf("scan failed: %s", sc.ErrorMessage)
	}

	out, err := json.MarshalIndent(sc.Result, "", "  ")
	if err != nil {
		return fmt.Errorf("rendering result: %w", err)
	}

	fmt.Println(string(out))

	return nil
}

// pollUntilTerminal animates scan progress until the scan reaches a terminal
// state or ctx is canceled, returning the last observed record.
func pollUntilTerminal(ctx context.Context, store scan.Store, id string) scan.Scan {
	spin := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	spin.Suffix = " starting scan"
	spin.Start()

	defer spin.Stop()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sc, _ := store.Get(id)
			return sc
		case <-ticker.C:
			sc, ok := store.Get(id)
			if !ok {
				continue
			}

			if sc.Status.Terminal() {
				return sc
			}

			if sc.CurrentStep != "" {
				spin.Suffix = fmt.Sprintf(" %s (%d%%)", sc.CurrentStep, sc.Progress)
			}
		}
	}
}
