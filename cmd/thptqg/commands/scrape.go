package commands

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/teppyboy/vn-thptqg-2024/lib/captcha"
	"github.com/teppyboy/vn-thptqg-2024/lib/enumerate"
	"github.com/teppyboy/vn-thptqg-2024/lib/ledger"
	"github.com/teppyboy/vn-thptqg-2024/lib/regions"
	"github.com/teppyboy/vn-thptqg-2024/lib/runjournal"
	"github.com/teppyboy/vn-thptqg-2024/lib/scorelookup"
	"github.com/teppyboy/vn-thptqg-2024/lib/serviceutil"
)

var scrapeRegion *string

func init() {
	scrapeRegion = scrapeCmd.Flags().String("region", "", "scrape a single region instead of all of them")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--region <name>]",
	Short: "Enumerates candidates against the lookup API and appends scores to csv.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			serviceutil.Fatal("read config", err)
		}
		selected, err := selectRegions(*scrapeRegion)
		if err != nil {
			serviceutil.Fatal("select regions", err)
		}

		for _, dir := range []string{cfg.DataDir, cfg.ScratchDir} {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				serviceutil.Fatal("create directory", err)
			}
		}

		journal, err := runjournal.Open(cfg.JournalPath)
		if err != nil {
			serviceutil.Fatal("open run journal", err)
		}
		defer journal.Close()

		solver := captcha.Solver{
			Oracle:     captcha.TesseractOracle{Language: cfg.OcrLanguage},
			ScratchDir: cfg.ScratchDir,
		}

		for _, region := range selected {
			err := scrapeOne(cmd, cfg, region, solver, journal)
			if errors.Is(err, context.Canceled) {
				slog.Info("interrupted, ledgers are safe to resume")
				return
			}
			if err != nil {
				serviceutil.Fatal("region run aborted", err)
			}
		}
		slog.Info("all regions complete")
	},
}

func scrapeOne(cmd *cobra.Command, cfg Config, region regions.Region, solver captcha.Solver, journal runjournal.Journal) error {
	region = cfg.apply(region)
	slog.Info("running region", "region", region.Name)

	// each region gets its own captcha session
	client, err := scorelookup.NewClient(scorelookup.ClientOptions{Host: cfg.Host})
	if err != nil {
		return err
	}

	led, err := ledger.Open(filepath.Join(cfg.DataDir, region.Name+".csv"), region.Subjects)
	if err != nil {
		return err
	}
	defer led.Close()

	driver := &enumerate.Driver{
		Region:  region,
		Client:  client,
		Solver:  solver,
		Ledger:  led,
		Journal: journal,
	}
	return driver.Run(cmd.Context())
}
