package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teppyboy/vn-thptqg-2024/lib/configutil"
	"github.com/teppyboy/vn-thptqg-2024/lib/regions"
	"github.com/teppyboy/vn-thptqg-2024/lib/telemetry"
)

var rootCmd = &cobra.Command{
	Use:   "thptqg",
	Short: "thptqg scrapes THPT national exam scores into per-region csv files.",
}

var verbose *bool

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *verbose {
			telemetry.InitSlog(true)
		}
	}
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Config is the optional config.json5 next to the binary. Every field
// falls back to a sensible default; region overrides apply to all regions.
type Config struct {
	Host        string `json:"host"`
	DataDir     string `json:"data_dir"`
	ScratchDir  string `json:"scratch_dir"`
	JournalPath string `json:"journal_path"`
	OcrLanguage string `json:"ocr_language"`
	PacingMs    int    `json:"pacing_ms"`
	MissBudget  int    `json:"miss_budget"`
}

func loadConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config]("config.json5")
	if os.IsNotExist(err) {
		err = nil
	}
	if err != nil {
		return Config{}, err
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "./data"
	}
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = "./tmp"
	}
	if cfg.JournalPath == "" {
		cfg.JournalPath = "./data/runjournal.db"
	}
	return cfg, nil
}

func (c Config) apply(r regions.Region) regions.Region {
	if c.PacingMs > 0 {
		r.Pacing = time.Duration(c.PacingMs) * time.Millisecond
	}
	if c.MissBudget > 0 {
		r.MissBudget = c.MissBudget
	}
	return r
}

// selectRegions resolves the --region flag against the registry.
func selectRegions(name string) ([]regions.Region, error) {
	if name == "" {
		return regions.All(), nil
	}
	r, err := regions.Get(name)
	if err != nil {
		return nil, err
	}
	return []regions.Region{r}, nil
}
