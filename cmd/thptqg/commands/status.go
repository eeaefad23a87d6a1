package commands

import (
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/teppyboy/vn-thptqg-2024/lib/ledger"
	"github.com/teppyboy/vn-thptqg-2024/lib/runjournal"
	"github.com/teppyboy/vn-thptqg-2024/lib/serviceutil"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Prints each region's resume point and outcome counts.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			serviceutil.Fatal("read config", err)
		}
		selected, err := selectRegions("")
		if err != nil {
			serviceutil.Fatal("select regions", err)
		}

		journal, err := runjournal.Open(cfg.JournalPath)
		if err != nil {
			serviceutil.Fatal("open run journal", err)
		}
		defer journal.Close()

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"Region", "Last ID", "Found", "Not found", "Bad captcha", "Transient"})

		for _, region := range selected {
			lastID, ok, err := ledger.LastRecordedID(filepath.Join(cfg.DataDir, region.Name+".csv"))
			if err != nil {
				serviceutil.Fatal("read ledger", err)
			}
			resume := "-"
			if ok {
				resume = region.FormatID(lastID)
			}

			counts, err := journal.Summarize(cmd.Context(), region.Name)
			if err != nil {
				serviceutil.Fatal("summarize journal", err)
			}

			t.AppendRow(table.Row{
				region.Name,
				resume,
				counts["found"],
				counts["not_found"],
				counts["invalid_captcha"],
				counts["transient_failure"],
			})
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
	},
}
