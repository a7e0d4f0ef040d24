package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkoval/horizon/internal/logging"
	"github.com/pkoval/horizon/internal/pipeline"
)

var (
	promoteDate string
	promoteIDs  []string
	promoteAll  bool
	promoteList bool
)

// promoteCmd represents the promote command
var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Promote pending-review rows into the signals master",
	Long: `Promote rows from a run date's pending-review export.

With --list, prints the pending rows and exits. With --ids, promotes
only the named rows; an unknown ID fails the whole command. With --all,
promotes every pending row. Promotion is idempotent: rows already in
the master are skipped.`,
	Example: `  horizon promote --date 2026-08-23 --list
  horizon promote --date 2026-08-23 --ids 3f2a...,9c1b...
  horizon promote --date 2026-08-23 --all`,
	RunE: runPromote,
}

func init() {
	rootCmd.AddCommand(promoteCmd)

	promoteCmd.Flags().StringVar(&promoteDate, "date", "", "run date YYYY-MM-DD (default: today)")
	promoteCmd.Flags().StringSliceVar(&promoteIDs, "ids", nil, "comma-separated signal IDs to promote")
	promoteCmd.Flags().BoolVar(&promoteAll, "all", false, "promote every pending row")
	promoteCmd.Flags().BoolVar(&promoteList, "list", false, "list pending rows without promoting")
}

func runPromote(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	date := promoteDate
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
	}

	log := logging.New(cfg.Output.Verbose)
	p := pipeline.New(cfg, log, nil)

	if promoteList {
		pending, err := p.PendingReview(date)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Printf("No pending rows for %s\n", date)
			return nil
		}
		fmt.Printf("Pending review for %s (%d):\n", date, len(pending))
		for _, rec := range pending {
			fmt.Printf("  %s  [%s/%s]  %s\n", rec.ID, rec.STEEP, rec.Dimension, rec.Title)
		}
		return nil
	}

	if !promoteAll && len(promoteIDs) == 0 {
		return fmt.Errorf("nothing selected: pass --ids, --all or --list")
	}

	promoted, err := p.Promote(date, promoteIDs, promoteAll)
	if err != nil {
		return err
	}
	fmt.Printf("Promoted %d row(s) into the signals master\n", promoted)
	return nil
}
