package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkoval/horizon/internal/rotation"
	"github.com/pkoval/horizon/internal/store"
)

var (
	rotateDate    string
	rotateAdvance bool
	rotateFull    bool
)

// rotateCmd represents the rotate command
var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Show or advance the daily source rotation",
	Long: `Show the source batch the rotation would select for a date.

Without --advance this is read-only: it prints the cycle position and
the batch window without touching the rotation state. With --advance
the batch is selected and the state file is moved to the start of the
next batch. Re-running --advance for the same date replays the same
batch and leaves the state unchanged.`,
	Example: `  horizon rotate
  horizon rotate --date 2026-08-23 --advance`,
	RunE: runRotate,
}

func init() {
	rootCmd.AddCommand(rotateCmd)

	rotateCmd.Flags().StringVar(&rotateDate, "date", "", "rotation date YYYY-MM-DD (default: today)")
	rotateCmd.Flags().BoolVar(&rotateAdvance, "advance", false, "select the batch and persist the advanced state")
	rotateCmd.Flags().BoolVar(&rotateFull, "full", false, "list every source instead of the day's batch; state untouched")
}

func runRotate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	date := rotateDate
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
	}

	sources, err := store.LoadSources(cfg.Paths.SourcesFile)
	if err != nil {
		return err
	}
	state, err := store.LoadRotationState(cfg.Paths.RotationFile)
	if err != nil {
		return err
	}

	sched := rotation.NewScheduler(cfg.Rotation.BatchSize)

	if rotateFull {
		all := sched.FullSweep(sources)
		fmt.Printf("Full sweep (%d sources):\n", len(all))
		for _, src := range all {
			fmt.Printf("  [%s] %s\n", src.Tier, src.Name)
		}
		return nil
	}

	info := sched.Describe(sources, state, date)

	fmt.Printf("Rotation for %s\n", date)
	fmt.Printf("  Sources:   %d total, batch size %d\n", info.TotalSources, info.BatchSize)
	fmt.Printf("  Cycle:     day %d of %d\n", info.DayInCycle, info.TotalDaysInCycle)
	fmt.Printf("  Offset:    %d\n", info.Offset)

	batch, next := sched.NextBatch(sources, state, date)
	fmt.Printf("  Batch (%d):\n", len(batch))
	for _, src := range batch {
		fmt.Printf("    [%s] %s\n", src.Tier, src.Name)
	}

	if !rotateAdvance {
		return nil
	}

	if err := store.SaveRotationState(cfg.Paths.RotationFile, next); err != nil {
		return err
	}
	fmt.Printf("  State advanced: offset %d, date %s\n", next.LastOffset, next.LastDate)
	return nil
}
