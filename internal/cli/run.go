package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkoval/horizon/internal/logging"
	"github.com/pkoval/horizon/internal/pipeline"
)

var (
	runCandidates       string
	runDate             string
	runAllowEmptyCorpus bool
	runClassifier       string
	runModel            string
	runWorkers          int
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Triage a candidate batch against the master catalogue",
	Long: `Run one triage batch.

Reads candidates from a JSONL file, scores each against the existing
corpus, decides accept/review/reject, writes the per-date export set
under the output directory, merges accepted signals into the signals
master and synthesizes forces from the accepted set.`,
	Example: `  horizon run --candidates out/2026-08-23/candidates.jsonl
  horizon run --candidates batch.jsonl --date 2026-08-23 --classifier openai
  horizon run --candidates batch.jsonl --allow-empty-corpus`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runCandidates, "candidates", "", "candidates JSONL file (required)")
	runCmd.Flags().StringVar(&runDate, "date", "", "run date YYYY-MM-DD (default: today)")
	runCmd.Flags().BoolVar(&runAllowEmptyCorpus, "allow-empty-corpus", false, "permit a run against an empty corpus")
	runCmd.Flags().StringVar(&runClassifier, "classifier", "", "classifier provider override (rules, openai, none)")
	runCmd.Flags().StringVar(&runModel, "model", "", "classifier model override")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "scoring worker count override")

	_ = runCmd.MarkFlagRequired("candidates")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runAllowEmptyCorpus {
		cfg.Output.AllowEmptyCorpus = true
	}
	if runClassifier != "" {
		if runClassifier == "none" {
			cfg.Classifier.Provider = ""
		} else {
			cfg.Classifier.Provider = runClassifier
		}
	}
	if runModel != "" {
		cfg.Classifier.Model = runModel
	}
	if runWorkers > 0 {
		cfg.Concurrency.ScoringWorkers = runWorkers
	}

	date := runDate
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
	}

	log := logging.New(cfg.Output.Verbose)
	p := pipeline.New(cfg, log, nil)

	summary, err := p.Run(context.Background(), runCandidates, date)
	if err != nil {
		return err
	}

	fmt.Printf("Run %s (%s)\n", summary.Date, summary.RunID)
	fmt.Printf("  Candidates: %d\n", summary.Candidates)
	fmt.Printf("  Accepted:   %d\n", summary.Accepted)
	fmt.Printf("  Review:     %d\n", summary.Review)
	fmt.Printf("  Rejected:   %d\n", summary.Rejected)
	fmt.Printf("  Master:     %d appended\n", summary.MasterAppended)
	fmt.Printf("  Forces:     %d created\n", summary.ForcesCreated)

	if len(summary.ImportanceDistribution) > 0 {
		bins := make([]int, 0, len(summary.ImportanceDistribution))
		for bin := range summary.ImportanceDistribution {
			bins = append(bins, bin)
		}
		sort.Ints(bins)
		fmt.Println("  Importance distance:")
		for _, bin := range bins {
			fmt.Printf("    %2d: %d\n", bin, summary.ImportanceDistribution[bin])
		}
	}

	return nil
}
