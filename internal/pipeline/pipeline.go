package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pkoval/horizon/internal/cache"
	"github.com/pkoval/horizon/internal/classify"
	"github.com/pkoval/horizon/internal/decide"
	"github.com/pkoval/horizon/internal/index"
	"github.com/pkoval/horizon/internal/logging"
	"github.com/pkoval/horizon/internal/model"
	"github.com/pkoval/horizon/internal/score"
	"github.com/pkoval/horizon/internal/store"
	"github.com/pkoval/horizon/internal/synthesis"
	"github.com/pkoval/horizon/internal/worker"
)

// Pipeline runs one triage batch: similarity, scoring, decisions,
// calibration, exports, master merge and force synthesis. All writes to
// persisted state happen after every candidate is fully scored.
type Pipeline struct {
	cfg        *model.Config
	log        zerolog.Logger
	classifier classify.Classifier
}

// New creates a pipeline. A nil classifier means one is built from the
// configuration once the taxonomy is known; passing one explicitly
// overrides that.
func New(cfg *model.Config, log zerolog.Logger, classifier classify.Classifier) *Pipeline {
	return &Pipeline{cfg: cfg, log: log, classifier: classifier}
}

// buildClassifier resolves the classifier for a run, wrapping it with the
// verdict cache when caching is enabled.
func (p *Pipeline) buildClassifier(taxonomy model.Taxonomy) (classify.Classifier, error) {
	if p.classifier != nil {
		return p.classifier, nil
	}

	clf, err := classify.New(p.cfg.Classifier, taxonomy)
	if err != nil || clf == nil {
		return nil, err
	}
	if p.cfg.Cache.Enabled {
		verdicts := cache.NewLayeredStore(p.cfg.Cache.MemoryTTL, p.cfg.Cache.Dir, p.cfg.Cache.DiskTTL)
		return classify.NewCached(clf, verdicts), nil
	}
	return clf, nil
}

// Run processes one candidate batch for the given run date. Deterministic
// given identical inputs: identical candidates, corpus and configuration
// produce identical scores, decisions and exports.
func (p *Pipeline) Run(ctx context.Context, candidatesPath, runDate string) (*model.RunSummary, error) {
	lock, err := store.AcquireRunLock(p.cfg.Paths.DataDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	runLog, err := logging.NewRunLog(p.cfg.Paths.DataDir, runDate)
	if err != nil {
		return nil, err
	}
	defer func() { _ = runLog.Close() }()

	runID := uuid.New().String()
	runLog.Event("run_start").Str("run_id", runID).Send()

	corpus, taxonomy, err := store.LoadCorpus(p.cfg.Paths.CorpusFile)
	if err != nil {
		return nil, err
	}
	if len(corpus) == 0 && !p.cfg.Output.AllowEmptyCorpus {
		return nil, fmt.Errorf("build index from %s: %w", p.cfg.Paths.CorpusFile, index.ErrEmptyCorpus)
	}
	idx := index.New(corpus, index.StrategyInverted)
	p.log.Info().Int("records", idx.Len()).Msg("similarity index built")
	runLog.Event("index_built").Int("corpus_records", idx.Len()).Send()

	sources, err := p.loadSources()
	if err != nil {
		return nil, err
	}

	candidates, err := LoadCandidates(candidatesPath)
	if err != nil {
		return nil, err
	}
	runLog.Event("candidates_loaded").Int("count", len(candidates)).Send()

	classifier, err := p.buildClassifier(taxonomy)
	if err != nil {
		return nil, err
	}
	p.normalizeAll(ctx, candidates, taxonomy, classifier)

	scored, err := p.scoreAll(ctx, candidates, sources, idx, taxonomy)
	if err != nil {
		return nil, err
	}

	decider := decide.NewDecider(p.cfg.Thresholds)
	for _, sc := range scored {
		decision, rationale := decider.Decide(sc.Scores, sc.Similarity.Duplicate)
		sc.Scores.Decision = decision
		sc.Scores.Rationale = sc.Scores.Rationale + "; " + rationale
	}
	decider.Calibrate(scored)

	now := time.Now().UTC().Format(time.RFC3339)
	rows := make([]model.MasterRecord, len(scored))
	for i, sc := range scored {
		rows[i] = signalRecord(sc, taxonomy.ProjectID, now)
	}

	exportDir := filepath.Join(p.cfg.Paths.OutputDir, runDate)
	if err := writeExports(exportDir, scored, rows); err != nil {
		return nil, err
	}
	runLog.Event("exports_written").Str("dir", exportDir).Send()

	var acceptedRows []model.MasterRecord
	for i, sc := range scored {
		if sc.Scores.Decision == model.DecisionAccept {
			acceptedRows = append(acceptedRows, rows[i])
		}
	}

	appended, err := p.appendToMaster(p.cfg.Paths.MasterFile, acceptedRows)
	if err != nil {
		return nil, err
	}
	runLog.Event("master_append").Int("appended", appended).Send()

	forces, err := p.synthesizeForces(acceptedRows, taxonomy.ProjectID, now, exportDir)
	if err != nil {
		return nil, err
	}
	runLog.Event("synthesis_complete").Int("forces", len(forces)).Send()

	summary := buildSummary(runDate, runID, scored, appended, len(forces))
	runLog.Event("run_end").
		Int("candidates", summary.Candidates).
		Int("accept", summary.Accepted).
		Int("review", summary.Review).
		Int("reject", summary.Rejected).
		Send()

	return summary, nil
}

// loadSources reads the source list; a missing file means an empty list
// (every candidate falls back to tier C), anything else is fatal.
func (p *Pipeline) loadSources() ([]model.Source, error) {
	if _, err := os.Stat(p.cfg.Paths.SourcesFile); os.IsNotExist(err) {
		p.log.Warn().Str("path", p.cfg.Paths.SourcesFile).Msg("sources file missing, defaulting all tiers to C")
		return nil, nil
	}
	return store.LoadSources(p.cfg.Paths.SourcesFile)
}

// normalizeAll repairs candidate classification in place, consulting the
// classifier only for candidates normalization cannot fill on its own.
// Classifier failures degrade to defaults; they never abort the batch.
func (p *Pipeline) normalizeAll(ctx context.Context, candidates []model.Candidate, taxonomy model.Taxonomy, classifier classify.Classifier) {
	for i := range candidates {
		var verdict classify.Verdict
		if classifier != nil && needsClassifier(&candidates[i], taxonomy) {
			v, err := classifier.Classify(ctx, classify.Request{
				ContentHash: candidates[i].ContentHash,
				Title:       candidates[i].Title,
				Summary:     candidates[i].ClaimSummary,
				STEEP:       candidates[i].ProposedSTEEP,
				Dimension:   candidates[i].ProposedDimension,
				Tags:        candidates[i].ProposedTags,
			})
			if err != nil {
				p.log.Warn().Err(err).Str("candidate", candidates[i].CandidateID).Msg("classifier failed, using defaults")
			} else {
				verdict = v
			}
		}
		normalizeCandidate(&candidates[i], taxonomy, verdict)
	}
}

// scoreJob scores one candidate against the index. Pure per-slot work;
// the pool writes results back by slot so parallel output matches
// sequential output exactly.
type scoreJob struct {
	slot         int
	cand         model.Candidate
	tier         model.SourceTier
	idx          *index.Index
	scorer       *score.Scorer
	dupThreshold float64
}

type scoreResult struct {
	scored *model.ScoredCandidate
}

func (r *scoreResult) GetError() error { return nil }

func (j *scoreJob) Slot() int { return j.slot }

func (j *scoreJob) Execute(_ context.Context) worker.Result {
	sim := j.idx.Query(j.cand.QueryText(), 5)
	sim.Duplicate = sim.MaxSimilarity >= j.dupThreshold

	bundle := j.scorer.Score(j.cand, sim, j.tier)

	return &scoreResult{scored: &model.ScoredCandidate{
		Candidate:  j.cand,
		Similarity: sim,
		Scores:     bundle,
		Tier:       j.tier,
	}}
}

func (p *Pipeline) scoreAll(ctx context.Context, candidates []model.Candidate, sources []model.Source, idx *index.Index, taxonomy model.Taxonomy) ([]*model.ScoredCandidate, error) {
	scorer := score.NewScorer(p.cfg.Weights, p.cfg.Thresholds.DuplicateSimilarity, taxonomy)
	pool := worker.NewPool(p.cfg.Concurrency.ScoringWorkers)

	jobs := make([]worker.Job, len(candidates))
	for i, cand := range candidates {
		jobs[i] = &scoreJob{
			slot:         i,
			cand:         cand,
			tier:         store.TierFor(sources, cand.SourceName),
			idx:          idx,
			scorer:       scorer,
			dupThreshold: p.cfg.Thresholds.DuplicateSimilarity,
		}
	}

	results, err := pool.Run(ctx, jobs)
	if err != nil {
		return nil, fmt.Errorf("score batch: %w", err)
	}

	scored := make([]*model.ScoredCandidate, len(results))
	for i, res := range results {
		scored[i] = res.(*scoreResult).scored
	}
	return scored, nil
}

// appendToMaster merges rows into a master file and persists only when
// something was actually appended.
func (p *Pipeline) appendToMaster(path string, rows []model.MasterRecord) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	masterStore := store.NewMasterStore(path)
	existing, err := masterStore.Load()
	if err != nil {
		return 0, err
	}

	merged, appended := store.Merge(existing, rows)
	if appended == 0 {
		return 0, nil
	}
	if err := masterStore.Save(merged); err != nil {
		return 0, err
	}
	return appended, nil
}

// synthesizeForces clusters the run's accepted rows, exports the new
// forces and merges them into the forces master.
func (p *Pipeline) synthesizeForces(acceptedRows []model.MasterRecord, projectID, now, exportDir string) ([]model.MasterRecord, error) {
	synth := synthesis.NewSynthesizer(p.cfg.Thresholds.SynthesisLinkMinScore)
	forces := synth.Synthesize(acceptedRows, projectID, now)
	if len(forces) == 0 {
		return nil, nil
	}

	if err := writeMasterCSV(filepath.Join(exportDir, "forces.csv"), forces); err != nil {
		return nil, err
	}
	if _, err := p.appendToMaster(p.cfg.Paths.ForcesFile, forces); err != nil {
		return nil, err
	}
	return forces, nil
}

// signalRecord converts a scored candidate into a master-schema signal
// row. The ID derives from the content hash so re-running the same batch
// merges as duplicates instead of doubling the master.
func signalRecord(sc *model.ScoredCandidate, projectID, now string) model.MasterRecord {
	impact := 7.0
	magnitude := math.Round(sc.Scores.PriorityIndex*10) / 100
	distance := sc.Scores.ImportanceDistance

	text := strings.TrimSpace(sc.Candidate.ClaimSummary + " " + sc.Candidate.WhyItMatters)
	if text == "" {
		text = sc.Candidate.Title
	}

	return model.MasterRecord{
		ID:        signalID(sc.Candidate),
		ProjectID: projectID,
		Title:     sc.Candidate.Title,
		Type:      model.RecordType(sc.Candidate.TypeSuggested),
		STEEP:     sc.Candidate.ProposedSTEEP,
		Dimension: sc.Candidate.ProposedDimension,
		Scope:     "signals",
		Impact:    &impact,
		Sentiment: "Neutral",
		Source:    sc.Candidate.CanonicalURL,
		Tags:      sc.Candidate.ProposedTags,
		Text:      text,
		Magnitude: &magnitude,
		Distance:  &distance,
		ColorHex:  model.DefaultSignalColor,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func signalID(cand model.Candidate) string {
	seed := cand.ContentHash
	if seed == "" {
		seed = cand.CandidateID
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("horizon-signal:"+seed)).String()
}

func buildSummary(runDate, runID string, scored []*model.ScoredCandidate, appended, forces int) *model.RunSummary {
	summary := &model.RunSummary{
		Date:                   runDate,
		RunID:                  runID,
		Candidates:             len(scored),
		MasterAppended:         appended,
		ForcesCreated:          forces,
		ImportanceDistribution: make(map[int]int),
	}
	for _, sc := range scored {
		switch sc.Scores.Decision {
		case model.DecisionAccept:
			summary.Accepted++
		case model.DecisionReview:
			summary.Review++
		case model.DecisionReject:
			summary.Rejected++
		}
		summary.ImportanceDistribution[sc.Scores.ImportanceDistance]++
	}
	return summary
}
