// Package service provides the core matching service that implements the
// dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/okian/rematch/internal/adapters/embedding"
	appqueue "github.com/okian/rematch/internal/adapters/mq/queue"
	workerpool "github.com/okian/rematch/internal/adapters/mq/worker"
	"github.com/okian/rematch/internal/adapters/repository"
	"github.com/okian/rematch/internal/domain/dedupe"
	"github.com/okian/rematch/internal/domain/evolution"
	"github.com/okian/rematch/internal/domain/explain"
	"github.com/okian/rematch/internal/domain/model"
	"github.com/okian/rematch/internal/domain/scoring"
	"github.com/okian/rematch/pkg/logger"
	"github.com/okian/rematch/pkg/metrics"
)

// emptyPoolSummary is returned when a job has no candidates to rank.
const emptyPoolSummary = "no applicants yet"

// Match is one ranked candidate with its explanation.
type Match struct {
	model.MatchResult
	Explanation explain.Explanation `json:"explanation"`
}

// MatchReport is the full response of a ranking call.
type MatchReport struct {
	JobID           string         `json:"job_id"`
	Mode            string         `json:"mode"`
	PoolSize        int            `json:"pool_size"`
	Matches         []Match        `json:"matches"`
	Comparison      explain.Report `json:"comparison"`
	Summary         string         `json:"summary"`
	ElapsedMillis   int64          `json:"elapsed_ms"`
	TotalCandidates int            `json:"total_candidates"`
}

// DormantAlert is one rediscovered dormant candidate.
type DormantAlert struct {
	model.MatchResult
	Priority    evolution.Priority  `json:"priority"`
	Explanation explain.Explanation `json:"explanation"`
}

// DormantReport is the full response of a dormant detection sweep.
type DormantReport struct {
	JobID         string                   `json:"job_id"`
	MinScore      float64                  `json:"min_score"`
	Eligible      int                      `json:"eligible_candidates"`
	Alerts        []DormantAlert           `json:"alerts"`
	Summary       evolution.AlertSummary   `json:"summary"`
	Notifications []evolution.Notification `json:"notifications"`
}

// Service implements the API dependencies for the matching system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store     *repository.MemStore
	embedder  embedding.Embedder
	index     embedding.Index
	scorer    *scoring.Scorer
	evolver   *evolution.Engine
	explainer *explain.Generator
	deduper   dedupe.Deduper
	queue     appqueue.Queue
	workers   *workerpool.Pool

	// Configuration
	weights           scoring.Weights
	bands             explain.Bands
	semanticFloor     float64
	defaultTopK       int
	maxTopK           int
	dormantMinScore   float64
	dormancyThreshold time.Duration
	workerCount       int
	queueSize         int
	dedupeSize        int
	embeddingDims     int
	embedMinLatency   time.Duration
	embedMaxLatency   time.Duration
	scorerOpts        []scoring.Option
	evolverOpts       []evolution.Option
	now               func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWeights sets the score composition. The vector must already be
// validated.
func WithWeights(w scoring.Weights) Option {
	return func(s *Service) {
		s.weights = w
	}
}

// WithBands sets the recommendation thresholds.
func WithBands(b explain.Bands) Option {
	return func(s *Service) {
		s.bands = b
	}
}

// WithSemanticFloor sets the score assigned to pool members the vector
// index did not return.
func WithSemanticFloor(floor float64) Option {
	return func(s *Service) {
		if floor >= 0 && floor <= 1 {
			s.semanticFloor = floor
		}
	}
}

// WithTopKBounds sets the default and maximum number of returned matches.
func WithTopKBounds(defaultTopK, maxTopK int) Option {
	return func(s *Service) {
		if defaultTopK > 0 && maxTopK >= defaultTopK {
			s.defaultTopK = defaultTopK
			s.maxTopK = maxTopK
		}
	}
}

// WithDormantMinScore sets the default alert threshold.
func WithDormantMinScore(min float64) Option {
	return func(s *Service) {
		if min >= 0 && min <= 1 {
			s.dormantMinScore = min
		}
	}
}

// WithDormancyThreshold sets how long without an application makes a
// candidate dormant.
func WithDormancyThreshold(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.dormancyThreshold = d
		}
	}
}

// WithWorkerCount sets the number of ingest workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the ingest queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithEmbeddingDimensions sets the embedder's vector size.
func WithEmbeddingDimensions(dims int) Option {
	return func(s *Service) {
		if dims > 0 {
			s.embeddingDims = dims
		}
	}
}

// WithEmbedLatencyRange sets the simulated embedding latency range.
func WithEmbedLatencyRange(min, max time.Duration) Option {
	return func(s *Service) {
		if min >= 0 && max >= min {
			s.embedMinLatency = min
			s.embedMaxLatency = max
		}
	}
}

// WithScorerOptions forwards options to the component scorer.
func WithScorerOptions(opts ...scoring.Option) Option {
	return func(s *Service) {
		s.scorerOpts = append(s.scorerOpts, opts...)
	}
}

// WithEvolutionOptions forwards options to the evolution engine.
func WithEvolutionOptions(opts ...evolution.Option) Option {
	return func(s *Service) {
		s.evolverOpts = append(s.evolverOpts, opts...)
	}
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		weights:           scoring.DefaultWeights(),
		bands:             explain.DefaultBands(),
		semanticFloor:     0.3,
		defaultTopK:       10,
		maxTopK:           100,
		dormantMinScore:   0.6,
		dormancyThreshold: 180 * 24 * time.Hour,
		workerCount:       runtime.NumCPU() * 4,
		queueSize:         10_000,
		dedupeSize:        50_000,
		embeddingDims:     384,
		now:               time.Now,
	}

	// Apply all options
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	if err := s.weights.Validate(); err != nil {
		return err
	}
	if err := s.bands.Validate(); err != nil {
		return err
	}

	s.logger.Info(ctx, "starting matching service...")

	s.store = repository.NewMemStore(
		repository.WithDormancyThreshold(s.dormancyThreshold),
		repository.WithClock(s.now),
	)
	s.embedder = embedding.NewHashEmbedder(
		embedding.WithDimensions(s.embeddingDims),
		embedding.WithSimulatedLatency(s.embedMinLatency, s.embedMaxLatency),
	)
	s.index = embedding.NewMemoryIndex()
	s.scorer = scoring.NewScorer(s.scorerOpts...)
	s.evolver = evolution.NewEngine(append([]evolution.Option{evolution.WithClock(s.now)}, s.evolverOpts...)...)
	s.explainer = explain.NewGenerator(s.weights, explain.WithBands(s.bands))
	s.deduper = dedupe.NewRingDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = appqueue.NewInMemoryQueue(
		appqueue.WithCapacity(s.queueSize),
		appqueue.WithBufferSize(s.queueSize),
	)

	s.workers = workerpool.NewPool(s.workerCount, s.queue, s.store)
	s.workers.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "matching service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("embeddingDims", s.embeddingDims),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping matching service...")

	if s.workers != nil {
		_ = s.workers.Shutdown(ctx)
	}
	if q, ok := s.queue.(*appqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(ctx, "matching service stopped")
}

// AddCandidate stores a candidate and indexes its profile vector. The
// vector is produced first; a candidate is never stored without one, as an
// unindexed profile would silently score at the semantic floor forever.
func (s *Service) AddCandidate(ctx context.Context, c model.Candidate) error {
	if err := c.Validate(); err != nil {
		return err
	}

	vec, err := s.embedder.Embed(ctx, c.ProfileText())
	if err != nil {
		metrics.RecordUpstreamError()
		return fmt.Errorf("%w: embedding candidate %s: %w", embedding.ErrUpstream, c.ID, err)
	}

	if err := s.store.AddCandidate(ctx, c); err != nil {
		return err
	}
	if err := s.index.Upsert(ctx, c.ID, vec); err != nil {
		return err
	}

	s.publishStoreGauges(ctx)
	return nil
}

// AddJob stores a job posting.
func (s *Service) AddJob(ctx context.Context, j model.Job) error {
	if err := s.store.AddJob(ctx, j); err != nil {
		return err
	}
	s.publishStoreGauges(ctx)
	return nil
}

// Candidate returns one stored candidate.
func (s *Service) Candidate(ctx context.Context, id string) (model.Candidate, error) {
	return s.store.Candidate(ctx, id)
}

// Job returns one stored job.
func (s *Service) Job(ctx context.Context, id string) (model.Job, error) {
	return s.store.Job(ctx, id)
}

// SeenAndRecord atomically checks if an application key was seen and
// records it if not. Returns true if the key was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, key string) bool {
	seen := s.deduper.SeenAndRecord(ctx, key)
	if seen {
		metrics.RecordApplicationDuplicate()
	}
	return seen
}

// Unrecord removes an application key from the seen list, allowing it to be
// retried.
func (s *Service) Unrecord(ctx context.Context, key string) {
	s.deduper.Unrecord(ctx, key)
}

// Enqueue submits an application for asynchronous ingest. The candidate and
// job must already exist so a bad submission fails fast instead of dying
// silently in a worker.
func (s *Service) Enqueue(ctx context.Context, a model.Application) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}
	if _, err := s.store.Candidate(ctx, a.CandidateID); err != nil {
		return false, err
	}
	if _, err := s.store.Job(ctx, a.JobID); err != nil {
		return false, err
	}

	if s.SeenAndRecord(ctx, a.Key()) {
		s.logger.Debug(ctx, "duplicate application, skipping",
			logger.String("candidateID", a.CandidateID),
			logger.String("jobID", a.JobID),
		)
		return false, nil
	}

	if !s.queue.Enqueue(ctx, a) {
		// Give the submission back so a retry is not swallowed as a
		// duplicate.
		s.Unrecord(ctx, a.Key())
		return false, ErrQueueFull
	}
	return true, nil
}

// Match ranks the candidate pool of a job and returns the top K with
// explanations.
func (s *Service) Match(ctx context.Context, jobID string, topK int, filter *model.FilterSpec, openSearch bool) (*MatchReport, error) {
	start := s.now()

	mode := "applicants"
	if openSearch {
		mode = "open_search"
	}
	metrics.RecordMatchRequest(mode)

	if err := filter.Validate(); err != nil {
		metrics.RecordMatchingError()
		return nil, err
	}
	topK = s.clampTopK(topK)

	job, err := s.store.Job(ctx, jobID)
	if err != nil {
		metrics.RecordMatchingError()
		return nil, err
	}

	pool, err := s.store.Candidates(ctx, jobID, filter, openSearch)
	if err != nil {
		metrics.RecordMatchingError()
		return nil, err
	}

	report := &MatchReport{
		JobID:    jobID,
		Mode:     mode,
		PoolSize: len(pool),
	}
	if len(pool) == 0 {
		report.Summary = emptyPoolSummary
		report.Comparison = s.explainer.Compare(nil)
		return report, nil
	}

	semantic, err := s.semanticScores(ctx, &job)
	if err != nil {
		return nil, err
	}

	results := s.scorePool(ctx, pool, &job, semantic)

	sort.Slice(results, func(i, j int) bool {
		if results[i].Scores.Total != results[j].Scores.Total {
			return results[i].Scores.Total > results[j].Scores.Total
		}
		return results[i].Candidate.ID < results[j].Candidate.ID
	})

	report.Comparison = s.explainer.Compare(results)
	report.TotalCandidates = len(results)

	if len(results) > topK {
		results = results[:topK]
	}
	report.Matches = make([]Match, 0, len(results))
	for i := range results {
		report.Matches = append(report.Matches, Match{
			MatchResult: results[i],
			Explanation: s.explainer.Explain(&results[i].Candidate, results[i].Scores, nil),
		})
	}
	report.Summary = fmt.Sprintf("ranked %d candidates for %s, returning top %d",
		report.PoolSize, job.Title, len(report.Matches))
	report.ElapsedMillis = time.Since(start).Milliseconds()

	metrics.RecordCandidatesScored(report.PoolSize)
	metrics.RecordScoringLatency(float64(report.ElapsedMillis))
	return report, nil
}

// DetectDormant sweeps the dormant talent pool against a job and raises
// alerts for candidates whose evolution-adjusted score clears minScore.
// minScore <= 0 falls back to the configured default.
func (s *Service) DetectDormant(ctx context.Context, jobID string, minScore float64) (*DormantReport, error) {
	metrics.RecordMatchRequest("dormant")

	if minScore <= 0 {
		minScore = s.dormantMinScore
	}

	job, err := s.store.Job(ctx, jobID)
	if err != nil {
		metrics.RecordMatchingError()
		return nil, err
	}

	dormant, err := s.store.DormantCandidates(ctx)
	if err != nil {
		metrics.RecordMatchingError()
		return nil, err
	}

	// Eligibility: dormant and never applied to this job.
	eligible := dormant[:0]
	for _, c := range dormant {
		if !s.store.HasApplied(ctx, c.ID, jobID) {
			eligible = append(eligible, c)
		}
	}
	metrics.UpdateDormantEligible(len(eligible))

	report := &DormantReport{
		JobID:    jobID,
		MinScore: minScore,
		Eligible: len(eligible),
	}
	if len(eligible) == 0 {
		report.Summary = evolution.Summarize(nil)
		return report, nil
	}

	semantic, err := s.semanticScores(ctx, &job)
	if err != nil {
		return nil, err
	}

	scored := s.scorePool(ctx, eligible, &job, semantic)

	var alerts []model.MatchResult
	for i := range scored {
		rec := s.evolver.Record(&scored[i].Candidate, &job, scored[i].Scores.Total)
		if rec.TotalWithEvolution < minScore {
			continue
		}
		scored[i].Evolution = &rec
		alerts = append(alerts, scored[i])
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].RankScore() != alerts[j].RankScore() {
			return alerts[i].RankScore() > alerts[j].RankScore()
		}
		return alerts[i].Candidate.ID < alerts[j].Candidate.ID
	})

	report.Alerts = make([]DormantAlert, 0, len(alerts))
	for i := range alerts {
		report.Alerts = append(report.Alerts, DormantAlert{
			MatchResult: alerts[i],
			Priority:    evolution.PriorityFor(alerts[i].Evolution.TotalWithEvolution),
			Explanation: s.explainer.Explain(&alerts[i].Candidate, alerts[i].Scores, alerts[i].Evolution),
		})
	}
	report.Summary = evolution.Summarize(alerts)
	report.Notifications = evolution.Notifications(alerts, &job, s.now())

	metrics.RecordDormantAlerts(len(alerts))
	return report, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
	}

	if s.started {
		ctx := context.Background()
		storeStats := s.store.Stats(ctx)
		stats["queueLength"] = s.queue.Len(ctx)
		stats["candidates"] = storeStats.Candidates
		stats["jobs"] = storeStats.Jobs
		stats["applications"] = storeStats.Applications
		stats["dormantCandidates"] = storeStats.Dormant
		stats["indexedVectors"] = s.index.Size()
		stats["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateRepositoryCounts(storeStats.Candidates, storeStats.Jobs, storeStats.Applications, storeStats.Dormant)
	}

	return stats
}

// semanticScores embeds the job once, queries the index once, and returns
// the similarity per candidate ID. Pool members missing from the result
// get the configured floor at lookup time.
func (s *Service) semanticScores(ctx context.Context, job *model.Job) (map[string]float64, error) {
	embedStart := s.now()
	vec, err := s.embedder.Embed(ctx, job.PostingText())
	if err != nil {
		metrics.RecordUpstreamError()
		metrics.RecordErrorByComponent("embedding", "embed_failed")
		return nil, fmt.Errorf("%w: embedding job %s: %w", embedding.ErrUpstream, job.ID, err)
	}

	hits, err := s.index.Search(ctx, vec, 0)
	if err != nil {
		metrics.RecordUpstreamError()
		metrics.RecordErrorByComponent("embedding", "search_failed")
		return nil, fmt.Errorf("%w: searching index for job %s: %w", embedding.ErrUpstream, job.ID, err)
	}
	metrics.RecordSemanticLatency(float64(time.Since(embedStart).Milliseconds()))

	scores := make(map[string]float64, len(hits))
	for _, h := range hits {
		scores[h.CandidateID] = h.Similarity
	}
	return scores, nil
}

// scorePool computes breakdowns for every pool member. Scoring one
// candidate is independent of the rest, so the pool is fanned out across a
// bounded set of goroutines.
func (s *Service) scorePool(ctx context.Context, pool []model.Candidate, job *model.Job, semantic map[string]float64) []model.MatchResult {
	results := make([]model.MatchResult, len(pool))

	parallelism := runtime.NumCPU()
	if parallelism > len(pool) {
		parallelism = len(pool)
	}

	var wg sync.WaitGroup
	work := make(chan int)
	for w := 0; w < parallelism; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				c := pool[i]
				sem, ok := semantic[c.ID]
				if !ok {
					sem = s.semanticFloor
				}
				results[i] = model.MatchResult{
					Candidate: c,
					Scores:    s.scorer.Score(&c, job, sem, s.weights),
				}
			}
		}()
	}
	for i := range pool {
		work <- i
	}
	close(work)
	wg.Wait()

	return results
}

func (s *Service) clampTopK(topK int) int {
	if topK <= 0 {
		return s.defaultTopK
	}
	if topK > s.maxTopK {
		return s.maxTopK
	}
	return topK
}

func (s *Service) publishStoreGauges(ctx context.Context) {
	st := s.store.Stats(ctx)
	metrics.UpdateRepositoryCounts(st.Candidates, st.Jobs, st.Applications, st.Dormant)
}
