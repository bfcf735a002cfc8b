package scan

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"dupescan/internal/categorize"
	"dupescan/internal/cluster"
	"dupescan/internal/config"
	"dupescan/internal/deps"
	"dupescan/internal/fileops"
	"dupescan/internal/fingerprint"
	"dupescan/internal/fuzzyhash"
	"dupescan/internal/logging"
	"dupescan/internal/services"
	"dupescan/internal/similarity"
	"dupescan/internal/store"
)

// Report is the outcome of a scan or a duplicates recomputation.
type Report struct {
	Scan       store.Scan              `json:"scan"`
	Records    []*fingerprint.Record   `json:"-"`
	Clusters   cluster.Result          `json:"clusters"`
	Categories categorize.Index        `json:"categories,omitempty"`
	Organized  *fileops.OrganizeReport `json:"organized,omitempty"`
}

// Scanner runs scans against a store.
type Scanner struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	hasher fuzzyhash.Hasher
	now    func() time.Time
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithFuzzyHasher overrides the hasher built from configuration.
func WithFuzzyHasher(h fuzzyhash.Hasher) Option {
	return func(s *Scanner) { s.hasher = h }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Scanner.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, opts ...Option) *Scanner {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Scanner{
		cfg:    cfg,
		store:  st,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hasher == nil {
		s.hasher = NewHasher(cfg, logger)
	}
	return s
}

// NewHasher builds the fuzzy hasher described by cfg. A configured but
// missing binary degrades to Disabled with a single warning instead of one
// failure per file.
func NewHasher(cfg *config.Config, logger *slog.Logger) fuzzyhash.Hasher {
	if cfg == nil || !cfg.FuzzyHash.Enabled {
		return fuzzyhash.Disabled{}
	}
	for _, status := range deps.Missing(deps.CheckBinaries(deps.Requirements(cfg))) {
		logging.WarnWithContext(logger, "fuzzy hashing disabled", "dependency_missing",
			logging.String("dependency", status.Name),
			logging.String("detail", status.Detail),
			logging.String(logging.FieldImpact, "audio, video and binary files compared by size and entropy only"),
			logging.String(logging.FieldErrorHint, "install ssdeep or set fuzzy_hash.binary"),
		)
		return fuzzyhash.Disabled{}
	}
	return fuzzyhash.NewCLI(cfg.FuzzyHashBinary(),
		fuzzyhash.WithTimeout(time.Duration(cfg.FuzzyHash.TimeoutSeconds)*time.Second),
		fuzzyhash.WithLogger(logger),
	)
}

// Run scans root and persists the result.
func (s *Scanner) Run(ctx context.Context, root string) (*Report, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "scan", "resolve root", root, err)
	}

	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	scan := store.Scan{ID: uuid.NewString(), Root: absRoot, StartedAt: s.now()}
	ctx = services.WithScanID(ctx, scan.ID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(s.logger, "scan"))
	logger.Info("scan started", logging.String("root", absRoot))

	ctx = services.WithStage(ctx, "enumerate")
	paths, err := Enumerate(absRoot, EnumerateOptions{
		Ignore:        s.cfg.Scan.Ignore,
		IncludeHidden: s.cfg.Scan.IncludeHidden,
	})
	if err != nil {
		return nil, err
	}

	ctx = services.WithStage(ctx, "extract")
	extractor := fingerprint.NewExtractor(
		fingerprint.WithDigest(s.cfg.Scan.Digest),
		fingerprint.WithChunkSize(s.cfg.Scan.ChunkSizeKiB*1024),
		fingerprint.WithWorkers(s.cfg.Scan.Workers),
		fingerprint.WithFuzzyHasher(s.hasher),
		fingerprint.WithLogger(s.logger),
	)
	values, err := extractor.ExtractAll(ctx, paths)
	if err != nil {
		if !services.IsFatal(err) {
			logger.Info("scan cancelled", logging.Error(err))
			return nil, err
		}
		logger.Error("scan aborted",
			logging.String(logging.FieldEventType, "scan_aborted"),
			logging.Error(err),
			logging.String(logging.FieldImpact, "no results recorded for this scan"),
		)
		return nil, fmt.Errorf("scan %s: %w", absRoot, err)
	}
	records := make([]*fingerprint.Record, len(values))
	for i := range values {
		records[i] = &values[i]
	}

	report := &Report{Records: records}
	if s.cfg.Categorization.Organize {
		ctx = services.WithStage(ctx, "organize")
		organized, err := fileops.Organize(ctx, records, absRoot, s.cfg.Categorization.OrganizeCategories, s.logger)
		if err != nil {
			return nil, err
		}
		report.Organized = &organized
	}
	if s.cfg.Categorization.Enabled {
		report.Categories = categorize.FromConfig(s.cfg.Categorization).Apply(records)
	}

	ctx = services.WithStage(ctx, "detect")
	report.Clusters = cluster.Detect(ctx, records, s.scorer(), s.logger)

	ctx = services.WithStage(ctx, "persist")
	scan.FinishedAt = s.now()
	if err := s.store.SaveScan(ctx, scan, records); err != nil {
		return nil, fmt.Errorf("persist scan: %w", err)
	}
	scan.FileCount = len(records)
	report.Scan = scan

	logger.Info("scan complete",
		logging.Int("files", len(records)),
		logging.Int("clusters", report.Clusters.Len()),
		logging.Duration("elapsed", scan.Duration()),
	)
	return report, nil
}

// Duplicates recomputes clusters for a stored scan; an empty scanID selects
// the latest scan. Stored similarity scores are cleared first so the result
// matches a fresh scan of the same records.
func (s *Scanner) Duplicates(ctx context.Context, scanID string) (*Report, error) {
	var (
		scan *store.Scan
		err  error
	)
	if scanID == "" {
		scan, err = s.store.LatestScan(ctx)
	} else {
		scan, err = s.store.Scan(ctx, scanID)
	}
	if err != nil {
		return nil, err
	}
	records, err := s.store.Files(ctx, scan.ID)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		record.SimilarityScore = 0
	}

	ctx = services.WithStage(services.WithScanID(ctx, scan.ID), "detect")
	result := cluster.Detect(ctx, records, s.scorer(), s.logger)
	return &Report{
		Scan:       *scan,
		Records:    records,
		Clusters:   result,
		Categories: categorize.BuildIndex(records),
	}, nil
}

func (s *Scanner) scorer() *similarity.Scorer {
	return similarity.NewScorer(
		similarity.WithFuzzyHasher(s.hasher),
		similarity.WithThresholds(similarity.ThresholdsFromConfig(s.cfg.Similarity)),
		similarity.WithLogger(s.logger),
	)
}

func (s *Scanner) lock() (func(), error) {
	if err := s.cfg.EnsureDirectories(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "scan", "lock", "ensure data directory", err)
	}
	fileLock := flock.New(s.cfg.LockPath())
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "scan", "lock", s.cfg.LockPath(), err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrScanInProgress, "scan", "lock",
			"another scan holds "+s.cfg.LockPath(), nil)
	}
	return func() {
		if err := fileLock.Unlock(); err != nil {
			s.logger.Debug("scan lock release failed", logging.Error(err))
		}
	}, nil
}
