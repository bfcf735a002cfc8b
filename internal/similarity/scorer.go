package similarity

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"sync"

	"dupescan/internal/fingerprint"
	"dupescan/internal/fuzzyhash"
	"dupescan/internal/logging"
	"dupescan/internal/services"
	"dupescan/internal/textutil"
)

const stage = "similarity"

// TokenLoader returns the unique token set of a text file.
type TokenLoader func(ctx context.Context, path string) (textutil.TokenSet, error)

// LoadTokens reads path and tokenizes its content.
func LoadTokens(_ context.Context, path string) (textutil.TokenSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return textutil.NewTokenSet(string(data)), nil
}

type rule struct {
	name  string
	score func(ctx context.Context, a, b *fingerprint.Record) (float64, bool)
}

// Scorer computes pairwise similarity scores.
type Scorer struct {
	fuzzy      fuzzyhash.Hasher
	loadTokens TokenLoader
	thresholds Thresholds
	logger     *slog.Logger
	rules      []rule

	mu     sync.Mutex
	tokens map[string]textutil.TokenSet
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithFuzzyHasher sets the adapter used to compare fuzzy hashes.
func WithFuzzyHasher(h fuzzyhash.Hasher) Option {
	return func(s *Scorer) {
		if h != nil {
			s.fuzzy = h
		}
	}
}

// WithTokenLoader replaces the text file reader.
func WithTokenLoader(loader TokenLoader) Option {
	return func(s *Scorer) {
		if loader != nil {
			s.loadTokens = loader
		}
	}
}

// WithThresholds overrides the per-class clustering thresholds.
func WithThresholds(t Thresholds) Option {
	return func(s *Scorer) { s.thresholds = t }
}

// WithLogger sets the logger for recovered failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScorer returns a Scorer with the default rule chain.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		fuzzy:      fuzzyhash.Disabled{},
		loadTokens: LoadTokens,
		thresholds: DefaultThresholds(),
		logger:     logging.NewNop(),
		tokens:     make(map[string]textutil.TokenSet),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "similarity")
	s.rules = []rule{
		{name: "text", score: s.textRule},
		{name: "audio", score: s.audioRule},
		{name: "video", score: s.videoRule},
		{name: "binary", score: s.binaryRule},
		{name: "fallback", score: fallbackRule},
	}
	return s
}

// Score returns the similarity of a and b in [0,100].
func (s *Scorer) Score(ctx context.Context, a, b *fingerprint.Record) float64 {
	score, _ := s.Explain(ctx, a, b)
	return score
}

// Explain returns the score and the name of the rule that produced it.
func (s *Scorer) Explain(ctx context.Context, a, b *fingerprint.Record) (float64, string) {
	for _, r := range s.rules {
		if score, final := r.score(ctx, a, b); final {
			return score, r.name
		}
	}
	return 0, ""
}

// Threshold returns the score a pair seeded by contentType must exceed.
func (s *Scorer) Threshold(contentType string) float64 {
	return s.thresholds.For(contentType)
}

// Qualifies reports whether score strictly exceeds the seed's threshold.
func (s *Scorer) Qualifies(seed *fingerprint.Record, score float64) bool {
	return score > s.Threshold(seed.ContentType)
}

func (s *Scorer) textRule(ctx context.Context, a, b *fingerprint.Record) (float64, bool) {
	if !a.IsText() || !b.IsText() {
		return 0, false
	}
	ta, err := s.tokenSet(ctx, a.Path)
	if err != nil {
		s.warnSimilarity(ctx, a.Path, err)
		return 0, true
	}
	tb, err := s.tokenSet(ctx, b.Path)
	if err != nil {
		s.warnSimilarity(ctx, b.Path, err)
		return 0, true
	}
	return textutil.Jaccard(ta, tb) * 100, true
}

func (s *Scorer) audioRule(ctx context.Context, a, b *fingerprint.Record) (float64, bool) {
	if ClassOf(a.ContentType) != ClassAudio || ClassOf(b.ContentType) != ClassAudio {
		return 0, false
	}
	if score, ok := s.compareFuzzy(ctx, a, b); ok && score > 0 {
		return score, true
	}
	sizeDiff, entropyDiff := diffs(a, b)
	switch {
	case sizeDiff < 0.1 && entropyDiff < 0.1:
		return 85, true
	case sizeDiff < 0.2 && entropyDiff < 0.2:
		return 70, true
	}
	return 0, false
}

func (s *Scorer) videoRule(ctx context.Context, a, b *fingerprint.Record) (float64, bool) {
	if ClassOf(a.ContentType) != ClassVideo || ClassOf(b.ContentType) != ClassVideo {
		return 0, false
	}
	if score, ok := s.compareFuzzy(ctx, a, b); ok && score > 0 {
		return score, true
	}
	sizeDiff, entropyDiff := diffs(a, b)
	switch {
	case sizeDiff < 0.15 && entropyDiff < 0.15:
		return 90, true
	case sizeDiff < 0.3 && entropyDiff < 0.2:
		return 75, true
	case sizeDiff < 0.5 && entropyDiff < 0.25:
		return 60, true
	}
	return 0, false
}

func (s *Scorer) binaryRule(ctx context.Context, a, b *fingerprint.Record) (float64, bool) {
	if ClassOf(a.ContentType) != ClassBinary || ClassOf(b.ContentType) != ClassBinary {
		return 0, false
	}
	if a.FuzzyHash == "" || b.FuzzyHash == "" {
		return 0, false
	}
	score, _ := s.compareFuzzy(ctx, a, b)
	return score, true
}

func fallbackRule(_ context.Context, a, b *fingerprint.Record) (float64, bool) {
	if a.ContentType != b.ContentType || a.Size != b.Size {
		return 0, true
	}
	entropyDiff := math.Abs(a.Entropy - b.Entropy)
	if entropyDiff < 0.01 {
		return 95, true
	}
	return math.Max(0, 100-entropyDiff*1000), true
}

// compareFuzzy returns the adapter score when both hashes are present. ok is
// false when a hash is missing or the comparison failed.
func (s *Scorer) compareFuzzy(ctx context.Context, a, b *fingerprint.Record) (float64, bool) {
	if a.FuzzyHash == "" || b.FuzzyHash == "" {
		return 0, false
	}
	score, err := s.fuzzy.Compare(ctx, a.FuzzyHash, b.FuzzyHash)
	if err != nil {
		if !errors.Is(err, fuzzyhash.ErrDisabled) {
			logging.WarnWithContext(logging.WithContext(ctx, s.logger), "fuzzy hash comparison failed", "fuzzy_compare_failed",
				logging.String("left", a.Path),
				logging.String("right", b.Path),
				logging.Error(err),
				logging.String(logging.FieldImpact, "pair scored without fuzzy hash"),
			)
		}
		return 0, false
	}
	return float64(score), true
}

func (s *Scorer) tokenSet(ctx context.Context, path string) (textutil.TokenSet, error) {
	s.mu.Lock()
	set, ok := s.tokens[path]
	s.mu.Unlock()
	if ok {
		return set, nil
	}
	set, err := s.loadTokens(ctx, path)
	if err != nil {
		return nil, services.Wrap(services.ErrSimilarity, stage, "load tokens", path, err)
	}
	s.mu.Lock()
	s.tokens[path] = set
	s.mu.Unlock()
	return set, nil
}

func (s *Scorer) warnSimilarity(ctx context.Context, path string, err error) {
	logging.WarnWithContext(logging.WithContext(ctx, s.logger), "text similarity unavailable", "similarity_failed",
		logging.String(logging.FieldPath, path),
		logging.Error(err),
		logging.String(logging.FieldImpact, "pair scored 0"),
		logging.String(logging.FieldErrorHint, "check the file is still readable"),
	)
}

// diffs returns the relative size difference and absolute entropy
// difference. Two empty files have no size difference.
func diffs(a, b *fingerprint.Record) (sizeDiff, entropyDiff float64) {
	entropyDiff = math.Abs(a.Entropy - b.Entropy)
	larger := max(a.Size, b.Size)
	if larger == 0 {
		return 0, entropyDiff
	}
	sizeDiff = math.Abs(float64(a.Size-b.Size)) / float64(larger)
	return sizeDiff, entropyDiff
}
