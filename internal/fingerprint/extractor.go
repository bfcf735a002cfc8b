package fingerprint

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"dupescan/internal/fuzzyhash"
	"dupescan/internal/logging"
	"dupescan/internal/services"
	"dupescan/internal/textutil"
)

const (
	stage            = "fingerprint"
	defaultChunkSize = 64 * 1024
)

// Extractor fingerprints files.
type Extractor struct {
	digest    string
	chunkSize int
	workers   int
	fuzzy     fuzzyhash.Hasher
	logger    *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithDigest selects the digest algorithm (sha256 or blake3).
func WithDigest(name string) Option {
	return func(e *Extractor) { e.digest = name }
}

// WithChunkSize sets the streaming read size in bytes.
func WithChunkSize(size int) Option {
	return func(e *Extractor) {
		if size > 0 {
			e.chunkSize = size
		}
	}
}

// WithWorkers bounds ExtractAll concurrency.
func WithWorkers(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.workers = n
		}
	}
}

// WithFuzzyHasher sets the adapter used for non-text files.
func WithFuzzyHasher(h fuzzyhash.Hasher) Option {
	return func(e *Extractor) { e.fuzzy = h }
}

// WithLogger sets the logger for degraded-result warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor returns an Extractor; defaults are sha256, 64 KiB chunks,
// one worker per CPU and no fuzzy hashing.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		digest:    DigestSHA256,
		chunkSize: defaultChunkSize,
		workers:   runtime.NumCPU(),
		fuzzy:     fuzzyhash.Disabled{},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.fuzzy == nil {
		e.fuzzy = fuzzyhash.Disabled{}
	}
	e.logger = logging.NewComponentLogger(e.logger, "fingerprint")
	return e
}

// Extract fingerprints the file at path. Unreadable files fail with
// services.ErrIO and unknown digests with services.ErrDigestUnavailable; both
// are fatal. Fuzzy hash failures only leave FuzzyHash empty.
func (e *Extractor) Extract(ctx context.Context, path string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return Record{}, services.Wrap(services.ErrIO, stage, "resolve path", path, err)
	}
	digest, err := NewDigest(e.digest)
	if err != nil {
		return Record{}, err
	}

	record := Record{
		Name:        filepath.Base(abs),
		Path:        abs,
		ContentType: ContentType(abs),
	}

	var hist histogram
	if record.IsText() {
		data, err := os.ReadFile(abs)
		if err != nil {
			return Record{}, services.Wrap(services.ErrIO, stage, "read", abs, err)
		}
		_, _ = hist.Write(data)
		_, _ = io.WriteString(digest, textutil.Normalize(string(data)))
		record.Size = int64(len(data))
	} else {
		size, err := e.stream(abs, io.MultiWriter(digest, &hist))
		if err != nil {
			return Record{}, err
		}
		record.Size = size
	}
	record.Hash = hex.EncodeToString(digest.Sum(nil))
	record.Entropy = hist.Entropy()

	if !record.IsText() {
		record.FuzzyHash = e.fuzzyHash(ctx, abs)
	}
	return record, nil
}

func (e *Extractor) stream(path string, dst io.Writer) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, services.Wrap(services.ErrIO, stage, "open", path, err)
	}
	defer f.Close()

	buf := make([]byte, e.chunkSize)
	n, err := io.CopyBuffer(dst, struct{ io.Reader }{f}, buf)
	if err != nil {
		return 0, services.Wrap(services.ErrIO, stage, "read", path, err)
	}
	return n, nil
}

func (e *Extractor) fuzzyHash(ctx context.Context, path string) string {
	hash, err := e.fuzzy.Compute(ctx, path)
	if err == nil {
		return hash
	}
	if !errors.Is(err, fuzzyhash.ErrDisabled) {
		logging.WarnWithContext(logging.WithContext(ctx, e.logger), "fuzzy hash unavailable", "fuzzy_hash_failed",
			logging.String(logging.FieldPath, path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file compared by size and entropy only"),
			logging.String(logging.FieldErrorHint, "check fuzzy_hash.binary and fuzzy_hash.timeout_seconds"),
		)
	}
	return ""
}

// ExtractAll fingerprints paths on a bounded worker pool. Results keep the
// order of paths. The first fatal error cancels outstanding work and is
// returned without partial results.
func (e *Extractor) ExtractAll(ctx context.Context, paths []string) ([]Record, error) {
	records := make([]Record, len(paths))
	if len(paths) == 0 {
		return records, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, path := range paths {
		g.Go(func() error {
			record, err := e.Extract(gctx, path)
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extract %d files: %w", len(paths), err)
	}
	e.logger.Debug("batch fingerprinted", logging.Int("files", len(paths)))
	return records, nil
}
