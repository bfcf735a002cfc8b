package similarity

import (
	"context"
	"errors"
	"math"
	"testing"

	"dupescan/internal/fingerprint"
	"dupescan/internal/services"
	"dupescan/internal/textutil"
)

type stubHasher struct {
	score int
	err   error
	calls int
}

func (s *stubHasher) Compute(context.Context, string) (string, error) { return "", nil }

func (s *stubHasher) Compare(context.Context, string, string) (int, error) {
	s.calls++
	return s.score, s.err
}

func staticTokens(content map[string]string) TokenLoader {
	return func(_ context.Context, path string) (textutil.TokenSet, error) {
		text, ok := content[path]
		if !ok {
			return nil, errors.New("unreadable")
		}
		return textutil.NewTokenSet(text), nil
	}
}

func rec(name, contentType string, size int64, entropy float64, fuzzy string) *fingerprint.Record {
	return &fingerprint.Record{
		Name:        name,
		Path:        "/data/" + name,
		Size:        size,
		ContentType: contentType,
		Entropy:     entropy,
		FuzzyHash:   fuzzy,
	}
}

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Fatalf("score = %v, want %v", got, want)
	}
}

func TestFallbackEntropyScoring(t *testing.T) {
	s := NewScorer()
	ctx := context.Background()

	tests := []struct {
		name string
		a, b *fingerprint.Record
		want float64
	}{
		{"entropy diff 0.005", rec("a.bin", "bin", 1000, 7.000, ""), rec("b.bin", "bin", 1000, 7.005, ""), 95},
		{"entropy diff 0.05", rec("a.bin", "bin", 1000, 7.00, ""), rec("b.bin", "bin", 1000, 7.05, ""), 50},
		{"entropy diff 0.01 is not below 0.01", rec("a.bin", "bin", 1000, 7.10, ""), rec("b.bin", "bin", 1000, 7.11, ""), 90},
		{"large entropy diff floors at 0", rec("a.bin", "bin", 1000, 1, ""), rec("b.bin", "bin", 1000, 7, ""), 0},
		{"differing size", rec("a.bin", "bin", 1000, 7, ""), rec("b.bin", "bin", 1001, 7, ""), 0},
		{"differing type", rec("a.bin", "bin", 1000, 7, ""), rec("b.dat", "dat", 1000, 7, ""), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, rule := s.Explain(ctx, tt.a, tt.b)
			if rule != "fallback" {
				t.Fatalf("expected fallback rule, got %q", rule)
			}
			approx(t, score, tt.want)
		})
	}
}

func TestTextRuleJaccard(t *testing.T) {
	loader := staticTokens(map[string]string{
		"/data/a.txt": "hello world",
		"/data/b.txt": "WORLD, hello!!",
		"/data/c.txt": "hello there",
		"/data/e.txt": "",
		"/data/f.txt": "   ",
	})
	s := NewScorer(WithTokenLoader(loader))
	ctx := context.Background()

	approx(t, s.Score(ctx, rec("a.txt", "txt", 11, 3, ""), rec("b.txt", "txt", 14, 3, "")), 100)
	approx(t, s.Score(ctx, rec("a.txt", "txt", 11, 3, ""), rec("c.txt", "txt", 11, 3, "")), 100.0/3)
	approx(t, s.Score(ctx, rec("e.txt", "txt", 0, 0, ""), rec("f.txt", "txt", 3, 0, "")), 0)
}

func TestTextRuleLoadFailureScoresZero(t *testing.T) {
	s := NewScorer(WithTokenLoader(staticTokens(map[string]string{"/data/a.txt": "same"})))
	score, rule := s.Explain(context.Background(), rec("a.txt", "txt", 4, 2, ""), rec("gone.txt", "txt", 4, 2, ""))
	if rule != "text" || score != 0 {
		t.Fatalf("expected final text score 0, got %v from %q", score, rule)
	}
}

func TestTokenSetWrapsSimilarityFailure(t *testing.T) {
	s := NewScorer(WithTokenLoader(staticTokens(nil)))
	_, err := s.tokenSet(context.Background(), "/data/missing.txt")
	if !errors.Is(err, services.ErrSimilarity) {
		t.Fatalf("expected ErrSimilarity, got %v", err)
	}
	if services.IsFatal(err) {
		t.Fatal("similarity failures must not be fatal")
	}
}

func TestAudioRule(t *testing.T) {
	ctx := context.Background()

	t.Run("fuzzy score wins when positive", func(t *testing.T) {
		h := &stubHasher{score: 42}
		s := NewScorer(WithFuzzyHasher(h))
		score, rule := s.Explain(ctx, rec("a.mp3", "mp3", 1000, 7, "h1"), rec("b.flac", "flac", 5000, 2, "h2"))
		if rule != "audio" {
			t.Fatalf("expected audio rule, got %q", rule)
		}
		approx(t, score, 42)
	})

	t.Run("zero fuzzy score falls back to size and entropy", func(t *testing.T) {
		s := NewScorer(WithFuzzyHasher(&stubHasher{score: 0}))
		approx(t, s.Score(ctx, rec("a.mp3", "mp3", 1000, 7.0, "h1"), rec("b.mp3", "mp3", 950, 7.05, "h2")), 85)
	})

	t.Run("compare failure falls back", func(t *testing.T) {
		s := NewScorer(WithFuzzyHasher(&stubHasher{err: services.ErrFuzzyHash}))
		approx(t, s.Score(ctx, rec("a.wav", "wav", 1000, 7.0, "h1"), rec("b.wav", "wav", 850, 7.15, "h2")), 70)
	})

	t.Run("no hashes skips adapter", func(t *testing.T) {
		h := &stubHasher{score: 99}
		s := NewScorer(WithFuzzyHasher(h))
		approx(t, s.Score(ctx, rec("a.ogg", "ogg", 1000, 7.0, ""), rec("b.ogg", "ogg", 1000, 7.0, "h2")), 85)
		if h.calls != 0 {
			t.Fatalf("expected no adapter call, got %d", h.calls)
		}
	})

	t.Run("distant pair falls through to universal fallback", func(t *testing.T) {
		s := NewScorer()
		score, rule := s.Explain(ctx, rec("a.mp3", "mp3", 1000, 7.0, ""), rec("b.wav", "wav", 500, 7.0, ""))
		if rule != "fallback" || score != 0 {
			t.Fatalf("expected fallback 0, got %v from %q", score, rule)
		}
	})
}

func TestVideoRuleFallbackTiers(t *testing.T) {
	s := NewScorer()
	ctx := context.Background()
	tests := []struct {
		name  string
		sizeB int64
		entB  float64
		want  float64
		rule  string
	}{
		{"tier 90", 900, 7.1, 90, "video"},
		{"tier 75", 750, 7.15, 75, "video"},
		{"tier 60", 550, 7.22, 60, "video"},
		{"fall through", 400, 7.0, 0, "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, rule := s.Explain(ctx, rec("a.mp4", "mp4", 1000, 7.0, ""), rec("b.mkv", "mkv", tt.sizeB, tt.entB, ""))
			if rule != tt.rule {
				t.Fatalf("expected rule %q, got %q", tt.rule, rule)
			}
			approx(t, score, tt.want)
		})
	}
}

func TestVideoRuleFuzzyFirst(t *testing.T) {
	ctx := context.Background()

	t.Run("fuzzy score wins when positive", func(t *testing.T) {
		h := &stubHasher{score: 33}
		s := NewScorer(WithFuzzyHasher(h))
		score, rule := s.Explain(ctx, rec("a.mp4", "mp4", 1000, 7.0, "h1"), rec("b.mkv", "mkv", 100, 2.0, "h2"))
		if rule != "video" {
			t.Fatalf("expected video rule, got %q", rule)
		}
		approx(t, score, 33)
		if h.calls != 1 {
			t.Fatalf("expected one adapter call, got %d", h.calls)
		}
	})

	t.Run("zero fuzzy score falls back to tiers", func(t *testing.T) {
		s := NewScorer(WithFuzzyHasher(&stubHasher{score: 0}))
		score, rule := s.Explain(ctx, rec("a.mp4", "mp4", 1000, 7.0, "h1"), rec("b.mkv", "mkv", 900, 7.1, "h2"))
		if rule != "video" {
			t.Fatalf("expected video rule, got %q", rule)
		}
		approx(t, score, 90)
	})

	t.Run("compare failure falls back to tiers", func(t *testing.T) {
		s := NewScorer(WithFuzzyHasher(&stubHasher{err: services.ErrFuzzyHash}))
		approx(t, s.Score(ctx, rec("a.avi", "avi", 1000, 7.0, "h1"), rec("b.avi", "avi", 750, 7.15, "h2")), 75)
	})

	t.Run("no hashes skips adapter", func(t *testing.T) {
		h := &stubHasher{score: 99}
		s := NewScorer(WithFuzzyHasher(h))
		approx(t, s.Score(ctx, rec("a.mov", "mov", 1000, 7.0, "h1"), rec("b.mov", "mov", 550, 7.22, "")), 60)
		if h.calls != 0 {
			t.Fatalf("expected no adapter call, got %d", h.calls)
		}
	})
}

func TestBinaryRuleAdapterScoreIsFinal(t *testing.T) {
	ctx := context.Background()
	s := NewScorer(WithFuzzyHasher(&stubHasher{score: 0}))
	score, rule := s.Explain(ctx, rec("a.bin", "bin", 1000, 7.0, "h1"), rec("b.bin", "bin", 1000, 7.0, "h2"))
	if rule != "binary" || score != 0 {
		t.Fatalf("expected final binary 0, got %v from %q", score, rule)
	}

	s = NewScorer(WithFuzzyHasher(&stubHasher{err: services.ErrFuzzyHash}))
	score, rule = s.Explain(ctx, rec("a.exe", "exe", 10, 1, "h1"), rec("b.exe", "exe", 10, 1, "h2"))
	if rule != "binary" || score != 0 {
		t.Fatalf("expected compare failure to score 0 finally, got %v from %q", score, rule)
	}
}

func TestThresholds(t *testing.T) {
	s := NewScorer()
	tests := map[string]float64{
		"txt": 80, "mp3": 70, "aiff": 70, "mkv": 60, "mts": 60, "bin": 90, "unknown": 90, "": 90,
	}
	for contentType, want := range tests {
		if got := s.Threshold(contentType); got != want {
			t.Fatalf("Threshold(%q) = %v, want %v", contentType, got, want)
		}
	}

	custom := NewScorer(WithThresholds(Thresholds{Text: 50, Audio: 40, Video: 30, Binary: 20}))
	if custom.Threshold("txt") != 50 || custom.Threshold("exe") != 20 {
		t.Fatal("custom thresholds not applied")
	}
}

func TestQualifiesIsStrict(t *testing.T) {
	s := NewScorer()
	seed := rec("a.bin", "bin", 1, 1, "")
	if s.Qualifies(seed, 90) {
		t.Fatal("score equal to threshold must not qualify")
	}
	if !s.Qualifies(seed, 90.0001) {
		t.Fatal("score above threshold must qualify")
	}
}

func TestClassOf(t *testing.T) {
	if ClassOf("txt") != ClassText || ClassOf("m4a") != ClassAudio || ClassOf("3gp") != ClassVideo || ClassOf("zip") != ClassBinary {
		t.Fatal("unexpected class mapping")
	}
	if ClassAudio.String() != "audio" || ClassBinary.String() != "binary" {
		t.Fatal("unexpected class names")
	}
}

func TestDiffsBothEmpty(t *testing.T) {
	sizeDiff, entropyDiff := diffs(rec("a.mp3", "mp3", 0, 0, ""), rec("b.mp3", "mp3", 0, 0, ""))
	if sizeDiff != 0 || entropyDiff != 0 {
		t.Fatalf("expected zero diffs, got %v %v", sizeDiff, entropyDiff)
	}
}
