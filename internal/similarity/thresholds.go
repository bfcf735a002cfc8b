package similarity

import "dupescan/internal/config"

// Thresholds holds the per-class score a pair must exceed to cluster.
type Thresholds struct {
	Text   float64
	Audio  float64
	Video  float64
	Binary float64
}

// DefaultThresholds returns txt 80, audio 70, video 60, everything else 90.
func DefaultThresholds() Thresholds {
	return Thresholds{Text: 80, Audio: 70, Video: 60, Binary: 90}
}

// ThresholdsFromConfig copies the [similarity] section.
func ThresholdsFromConfig(cfg config.Similarity) Thresholds {
	return Thresholds{
		Text:   cfg.TextThreshold,
		Audio:  cfg.AudioThreshold,
		Video:  cfg.VideoThreshold,
		Binary: cfg.BinaryThreshold,
	}
}

// For returns the threshold of a content type.
func (t Thresholds) For(contentType string) float64 {
	switch ClassOf(contentType) {
	case ClassText:
		return t.Text
	case ClassAudio:
		return t.Audio
	case ClassVideo:
		return t.Video
	default:
		return t.Binary
	}
}
