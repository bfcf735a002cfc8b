package config

const (
	defaultDataDir         = "~/.local/share/dupescan"
	defaultLogDir          = "~/.local/share/dupescan/logs"
	defaultDigest          = "sha256"
	defaultChunkSizeKiB    = 64
	defaultFuzzyHashBinary = "ssdeep"
	defaultFuzzyTimeout    = 30
	defaultTextThreshold   = 80
	defaultAudioThreshold  = 70
	defaultVideoThreshold  = 60
	defaultBinaryThreshold = 90
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultRetentionDays   = 30
)

var defaultIgnores = []string{
	".git",
	".svn",
	".hg",
	"node_modules",
	"__pycache__",
}

// OrganizeBuckets maps each organization category to the file extensions it
// collects.
var OrganizeBuckets = map[string][]string{
	"photos":       {"jpg", "jpeg", "png", "gif", "bmp", "tiff", "webp"},
	"documents":    {"doc", "docx", "pdf", "txt", "rtf", "odt", "pages"},
	"videos":       {"mp4", "avi", "mov", "mkv", "wmv", "flv", "webm"},
	"music":        {"mp3", "wav", "flac", "aac", "ogg", "wma"},
	"archives":     {"zip", "rar", "7z", "tar", "gz", "bz2"},
	"applications": {"exe", "msi", "apk", "jar", "dmg", "deb", "rpm"},
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Scan: Scan{
			Digest:        defaultDigest,
			ChunkSizeKiB:  defaultChunkSizeKiB,
			Ignore:        append([]string(nil), defaultIgnores...),
			IncludeHidden: true,
		},
		FuzzyHash: FuzzyHash{
			Enabled:        true,
			Binary:         defaultFuzzyHashBinary,
			TimeoutSeconds: defaultFuzzyTimeout,
		},
		Similarity: Similarity{
			TextThreshold:   defaultTextThreshold,
			AudioThreshold:  defaultAudioThreshold,
			VideoThreshold:  defaultVideoThreshold,
			BinaryThreshold: defaultBinaryThreshold,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
