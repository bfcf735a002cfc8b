package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeScan()
	c.normalizeFuzzyHash()
	c.normalizeCategorization()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() {
	if c.Scan.Workers <= 0 {
		c.Scan.Workers = runtime.NumCPU()
	}
	c.Scan.Digest = strings.ToLower(strings.TrimSpace(c.Scan.Digest))
	if c.Scan.Digest == "" {
		c.Scan.Digest = defaultDigest
	}
	if c.Scan.ChunkSizeKiB <= 0 {
		c.Scan.ChunkSizeKiB = defaultChunkSizeKiB
	}
	ignores := make([]string, 0, len(c.Scan.Ignore))
	seen := make(map[string]struct{}, len(c.Scan.Ignore))
	for _, pattern := range c.Scan.Ignore {
		trimmed := strings.TrimSpace(pattern)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		ignores = append(ignores, trimmed)
	}
	c.Scan.Ignore = ignores
}

func (c *Config) normalizeFuzzyHash() {
	c.FuzzyHash.Binary = strings.TrimSpace(c.FuzzyHash.Binary)
	if value, ok := os.LookupEnv("SSDEEP_BINARY"); ok && strings.TrimSpace(value) != "" {
		c.FuzzyHash.Binary = strings.TrimSpace(value)
	}
	if c.FuzzyHash.Binary == "" {
		c.FuzzyHash.Binary = defaultFuzzyHashBinary
	}
	if c.FuzzyHash.TimeoutSeconds <= 0 {
		c.FuzzyHash.TimeoutSeconds = defaultFuzzyTimeout
	}
}

func (c *Config) normalizeCategorization() {
	rules := make([]Rule, 0, len(c.Categorization.Rules))
	for _, rule := range c.Categorization.Rules {
		rule.Name = strings.TrimSpace(rule.Name)
		rule.Expression = strings.TrimSpace(rule.Expression)
		rules = append(rules, rule)
	}
	c.Categorization.Rules = rules

	buckets := make([]string, 0, len(c.Categorization.OrganizeCategories))
	seen := make(map[string]struct{}, len(c.Categorization.OrganizeCategories))
	for _, name := range c.Categorization.OrganizeCategories {
		normalized := strings.ToLower(strings.TrimSpace(name))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		buckets = append(buckets, normalized)
	}
	c.Categorization.OrganizeCategories = buckets
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
