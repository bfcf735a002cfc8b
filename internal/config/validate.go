package config

import (
	"errors"
	"fmt"
	"strings"
)

// SupportedDigests lists the accepted scan.digest values.
var SupportedDigests = []string{"sha256", "blake3"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateFuzzyHash(); err != nil {
		return err
	}
	if err := c.validateSimilarity(); err != nil {
		return err
	}
	if err := c.validateCategorization(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateScan() error {
	if c.Scan.Workers <= 0 {
		return errors.New("scan.workers must be positive")
	}
	if c.Scan.ChunkSizeKiB <= 0 {
		return errors.New("scan.chunk_size_kib must be positive")
	}
	for _, name := range SupportedDigests {
		if c.Scan.Digest == name {
			return nil
		}
	}
	return fmt.Errorf("scan.digest %q is not supported (use one of: %s)", c.Scan.Digest, strings.Join(SupportedDigests, ", "))
}

func (c *Config) validateFuzzyHash() error {
	if !c.FuzzyHash.Enabled {
		return nil
	}
	if strings.TrimSpace(c.FuzzyHash.Binary) == "" {
		return errors.New("fuzzy_hash.binary must be set when fuzzy_hash.enabled is true")
	}
	if c.FuzzyHash.TimeoutSeconds <= 0 {
		return errors.New("fuzzy_hash.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateSimilarity() error {
	for key, value := range map[string]float64{
		"similarity.text_threshold":   c.Similarity.TextThreshold,
		"similarity.audio_threshold":  c.Similarity.AudioThreshold,
		"similarity.video_threshold":  c.Similarity.VideoThreshold,
		"similarity.binary_threshold": c.Similarity.BinaryThreshold,
	} {
		if value < 0 || value > 100 {
			return fmt.Errorf("%s must be between 0 and 100", key)
		}
	}
	return nil
}

func (c *Config) validateCategorization() error {
	for i, rule := range c.Categorization.Rules {
		if rule.Name == "" {
			return fmt.Errorf("categorization.rules[%d].name must be set", i)
		}
		if rule.Expression == "" {
			return fmt.Errorf("categorization.rules[%d].expression must be set", i)
		}
	}
	for _, name := range c.Categorization.OrganizeCategories {
		if _, ok := OrganizeBuckets[name]; !ok {
			return fmt.Errorf("categorization.organize_categories: unknown category %q", name)
		}
	}
	if c.Categorization.Organize && len(c.Categorization.OrganizeCategories) == 0 {
		return errors.New("categorization.organize_categories must list at least one category when categorization.organize is true")
	}
	return nil
}
