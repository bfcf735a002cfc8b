// Package deps reports on the external executables dupescan shells out to.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"dupescan/internal/config"
)

// Requirement defines an external dependency dupescan relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string `json:"name"`
	Command     string `json:"command"`
	Description string `json:"description"`
	Optional    bool   `json:"optional"`
	Available   bool   `json:"available"`
	Path        string `json:"path,omitempty"`
	Detail      string `json:"detail,omitempty"`
}

// Requirements lists the executables the configuration needs. ssdeep is
// optional: without it fuzzy hashes stay empty and scoring falls back to
// size and entropy.
func Requirements(cfg *config.Config) []Requirement {
	if cfg == nil || !cfg.FuzzyHash.Enabled {
		return nil
	}
	return []Requirement{
		{
			Name:        "ssdeep",
			Command:     cfg.FuzzyHashBinary(),
			Description: "fuzzy hashing for audio, video and binary near-duplicates",
			Optional:    true,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = resolved
		results = append(results, status)
	}
	return results
}

// Missing returns the statuses that are unavailable.
func Missing(statuses []Status) []Status {
	var out []Status
	for _, s := range statuses {
		if !s.Available {
			out = append(out, s)
		}
	}
	return out
}
