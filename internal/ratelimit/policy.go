package ratelimit

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/nutrilog-backend/internal/pkg/logger"
)

const (
	ClassImageAnalysis = "image_analysis"
	ClassTrendAnalysis = "trend_analysis"
	ClassWeeklySummary = "weekly_summary"
	ClassDailySummary  = "daily_summary"
)

//go:embed policies.yaml
var defaultPoliciesYAML []byte

type Policy struct {
	Name          string `yaml:"name"`
	Limit         int    `yaml:"limit"`
	WindowSeconds int    `yaml:"window_seconds"`
}

func (p Policy) Window() time.Duration { return time.Duration(p.WindowSeconds) * time.Second }

type Policies map[string]Policy

func (ps Policies) Lookup(class string) (Policy, bool) {
	p, ok := ps[strings.ToLower(strings.TrimSpace(class))]
	return p, ok
}

type yamlPolicyFile struct {
	Version int      `yaml:"version"`
	Classes []Policy `yaml:"classes"`
}

// ParsePolicies decodes and validates a policy document.
func ParsePolicies(data []byte) (Policies, error) {
	var doc yamlPolicyFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode rate limit policies: %w", err)
	}
	if len(doc.Classes) == 0 {
		return nil, errors.New("rate limit policies: no classes defined")
	}
	out := make(Policies, len(doc.Classes))
	for _, c := range doc.Classes {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			return nil, errors.New("rate limit policies: class without name")
		}
		if c.Limit <= 0 || c.WindowSeconds <= 0 {
			return nil, fmt.Errorf("rate limit policies: class %q needs positive limit and window_seconds", name)
		}
		if _, dup := out[name]; dup {
			return nil, fmt.Errorf("rate limit policies: duplicate class %q", name)
		}
		c.Name = name
		out[name] = c
	}
	return out, nil
}

// DefaultPolicies returns the embedded policy table.
func DefaultPolicies() Policies {
	ps, err := ParsePolicies(defaultPoliciesYAML)
	if err != nil {
		panic(err)
	}
	return ps
}

// LoadPolicies reads the table from path, falling back to the embedded
// defaults when path is empty or unusable.
func LoadPolicies(log *logger.Logger, path string) Policies {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultPolicies()
	}
	data, err := os.ReadFile(path)
	if err == nil {
		var ps Policies
		if ps, err = ParsePolicies(data); err == nil {
			if log != nil {
				log.Info("rate limit policies loaded", "path", path, "classes", len(ps))
			}
			return ps
		}
	}
	if log != nil {
		log.Warn("rate limit policy file unusable; using embedded defaults", "path", path, "error", err)
	}
	return DefaultPolicies()
}
