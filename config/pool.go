package config

import (
	"fmt"
	"strings"

	"nfl-pool-go/scoring"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const poolEnvPrefix = "POOL_"

// TeamAlias maps an extra spelling onto a team. Team may itself be any known alias.
type TeamAlias struct {
	Alias string `koanf:"alias" json:"alias"`
	Team  string `koanf:"team" json:"team"`
}

// PoolSettings holds the pool rules and extra team aliases
type PoolSettings struct {
	Rules   scoring.Rules `koanf:"rules" json:"rules"`
	Aliases []TeamAlias   `koanf:"aliases" json:"aliases"`
}

// LoadPoolSettings layers the default rules, the YAML file at path when set,
// then POOL_ environment variables. Nested keys use a double underscore, so
// POOL_RULES__TIE_SURVIVES=false sets rules.tie_survives.
func LoadPoolSettings(path string) (*PoolSettings, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	envProvider := env.Provider(poolEnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, poolEnvPrefix))
		if key == "settings_file" {
			return ""
		}
		return strings.ReplaceAll(key, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to read pool environment: %w", err)
	}

	settings := PoolSettings{Rules: scoring.DefaultRules()}
	if err := k.UnmarshalWithConf("", &settings, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode pool settings: %w", err)
	}

	for i, a := range settings.Aliases {
		if strings.TrimSpace(a.Alias) == "" || strings.TrimSpace(a.Team) == "" {
			return nil, fmt.Errorf("alias %d: alias and team are required", i)
		}
	}
	return &settings, nil
}

// AliasMap returns the configured aliases keyed by alias
func (s *PoolSettings) AliasMap() map[string]string {
	if len(s.Aliases) == 0 {
		return nil
	}
	m := make(map[string]string, len(s.Aliases))
	for _, a := range s.Aliases {
		m[a.Alias] = a.Team
	}
	return m
}

// Scoring builds the normalizer, survivor evaluator and confidence scorer
// configured by these settings
func (s *PoolSettings) Scoring() (*scoring.Normalizer, *scoring.Evaluator, *scoring.Scorer) {
	normalizer := scoring.NewNormalizer(s.AliasMap())
	return normalizer, scoring.NewEvaluator(s.Rules, normalizer), scoring.NewScorer(s.Rules, normalizer)
}
