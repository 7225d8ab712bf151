package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

var validate = validator.New()

// QuizConfig is the tuning table for question-set generation: how long a
// quickfire run is, how its difficulty sections are filled from the tiers,
// and which country codes belong to which recognizability tier.
type QuizConfig struct {
	Version   int            `mapstructure:"version"`
	Quickfire QuickfireRules `mapstructure:"quickfire" validate:"required"`
	Hardmode  HardmodeRules  `mapstructure:"hardmode" validate:"required"`
	Tiers     TierTables     `mapstructure:"tiers"`
}

// QuickfireRules describes the tier-ramped quickfire selection. Sections are
// ordered easiest to hardest; each one draws its quotas from the tier pools
// and is shuffled independently.
type QuickfireRules struct {
	RunLength int            `mapstructure:"run_length" validate:"required,gt=0"`
	Sections  []SectionQuota `mapstructure:"sections" validate:"required,min=1,dive"`
}

// SectionQuota is how many countries one quickfire section draws per tier.
type SectionQuota struct {
	Tier1 int `mapstructure:"tier1" validate:"gte=0"`
	Tier2 int `mapstructure:"tier2" validate:"gte=0"`
	Tier3 int `mapstructure:"tier3" validate:"gte=0"`
}

// Total returns the number of countries this section draws.
func (s SectionQuota) Total() int {
	return s.Tier1 + s.Tier2 + s.Tier3
}

// HardmodeRules caps the full-set run.
type HardmodeRules struct {
	MaxQuestions int `mapstructure:"max_questions" validate:"required,gt=0"`
}

// TierTables lists country codes per recognizability tier. Codes absent from
// every list are treated as Tier 3.
type TierTables struct {
	Tier1 []string `mapstructure:"tier1"`
	Tier2 []string `mapstructure:"tier2"`
	Tier3 []string `mapstructure:"tier3"`
}

// LoadQuizConfig reads the quiz tuning config. When path is empty it looks
// for config/quiz.yaml and falls back to built-in defaults if no file exists;
// an explicitly configured path must be readable.
func LoadQuizConfig(path string) (*QuizConfig, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("quiz")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// Scalar knobs can be overridden per environment, e.g.
	// QUIZ_HARDMODE_MAX_QUESTIONS=100.
	v.SetEnvPrefix("QUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setQuizDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error loading quiz config: %w", err)
		}
	}

	var cfg QuizConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling quiz config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks structural rules plus the section-sum invariant: the
// quickfire sections must add up to exactly the configured run length.
func (c *QuizConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid quiz config: %w", err)
	}

	total := 0
	for _, s := range c.Quickfire.Sections {
		total += s.Total()
	}
	if total != c.Quickfire.RunLength {
		return fmt.Errorf("invalid quiz config: section quotas sum to %d, want run_length %d", total, c.Quickfire.RunLength)
	}

	return nil
}

func setQuizDefaults(v *viper.Viper) {
	v.SetDefault("version", 1)
	v.SetDefault("quickfire.run_length", 30)
	// Front-loaded ramp: the first half leans on iconic flags, the second
	// half mixes in harder ones.
	v.SetDefault("quickfire.sections", []map[string]any{
		{"tier1": 9, "tier2": 6, "tier3": 0},
		{"tier1": 6, "tier2": 6, "tier3": 3},
	})
	v.SetDefault("hardmode.max_questions", 195)
	v.SetDefault("tiers.tier1", defaultTier1)
	v.SetDefault("tiers.tier2", defaultTier2)
	v.SetDefault("tiers.tier3", []string{})
}

// Curated defaults, mirrored in config/quiz.yaml. Tier 1 is flags most
// players recognize instantly; Tier 2 takes a moment; everything else is
// Tier 3.
var defaultTier1 = []string{
	"US", "GB", "FR", "DE", "IT", "ES", "PT", "NL", "BE", "CH",
	"SE", "NO", "DK", "FI", "IE", "PL", "GR", "TR", "RU", "CN",
	"JP", "KR", "IN", "AU", "CA", "MX", "BR", "AR", "ZA", "EG",
}

var defaultTier2 = []string{
	"AT", "CZ", "HU", "RO", "UA", "IS", "HR", "RS", "BG", "SK",
	"NZ", "IL", "SA", "AE", "QA", "IQ", "IR", "PK", "BD", "LK",
	"TH", "VN", "PH", "ID", "MY", "SG", "NP", "KZ", "NG", "KE",
	"GH", "MA", "DZ", "TN", "ET", "TZ", "CL", "CO", "PE", "VE",
	"EC", "UY", "BO", "CU", "JM",
}
