// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/danielhkuo/tripcanvas/consensus"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	OwnerKeySalt  string
	ShareSlugSalt string

	// External generator settings (OpenAI-compatible endpoint)
	GeneratorBaseURL string
	GeneratorAPIKey  string
	GeneratorModel   string

	// Voting policy knobs
	CountingStrategy consensus.CountingStrategy
	MaxProposals     int
}

// ParseFlags validates flags with environment-variable fallback.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var counting string

	fs := flag.NewFlagSet("tripcanvas", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.OwnerKeySalt, "owner-salt", "", "Owner key salt (prefer env)")
	fs.StringVar(&cfg.ShareSlugSalt, "slug-salt", "", "Share slug salt (prefer env)")
	fs.StringVar(&cfg.GeneratorAPIKey, "generator-key", "", "Generator API key (prefer env)")

	// Generator settings
	fs.StringVar(&cfg.GeneratorBaseURL, "generator-url", "", "Generator base URL")
	fs.StringVar(&cfg.GeneratorModel, "generator-model", "", "Generator model name")

	// Voting policy
	fs.StringVar(&counting, "counting", "", "Counting strategy (per-tag or per-option)")
	fs.IntVar(&cfg.MaxProposals, "max-proposals", 0, "Proposal count bound per round")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3321 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}

	// Secrets - MUST be provided
	if cfg.OwnerKeySalt == "" {
		cfg.OwnerKeySalt = os.Getenv("OWNER_KEY_SALT")
	}
	if cfg.OwnerKeySalt == "" {
		return Config{}, errors.New("OWNER_KEY_SALT required")
	}

	if cfg.ShareSlugSalt == "" {
		cfg.ShareSlugSalt = os.Getenv("SHARE_SLUG_SALT")
	}
	if cfg.ShareSlugSalt == "" {
		return Config{}, errors.New("SHARE_SLUG_SALT required")
	}

	if cfg.GeneratorAPIKey == "" {
		cfg.GeneratorAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.GeneratorAPIKey == "" {
		return Config{}, errors.New("OPENAI_API_KEY required")
	}

	if cfg.GeneratorBaseURL == "" {
		cfg.GeneratorBaseURL = os.Getenv("OPENAI_BASE_URL")
		if cfg.GeneratorBaseURL == "" {
			cfg.GeneratorBaseURL = "https://api.openai.com/v1"
		}
	}
	if cfg.GeneratorModel == "" {
		cfg.GeneratorModel = os.Getenv("GENERATOR_MODEL")
		if cfg.GeneratorModel == "" {
			cfg.GeneratorModel = "gpt-4o"
		}
	}

	if counting == "" {
		counting = os.Getenv("COUNTING_STRATEGY")
	}
	strategy, err := consensus.ParseCountingStrategy(counting)
	if err != nil {
		return Config{}, fmt.Errorf("invalid counting strategy: %w", err)
	}
	cfg.CountingStrategy = strategy

	if cfg.MaxProposals == 0 {
		if v := os.Getenv("MAX_PROPOSALS"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return Config{}, errors.New("invalid MAX_PROPOSALS env variable")
			}
			cfg.MaxProposals = n
		} else {
			cfg.MaxProposals = consensus.DefaultMaxProposals
		}
	}

	return cfg, nil
}
