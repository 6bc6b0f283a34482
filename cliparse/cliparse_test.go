// cliparse/cliparse_test.go
package cliparse

import (
	"os"
	"testing"

	"github.com/danielhkuo/tripcanvas/consensus"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "file:test.db")
	t.Setenv("OWNER_KEY_SALT", "s1")
	t.Setenv("SHARE_SLUG_SALT", "s2")
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

func TestParseFlags_EnvVars(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default database type sqlite, got %q", cfg.DatabaseType)
	}
	if cfg.CountingStrategy != consensus.CountPerTag {
		t.Errorf("expected default per-tag counting, got %q", cfg.CountingStrategy)
	}
	if cfg.MaxProposals != consensus.DefaultMaxProposals {
		t.Errorf("expected default max proposals, got %d", cfg.MaxProposals)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PORT", "9000")

	cfg, err := ParseFlags([]string{"-p", "8080", "-counting", "per-option"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.CountingStrategy != consensus.CountPerOption {
		t.Errorf("expected per-option counting, got %q", cfg.CountingStrategy)
	}
}

func TestParseFlags_MissingRequired(t *testing.T) {
	os.Clearenv()

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected an error without DATABASE_URL")
	}

	t.Setenv("DATABASE_URL", "file:test.db")
	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected an error without OWNER_KEY_SALT")
	}
}

func TestParseFlags_BadCountingStrategy(t *testing.T) {
	setRequiredEnv(t)

	if _, err := ParseFlags([]string{"-counting", "approval"}); err == nil {
		t.Error("expected an error for an unknown counting strategy")
	}
}
