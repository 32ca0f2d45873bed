package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vaultpass/passforge/internal/crypto"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENV", "JWT_SECRET", "FINGERPRINT_KEY", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "DEFAULT_LENGTH", "JWT_EXPIRY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
	if cfg.DefaultLength != 16 {
		t.Errorf("DefaultLength = %d, want 16", cfg.DefaultLength)
	}
	if cfg.JWTExpiry != 24*time.Hour {
		t.Errorf("JWTExpiry = %v, want 24h", cfg.JWTExpiry)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "9090")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "4")
	t.Setenv("DEFAULT_LENGTH", "24")
	t.Setenv("JWT_EXPIRY", "90m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.Port != "9090" || cfg.RateLimitRPS != 2.5 || cfg.RateLimitBurst != 4 {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
	if cfg.DefaultLength != 24 || cfg.JWTExpiry != 90*time.Minute {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
}

func TestLoadRejectsDevSecretsInProduction(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("FINGERPRINT_KEY", "")

	if _, err := Load(); err != ErrDevSecretInProduction {
		t.Errorf("Load() error = %v, want %v", err, ErrDevSecretInProduction)
	}

	t.Setenv("JWT_SECRET", "real-secret")
	t.Setenv("FINGERPRINT_KEY", "real-key")
	if _, err := Load(); err != nil {
		t.Errorf("Load() unexpected error: %v", err)
	}
}

func TestLoadRejectsInvalidRateLimit(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("RATE_LIMIT_BURST", "0")

	if _, err := Load(); err != ErrInvalidRateLimit {
		t.Errorf("Load() error = %v, want %v", err, ErrInvalidRateLimit)
	}
}

func TestLoadCLIDefaultsMissingFile(t *testing.T) {
	got, err := LoadCLIDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadCLIDefaults() unexpected error: %v", err)
	}
	if got != DefaultCLIDefaults() {
		t.Errorf("LoadCLIDefaults() = %+v, want defaults", got)
	}
}

func TestLoadCLIDefaultsPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "length: 32\nmode: easy-to-read\nsymbols: false\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	got, err := LoadCLIDefaults(path)
	if err != nil {
		t.Fatalf("LoadCLIDefaults() unexpected error: %v", err)
	}
	if got.Length != 32 || got.Mode != "easy-to-read" || got.Symbols {
		t.Errorf("LoadCLIDefaults() = %+v", got)
	}
	if !got.Upper || !got.Lower || !got.Numbers || got.Count != 1 {
		t.Errorf("LoadCLIDefaults() dropped defaults: %+v", got)
	}
}

func TestLoadCLIDefaultsClassList(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    [4]bool
		wantErr error
	}{
		{
			name:    "list replaces booleans",
			content: "classes: [upper-case, number]\nsymbols: true\n",
			want:    [4]bool{true, false, true, false},
		},
		{
			name:    "every class",
			content: "classes: [symbols, lower-case, number, upper-case]\n",
			want:    [4]bool{true, true, true, true},
		},
		{
			name:    "unknown class",
			content: "classes: [upper-case, emoji]\n",
			wantErr: crypto.ErrUnknownCharacterClass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("WriteFile() unexpected error: %v", err)
			}

			got, err := LoadCLIDefaults(path)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadCLIDefaults() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadCLIDefaults() unexpected error: %v", err)
			}
			if have := [4]bool{got.Upper, got.Lower, got.Numbers, got.Symbols}; have != tt.want {
				t.Errorf("LoadCLIDefaults() classes = %v, want %v", have, tt.want)
			}
			if got.Length != 16 || got.Count != 1 {
				t.Errorf("LoadCLIDefaults() dropped defaults: %+v", got)
			}
		})
	}
}

func TestLoadCLIDefaultsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("length: [oops"), 0600); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}

	if _, err := LoadCLIDefaults(path); err == nil {
		t.Error("LoadCLIDefaults() expected error for invalid yaml")
	}
}

func TestDefaultCLIConfigPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	if got := DefaultCLIConfigPath(); got != filepath.Join("/tmp/xdg", "passforge", "config.yaml") {
		t.Errorf("DefaultCLIConfigPath() = %q", got)
	}
}
