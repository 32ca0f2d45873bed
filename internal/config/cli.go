package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vaultpass/passforge/internal/crypto"
	"gopkg.in/yaml.v3"
)

// CLIDefaults holds the passgen defaults that flags and the wizard start from.
type CLIDefaults struct {
	Length  int    `yaml:"length"`
	Mode    string `yaml:"mode"`
	Upper   bool   `yaml:"upper"`
	Lower   bool   `yaml:"lower"`
	Numbers bool   `yaml:"numbers"`
	Symbols bool   `yaml:"symbols"`
	Count   int    `yaml:"count"`
	Copy    bool   `yaml:"copy"`
}

// cliFile is the on-disk form. A classes list, when present, replaces the
// per-class booleans.
type cliFile struct {
	CLIDefaults `yaml:",inline"`
	Classes     []string `yaml:"classes"`
}

// DefaultCLIDefaults mirrors the server defaults: 16 characters from every class.
func DefaultCLIDefaults() CLIDefaults {
	return CLIDefaults{
		Length:  16,
		Mode:    "all-characters",
		Upper:   true,
		Lower:   true,
		Numbers: true,
		Symbols: true,
		Count:   1,
	}
}

// DefaultCLIConfigPath returns $XDG_CONFIG_HOME/passforge/config.yaml or
// ~/.config/passforge/config.yaml.
func DefaultCLIConfigPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "passforge", "config.yaml")
}

// LoadCLIDefaults reads defaults from path. A missing file yields DefaultCLIDefaults;
// keys absent from the file keep their default values.
func LoadCLIDefaults(path string) (CLIDefaults, error) {
	defaults := DefaultCLIDefaults()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("read config: %w", err)
	}

	file := cliFile{CLIDefaults: defaults}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return DefaultCLIDefaults(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if file.Classes == nil {
		return file.CLIDefaults, nil
	}

	if err := file.applyClasses(); err != nil {
		return DefaultCLIDefaults(), fmt.Errorf("parse config %s: %w", path, err)
	}
	return file.CLIDefaults, nil
}

func (f *cliFile) applyClasses() error {
	f.Upper, f.Lower, f.Numbers, f.Symbols = false, false, false, false
	for _, name := range f.Classes {
		c, err := crypto.ParseCharacterClass(name)
		if err != nil {
			return err
		}
		switch c {
		case crypto.UpperCase:
			f.Upper = true
		case crypto.LowerCase:
			f.Lower = true
		case crypto.Digits:
			f.Numbers = true
		case crypto.Symbols:
			f.Symbols = true
		}
	}
	return nil
}
