package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/vaultpass/passforge/internal/config"
	"github.com/vaultpass/passforge/internal/crypto"
	"github.com/vaultpass/passforge/internal/service"
)

func parse(t *testing.T, args ...string) options {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts, err := parseFlags(fs, args, config.DefaultCLIDefaults())
	if err != nil {
		t.Fatalf("parseFlags(%v) unexpected error: %v", args, err)
	}
	return opts
}

func TestParseFlagsDefaults(t *testing.T) {
	opts := parse(t)

	if !opts.interactive {
		t.Error("expected wizard mode without arguments")
	}
	if opts.length != 16 || opts.count != 1 || opts.mode != service.ModeAllCharacters {
		t.Errorf("unexpected defaults %+v", opts)
	}
	if !opts.upper || !opts.lower || !opts.numbers || !opts.symbols {
		t.Errorf("expected all classes enabled, got %+v", opts)
	}
}

func TestParseFlagsOverrides(t *testing.T) {
	opts := parse(t, "-l", "24", "-symbols=false", "-mode", "easy-to-read", "-c", "3")

	if opts.interactive {
		t.Error("expected flag mode with arguments")
	}
	if opts.length != 24 || opts.symbols || opts.mode != service.ModeEasyToRead || opts.count != 3 {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestParseFlagsUnknownFlag(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if _, err := parseFlags(fs, []string{"-nope"}, config.DefaultCLIDefaults()); err == nil {
		t.Error("expected error for unknown flag")
	}
}

func TestAnswersKeepsClassOrder(t *testing.T) {
	opts := parse(t, "-upper=false")
	a := opts.answers()

	want := []crypto.CharacterClass{crypto.LowerCase, crypto.Digits, crypto.Symbols}
	if len(a.Classes) != len(want) {
		t.Fatalf("answers classes = %v, want %v", a.Classes, want)
	}
	for i := range want {
		if a.Classes[i] != want[i] {
			t.Errorf("answers classes = %v, want %v", a.Classes, want)
		}
	}
}

func TestGenerateFlagMode(t *testing.T) {
	opts := parse(t, "-length", "10", "-upper=false", "-lower=false", "-symbols=false", "-count", "4")
	var stdout, stderr bytes.Buffer

	code := generate(context.Background(), service.NewGeneratorService(), opts, &stdout, &stderr, nil)
	if code != 0 {
		t.Fatalf("generate() = %d, stderr %q", code, stderr.String())
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 passwords, got %d: %q", len(lines), stdout.String())
	}
	for _, l := range lines {
		if len(l) != 10 || strings.Trim(l, "0123456789") != "" {
			t.Errorf("unexpected password %q", l)
		}
	}
}

func TestGenerateInvalidLength(t *testing.T) {
	opts := parse(t, "-length", "2049")
	var stdout, stderr bytes.Buffer

	code := generate(context.Background(), service.NewGeneratorService(), opts, &stdout, &stderr, nil)
	if code != 1 {
		t.Errorf("generate() = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "between 4 and 2048") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
}

func TestGenerateCopy(t *testing.T) {
	opts := parse(t, "-length", "8", "-copy")
	var stdout, stderr bytes.Buffer
	var copied string

	code := generate(context.Background(), service.NewGeneratorService(), opts, &stdout, &stderr, func(s string) error {
		copied = s
		return nil
	})
	if code != 0 {
		t.Fatalf("generate() = %d, stderr %q", code, stderr.String())
	}
	if copied == "" || strings.TrimSpace(stdout.String()) != copied {
		t.Errorf("copied %q, printed %q", copied, stdout.String())
	}

	code = generate(context.Background(), service.NewGeneratorService(), opts, &stdout, &stderr, func(string) error {
		return errors.New("no clipboard utilities available")
	})
	if code != 1 {
		t.Errorf("generate() = %d, want 1 when copying fails", code)
	}
}

func TestGenerateCopyBatch(t *testing.T) {
	opts := parse(t, "-length", "10", "-count", "3", "-copy")
	var stdout, stderr bytes.Buffer
	var copied string

	code := generate(context.Background(), service.NewGeneratorService(), opts, &stdout, &stderr, func(s string) error {
		copied = s
		return nil
	})
	if code != 0 {
		t.Fatalf("generate() = %d, stderr %q", code, stderr.String())
	}

	printed := strings.TrimSpace(stdout.String())
	if copied != printed {
		t.Errorf("copied %q, want every printed password %q", copied, printed)
	}
	if n := len(strings.Split(copied, "\n")); n != 3 {
		t.Errorf("copied %d passwords, want 3", n)
	}
}

func TestRunVersion(t *testing.T) {
	t.Setenv("PASSFORGE_CONFIG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	var stdout, stderr bytes.Buffer

	if code := run(context.Background(), []string{"-version"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr %q", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "passgen version") {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
}
