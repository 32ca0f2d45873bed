// passgen generates passwords from the command line or through an interactive wizard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/atotto/clipboard"
	"github.com/vaultpass/passforge/internal/config"
	"github.com/vaultpass/passforge/internal/crypto"
	"github.com/vaultpass/passforge/internal/logging"
	"github.com/vaultpass/passforge/internal/model"
	"github.com/vaultpass/passforge/internal/service"
	"github.com/vaultpass/passforge/internal/wizard"
)

// Version is set at build time.
var Version = "dev"

type options struct {
	length      int
	mode        string
	upper       bool
	lower       bool
	numbers     bool
	symbols     bool
	count       int
	copy        bool
	interactive bool
	accessible  bool
	showVersion bool
}

// parseFlags parses args on fs, starting from the file defaults d.
// With no arguments at all the wizard is started.
func parseFlags(fs *flag.FlagSet, args []string, d config.CLIDefaults) (options, error) {
	opts := options{}

	fs.IntVar(&opts.length, "length", d.Length, "Password length (4-2048)")
	fs.IntVar(&opts.length, "l", d.Length, "Password length (shorthand)")
	fs.StringVar(&opts.mode, "mode", d.Mode, "Password type: easy-to-say, easy-to-read or all-characters")
	fs.BoolVar(&opts.upper, "upper", d.Upper, "Include uppercase letters")
	fs.BoolVar(&opts.lower, "lower", d.Lower, "Include lowercase letters")
	fs.BoolVar(&opts.numbers, "numbers", d.Numbers, "Include digits")
	fs.BoolVar(&opts.symbols, "symbols", d.Symbols, "Include symbols")
	fs.IntVar(&opts.count, "count", d.Count, "Number of passwords to generate")
	fs.IntVar(&opts.count, "c", d.Count, "Number of passwords (shorthand)")
	fs.BoolVar(&opts.copy, "copy", d.Copy, "Copy the generated passwords to the clipboard, one per line")
	fs.BoolVar(&opts.interactive, "interactive", false, "Run the interactive wizard")
	fs.BoolVar(&opts.interactive, "i", false, "Run the interactive wizard (shorthand)")
	fs.BoolVar(&opts.accessible, "accessible", os.Getenv("ACCESSIBLE") != "", "Use plain prompts in the wizard")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if len(args) == 0 {
		opts.interactive = true
	}
	return opts, nil
}

func (o options) request() model.GenerateRequest {
	return model.GenerateRequest{
		Length:    o.length,
		Mode:      o.mode,
		Uppercase: &o.upper,
		Lowercase: &o.lower,
		Numbers:   &o.numbers,
		Symbols:   &o.symbols,
		Count:     o.count,
	}
}

func (o options) answers() wizard.Answers {
	enabled := map[crypto.CharacterClass]bool{
		crypto.UpperCase: o.upper,
		crypto.LowerCase: o.lower,
		crypto.Digits:    o.numbers,
		crypto.Symbols:   o.symbols,
	}

	var classes []crypto.CharacterClass
	for _, c := range crypto.AllClasses {
		if enabled[c] {
			classes = append(classes, c)
		}
	}
	return wizard.Answers{Length: o.length, Mode: o.mode, Classes: classes}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	logging.Setup(stderr, "warn", "text")

	configPath := os.Getenv("PASSFORGE_CONFIG")
	if configPath == "" {
		configPath = config.DefaultCLIConfigPath()
	}
	defaults, err := config.LoadCLIDefaults(configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	fs := flag.NewFlagSet("passgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts, err := parseFlags(fs, args, defaults)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "passgen version %s\n", Version)
		return 0
	}

	svc := service.NewGeneratorService()

	if opts.interactive {
		var wopts []wizard.Option
		wopts = append(wopts, wizard.WithDefaults(opts.answers()))
		if opts.copy {
			wopts = append(wopts, wizard.WithClipboard(clipboard.WriteAll))
		}
		w := wizard.New(wizard.NewHuhPrompter(opts.accessible), svc, stdout, wopts...)
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	return generate(ctx, svc, opts, stdout, stderr, clipboard.WriteAll)
}

func generate(ctx context.Context, svc *service.GeneratorService, opts options, stdout, stderr io.Writer, copyFn func(string) error) int {
	resp, err := svc.Generate(ctx, opts.request(), "")
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", service.Message(err))
		if service.IsEntropyFailure(err) {
			return 3
		}
		return 1
	}

	passwords := resp.Passwords
	if len(passwords) == 0 {
		passwords = []string{resp.Password}
	}
	for _, p := range passwords {
		fmt.Fprintln(stdout, p)
	}

	if opts.copy {
		if err := copyFn(strings.Join(passwords, "\n")); err != nil {
			fmt.Fprintf(stderr, "Could not copy to clipboard: %v\n", err)
			return 1
		}
	}
	return 0
}
