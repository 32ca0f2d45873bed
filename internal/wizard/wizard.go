// Package wizard runs the interactive password generation loop.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/vaultpass/passforge/internal/crypto"
	"github.com/vaultpass/passforge/internal/model"
	"github.com/vaultpass/passforge/internal/service"
)

// ErrAborted is returned by a Prompter when the user cancels a prompt.
var ErrAborted = errors.New("prompt aborted")

// PromptError is validation text shown verbatim under a form field.
type PromptError string

func (e PromptError) Error() string { return string(e) }

const (
	ErrLengthPrompt  PromptError = "Password length must be between 4 and 2048"
	ErrClassesPrompt PromptError = "Please select at least one!"
)

type styles struct {
	success lipgloss.Style
	err     lipgloss.Style
	secret  lipgloss.Style
	info    lipgloss.Style
}

// newStyles derives colours from out, so writers that are not terminals get plain text.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		success: r.NewStyle().Foreground(lipgloss.Color("#16A085")).Bold(true),
		err:     r.NewStyle().Foreground(lipgloss.Color("#E74C3C")),
		secret:  r.NewStyle().Foreground(lipgloss.Color("#DA68A0")).Italic(true),
		info:    r.NewStyle().Foreground(lipgloss.Color("#4A536B")),
	}
}

// Answers holds the user's choices for one password.
type Answers struct {
	Length  int
	Mode    string
	Classes []crypto.CharacterClass
}

// Prompter collects answers from the user.
// Implementations may use TUI forms or test fakes.
type Prompter interface {
	// Ask shows the generation questions, pre-filled with defaults.
	Ask(defaults Answers) (Answers, error)

	// Again asks whether to generate another password.
	Again() (bool, error)
}

// Wizard repeatedly asks for options and prints a freshly generated password.
// Each round is an independent request; nothing carries over except the defaults.
type Wizard struct {
	prompter  Prompter
	service   *service.GeneratorService
	out       io.Writer
	styles    styles
	defaults  Answers
	clipboard func(string) error
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithDefaults sets the answers the first round starts from.
func WithDefaults(a Answers) Option {
	return func(w *Wizard) { w.defaults = a }
}

// WithClipboard copies every generated password using fn.
func WithClipboard(fn func(string) error) Option {
	return func(w *Wizard) { w.clipboard = fn }
}

// New creates a Wizard writing to out.
func New(prompter Prompter, svc *service.GeneratorService, out io.Writer, opts ...Option) *Wizard {
	w := &Wizard{
		prompter: prompter,
		service:  svc,
		out:      out,
		styles:   newStyles(out),
		defaults: Answers{
			Length:  service.DefaultLength,
			Mode:    service.ModeAllCharacters,
			Classes: crypto.AllClasses,
		},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run loops until the user declines another password or aborts a prompt.
// Generation failures are reported and the loop continues.
func (w *Wizard) Run(ctx context.Context) error {
	defaults := w.defaults
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		answers, err := w.prompter.Ask(defaults)
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		defaults = answers

		w.generate(ctx, answers)

		again, err := w.prompter.Again()
		if errors.Is(err, ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

func (w *Wizard) generate(ctx context.Context, a Answers) {
	resp, err := w.service.Generate(ctx, Request(a), "")
	if err != nil {
		fmt.Fprintln(w.out, w.styles.err.Render("Whoops! Something went wrong."))
		fmt.Fprintln(w.out, w.styles.err.Render(service.Message(err)))
		return
	}

	fmt.Fprintln(w.out, w.styles.success.Render("Generated Password:"))
	fmt.Fprintln(w.out, w.styles.secret.Render(resp.Password))
	fmt.Fprintln(w.out)

	if w.clipboard == nil {
		return
	}
	if err := w.clipboard(resp.Password); err != nil {
		fmt.Fprintln(w.out, w.styles.err.Render("Could not copy to clipboard: "+err.Error()))
		return
	}
	fmt.Fprintln(w.out, w.styles.info.Render("Copied to clipboard."))
}

// Request converts answers into a generation request. Classes not selected are explicitly disabled.
func Request(a Answers) model.GenerateRequest {
	has := func(c crypto.CharacterClass) *bool {
		v := contains(a.Classes, c)
		return &v
	}

	return model.GenerateRequest{
		Length:    a.Length,
		Mode:      a.Mode,
		Uppercase: has(crypto.UpperCase),
		Lowercase: has(crypto.LowerCase),
		Numbers:   has(crypto.Digits),
		Symbols:   has(crypto.Symbols),
	}
}

// ClassChoices returns the classes offered for a password type.
// Easy-to-say passwords only offer letters.
func ClassChoices(mode string) []crypto.CharacterClass {
	if mode == service.ModeEasyToSay {
		return []crypto.CharacterClass{crypto.UpperCase, crypto.LowerCase}
	}
	return crypto.AllClasses
}

// ValidateLength checks a typed length.
func ValidateLength(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < service.MinLength || n > service.MaxLength {
		return ErrLengthPrompt
	}
	return nil
}

// ValidateClasses requires at least one selected class.
func ValidateClasses(classes []crypto.CharacterClass) error {
	if len(classes) == 0 {
		return ErrClassesPrompt
	}
	return nil
}
