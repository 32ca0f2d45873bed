package wizard

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/vaultpass/passforge/internal/crypto"
	"github.com/vaultpass/passforge/internal/service"
)

var classLabels = map[crypto.CharacterClass]string{
	crypto.UpperCase: "Uppercase",
	crypto.LowerCase: "Lowercase",
	crypto.Digits:    "Numbers",
	crypto.Symbols:   "Symbols",
}

// HuhPrompter implements Prompter with terminal forms.
type HuhPrompter struct {
	accessible bool
}

// NewHuhPrompter returns a HuhPrompter. Accessible mode uses plain line prompts
// instead of the full-screen TUI.
func NewHuhPrompter(accessible bool) *HuhPrompter {
	return &HuhPrompter{accessible: accessible}
}

// Ask runs the length and type form, then the character class form whose choices depend on the type.
func (p *HuhPrompter) Ask(defaults Answers) (Answers, error) {
	lengthStr := strconv.Itoa(defaults.Length)
	mode := defaults.Mode

	first := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Password length").
				Description("Must be between 4 and 2048").
				Value(&lengthStr).
				Validate(ValidateLength),

			huh.NewSelect[string]().
				Title("Please choose password property").
				Options(
					huh.NewOption("Avoid numbers and special characters", service.ModeEasyToSay),
					huh.NewOption("Avoid ambiguous characters like O, 0, l, 1, |", service.ModeEasyToRead),
					huh.NewOption("Use any character combination like 1, 5, a, B, ~, #, &", service.ModeAllCharacters),
				).
				Value(&mode),
		),
	).WithAccessible(p.accessible)

	if err := first.Run(); err != nil {
		return defaults, mapError(err)
	}

	choices := ClassChoices(mode)
	var classes []crypto.CharacterClass
	options := make([]huh.Option[crypto.CharacterClass], len(choices))
	for i, c := range choices {
		selected := contains(defaults.Classes, c)
		if selected {
			classes = append(classes, c)
		}
		options[i] = huh.NewOption(classLabels[c], c).Selected(selected)
	}

	second := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[crypto.CharacterClass]().
				Title("Please select characters to include in password").
				Options(options...).
				Value(&classes).
				Validate(ValidateClasses),
		),
	).WithAccessible(p.accessible)

	if err := second.Run(); err != nil {
		return defaults, mapError(err)
	}

	length, _ := strconv.Atoi(strings.TrimSpace(lengthStr))
	return Answers{Length: length, Mode: mode, Classes: classes}, nil
}

// Again asks whether to generate another password.
func (p *HuhPrompter) Again() (bool, error) {
	again := true
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Generate another password?").
				Value(&again),
		),
	).WithAccessible(p.accessible)

	if err := form.Run(); err != nil {
		return false, mapError(err)
	}
	return again, nil
}

func mapError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}

func contains(classes []crypto.CharacterClass, c crypto.CharacterClass) bool {
	for _, s := range classes {
		if s == c {
			return true
		}
	}
	return false
}

var _ Prompter = (*HuhPrompter)(nil)
