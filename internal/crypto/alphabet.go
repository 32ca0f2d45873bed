package crypto

import (
	"errors"
	"fmt"
	"strings"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars     = "0123456789"
	symbolChars    = "!\"#$%&'()*+,-./:;<=>?@[]^_`{|}~"

	// ambiguousChars are removed under ExcludeAmbiguous.
	ambiguousChars = "O0l1|"
)

var (
	ErrEmptyClassSelection         = errors.New("at least one character class must be selected")
	ErrEmptyAlphabetAfterExclusion = errors.New("no characters left after applying exclusions")
	ErrUnknownCharacterClass       = errors.New("unknown character class")
)

// CharacterClass identifies one of the canonical character sets.
// Constants are declared in the order their sets are concatenated.
type CharacterClass int

const (
	UpperCase CharacterClass = iota
	LowerCase
	Digits
	Symbols
)

// AllClasses lists every character class in concatenation order.
var AllClasses = []CharacterClass{UpperCase, LowerCase, Digits, Symbols}

// Chars returns the canonical character set of the class, or "" for unknown values.
func (c CharacterClass) Chars() string {
	switch c {
	case UpperCase:
		return uppercaseChars
	case LowerCase:
		return lowercaseChars
	case Digits:
		return digitChars
	case Symbols:
		return symbolChars
	}
	return ""
}

func (c CharacterClass) String() string {
	switch c {
	case UpperCase:
		return "upper-case"
	case LowerCase:
		return "lower-case"
	case Digits:
		return "number"
	case Symbols:
		return "symbols"
	}
	return fmt.Sprintf("CharacterClass(%d)", int(c))
}

// ParseCharacterClass is the inverse of CharacterClass.String.
func ParseCharacterClass(s string) (CharacterClass, error) {
	for _, c := range AllClasses {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCharacterClass, s)
}

// ExclusionPolicy controls which characters are filtered out of an assembled alphabet.
type ExclusionPolicy int

const (
	ExcludeNone ExclusionPolicy = iota
	ExcludeAmbiguous
)

func (p ExclusionPolicy) String() string {
	if p == ExcludeAmbiguous {
		return "exclude-ambiguous"
	}
	return "none"
}

// Alphabet is an ordered set of unique characters eligible for a password.
// The zero value is empty and rejected by Generate.
type Alphabet struct {
	chars []rune
}

// Assemble builds the alphabet for the selected classes with the given exclusion policy.
// The order and multiplicity of classes do not matter: sets are always concatenated
// as UpperCase, LowerCase, Digits, Symbols.
func Assemble(classes []CharacterClass, exclusion ExclusionPolicy) (Alphabet, error) {
	selected := make(map[CharacterClass]bool, len(classes))
	for _, c := range classes {
		if c.Chars() != "" {
			selected[c] = true
		}
	}
	if len(selected) == 0 {
		return Alphabet{}, ErrEmptyClassSelection
	}

	var sb strings.Builder
	for _, c := range AllClasses {
		if selected[c] {
			sb.WriteString(c.Chars())
		}
	}

	chars := []rune(sb.String())
	if exclusion == ExcludeAmbiguous {
		chars = removeAmbiguous(chars)
	}

	chars = dedupe(chars)
	if len(chars) == 0 {
		return Alphabet{}, ErrEmptyAlphabetAfterExclusion
	}

	return Alphabet{chars: chars}, nil
}

// NewAlphabet builds an alphabet from arbitrary characters, keeping the first
// occurrence of each.
func NewAlphabet(chars string) (Alphabet, error) {
	runes := dedupe([]rune(chars))
	if len(runes) == 0 {
		return Alphabet{}, ErrInvalidAlphabetSize
	}
	return Alphabet{chars: runes}, nil
}

// Len returns the number of characters in the alphabet.
func (a Alphabet) Len() int {
	return len(a.chars)
}

// String returns the characters of the alphabet in order.
func (a Alphabet) String() string {
	return string(a.chars)
}

// Contains reports whether r belongs to the alphabet.
func (a Alphabet) Contains(r rune) bool {
	for _, c := range a.chars {
		if c == r {
			return true
		}
	}
	return false
}

func removeAmbiguous(chars []rune) []rune {
	out := chars[:0]
	for _, c := range chars {
		if !strings.ContainsRune(ambiguousChars, c) {
			out = append(out, c)
		}
	}
	return out
}

func dedupe(chars []rune) []rune {
	seen := make(map[rune]struct{}, len(chars))
	out := make([]rune, 0, len(chars))
	for _, c := range chars {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
