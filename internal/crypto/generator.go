package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"strings"
)

const (
	MaxLength = 2048

	// MaxAlphabetSize is bounded by drawing one random byte per candidate index.
	MaxAlphabetSize = 256
)

var (
	ErrInvalidLength           = errors.New("password length must be between 1 and 2048")
	ErrInvalidAlphabetSize     = errors.New("alphabet must contain between 1 and 256 characters")
	ErrRandomSourceUnavailable = errors.New("secure random source unavailable")
)

// Generator draws passwords from an alphabet using rejection sampling over a
// random byte source. It holds no mutable state and is safe for concurrent use
// as long as its source is.
type Generator struct {
	source io.Reader
}

// NewGenerator returns a Generator reading from source. A nil source means crypto/rand.
func NewGenerator(source io.Reader) *Generator {
	if source == nil {
		source = rand.Reader
	}
	return &Generator{source: source}
}

// DefaultGenerator reads from crypto/rand.
var DefaultGenerator = NewGenerator(rand.Reader)

// Generate draws a password of the given length using DefaultGenerator.
func Generate(a Alphabet, length int) (string, error) {
	return DefaultGenerator.Generate(a, length)
}

// Generate returns length characters drawn uniformly and independently from a.
//
// Each random byte is masked down to the smallest power of two covering the
// alphabet and rejected when the result falls outside it, so every accepted
// index is uniform over [0, a.Len()). Since more than half of all draws are
// accepted, the expected number of bytes consumed is below 2*length.
func (g *Generator) Generate(a Alphabet, length int) (string, error) {
	if length < 1 || length > MaxLength {
		return "", ErrInvalidLength
	}

	n := a.Len()
	if n < 1 || n > MaxAlphabetSize {
		return "", ErrInvalidAlphabetSize
	}

	if n == 1 {
		return strings.Repeat(string(a.chars[0]), length), nil
	}

	mask := 1<<bits.Len(uint(n-1)) - 1

	result := make([]rune, 0, length)
	var buf []byte
	for len(result) < length {
		step := batchSize(mask, n, length-len(result))
		if cap(buf) < step {
			buf = make([]byte, step)
		}
		buf = buf[:step]

		if _, err := io.ReadFull(g.source, buf); err != nil {
			return "", fmt.Errorf("%w: %w", ErrRandomSourceUnavailable, err)
		}

		for _, b := range buf {
			idx := int(b) & mask
			if idx >= n {
				continue
			}
			result = append(result, a.chars[idx])
			if len(result) == length {
				break
			}
		}
	}

	return string(result), nil
}

// batchSize estimates how many bytes are needed to accept remaining indexes:
// 1.6 * remaining / acceptance rate, where the acceptance rate is n/(mask+1).
func batchSize(mask, n, remaining int) int {
	size := (16*(mask+1)*remaining + 10*n - 1) / (10 * n)
	if size < 1 {
		size = 1
	}
	return size
}
