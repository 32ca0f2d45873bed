package service

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"strings"

	"github.com/vaultpass/passforge/internal/crypto"
	"github.com/vaultpass/passforge/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	MinLength     = 4
	MaxLength     = crypto.MaxLength
	DefaultLength = 16
	MaxCount      = 50
)

// Password types offered by the generator.
const (
	ModeEasyToSay     = "easy-to-say"
	ModeEasyToRead    = "easy-to-read"
	ModeAllCharacters = "all-characters"
)

var (
	ErrLengthOutOfRange   = errors.New("password length must be between 4 and 2048")
	ErrNoCharacterClasses = errors.New("at least one character type must be selected")
	ErrUnknownMode        = errors.New("mode must be one of easy-to-say, easy-to-read, all-characters")
	ErrCountOutOfRange    = errors.New("count must be between 1 and 50")
)

// EventRecorder receives an audit event for every generation request.
type EventRecorder interface {
	Insert(ctx context.Context, event *model.GenerationEvent) error
}

// Policy is a validated generation request with all defaults applied.
type Policy struct {
	Length    int
	Count     int
	Mode      string
	Classes   []crypto.CharacterClass
	Exclusion crypto.ExclusionPolicy
}

// GeneratorService validates generation requests and runs them through the
// alphabet assembler and the random selection engine.
type GeneratorService struct {
	generator      *crypto.Generator
	recorder       EventRecorder
	fingerprintKey []byte
	defaultLength  int
}

// Option configures a GeneratorService.
type Option func(*GeneratorService)

// WithGenerator replaces the crypto/rand backed generator.
func WithGenerator(g *crypto.Generator) Option {
	return func(s *GeneratorService) { s.generator = g }
}

// WithRecorder enables audit events.
func WithRecorder(r EventRecorder) Option {
	return func(s *GeneratorService) { s.recorder = r }
}

// WithFingerprintKey sets the key used to pseudonymize client addresses in audit events.
func WithFingerprintKey(key []byte) Option {
	return func(s *GeneratorService) { s.fingerprintKey = key }
}

// WithDefaultLength sets the length used when a request leaves it unset.
func WithDefaultLength(n int) Option {
	return func(s *GeneratorService) { s.defaultLength = n }
}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService(opts ...Option) *GeneratorService {
	s := &GeneratorService{
		generator:     crypto.DefaultGenerator,
		defaultLength: DefaultLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve applies defaults to req and validates the result.
func (s *GeneratorService) Resolve(req model.GenerateRequest) (Policy, error) {
	p := Policy{
		Length: req.Length,
		Count:  req.Count,
		Mode:   req.Mode,
	}
	if p.Length == 0 {
		p.Length = s.defaultLength
	}
	if p.Count == 0 {
		p.Count = 1
	}
	if p.Mode == "" {
		p.Mode = ModeAllCharacters
	}

	if p.Length < MinLength || p.Length > MaxLength {
		return p, ErrLengthOutOfRange
	}
	if p.Count < 1 || p.Count > MaxCount {
		return p, ErrCountOutOfRange
	}

	switch p.Mode {
	case ModeEasyToSay, ModeAllCharacters:
	case ModeEasyToRead:
		p.Exclusion = crypto.ExcludeAmbiguous
	default:
		return p, ErrUnknownMode
	}
	if boolOrDefault(req.ExcludeAmbiguous, false) {
		p.Exclusion = crypto.ExcludeAmbiguous
	}

	if boolOrDefault(req.Uppercase, true) {
		p.Classes = append(p.Classes, crypto.UpperCase)
	}
	if boolOrDefault(req.Lowercase, true) {
		p.Classes = append(p.Classes, crypto.LowerCase)
	}
	// Easy-to-say passwords are letters only.
	if p.Mode != ModeEasyToSay {
		if boolOrDefault(req.Numbers, true) {
			p.Classes = append(p.Classes, crypto.Digits)
		}
		if boolOrDefault(req.Symbols, true) {
			p.Classes = append(p.Classes, crypto.Symbols)
		}
	}
	if len(p.Classes) == 0 {
		return p, ErrNoCharacterClasses
	}

	return p, nil
}

// Generate produces one or more passwords for the given request. client identifies
// the caller for audit purposes and is only stored as a keyed fingerprint.
func (s *GeneratorService) Generate(ctx context.Context, req model.GenerateRequest, client string) (model.GenerateResponse, error) {
	policy, err := s.Resolve(req)
	event := s.newEvent(policy, client)
	if err != nil {
		s.record(ctx, event, 0, err)
		return model.GenerateResponse{}, err
	}

	alphabet, err := crypto.Assemble(policy.Classes, policy.Exclusion)
	if err != nil {
		s.record(ctx, event, 0, err)
		return model.GenerateResponse{}, err
	}

	passwords, err := s.generateBatch(ctx, alphabet, policy)
	s.record(ctx, event, alphabet.Len(), err)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	resp := model.GenerateResponse{
		Password:     passwords[0],
		Length:       policy.Length,
		AlphabetSize: alphabet.Len(),
	}
	if len(passwords) > 1 {
		resp.Passwords = passwords
	}
	return resp, nil
}

// generateBatch draws policy.Count independent passwords concurrently.
func (s *GeneratorService) generateBatch(ctx context.Context, alphabet crypto.Alphabet, policy Policy) ([]string, error) {
	passwords := make([]string, policy.Count)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range passwords {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p, err := s.generator.Generate(alphabet, policy.Length)
			if err != nil {
				return err
			}
			passwords[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return passwords, nil
}

func (s *GeneratorService) newEvent(p Policy, client string) *model.GenerationEvent {
	names := make([]string, len(p.Classes))
	for i, c := range p.Classes {
		names[i] = c.String()
	}

	event := &model.GenerationEvent{
		Length:           p.Length,
		Count:            p.Count,
		Classes:          strings.Join(names, ","),
		Mode:             p.Mode,
		ExcludeAmbiguous: p.Exclusion == crypto.ExcludeAmbiguous,
	}
	if client != "" {
		event.ClientFingerprint = crypto.Fingerprint(s.fingerprintKey, client)
	}
	return event
}

func (s *GeneratorService) record(ctx context.Context, event *model.GenerationEvent, alphabetSize int, genErr error) {
	event.AlphabetSize = alphabetSize
	event.Outcome = outcomeOf(genErr)
	if genErr != nil {
		event.Reason = truncate(genErr.Error(), 255)
	}

	if event.Outcome == model.OutcomeEntropyFailure {
		slog.Error("secure random source unavailable", "error", genErr)
	}

	if s.recorder == nil {
		return
	}
	if err := s.recorder.Insert(ctx, event); err != nil {
		slog.Warn("recording generation event failed", "outcome", event.Outcome, "error", err)
	}
}

func outcomeOf(err error) model.Outcome {
	switch {
	case err == nil:
		return model.OutcomeGenerated
	case IsValidationError(err):
		return model.OutcomeRejected
	case IsEntropyFailure(err):
		return model.OutcomeEntropyFailure
	default:
		return model.OutcomeFailed
	}
}

// IsValidationError reports whether err was caused by the request itself.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrLengthOutOfRange) ||
		errors.Is(err, ErrNoCharacterClasses) ||
		errors.Is(err, ErrUnknownMode) ||
		errors.Is(err, ErrCountOutOfRange) ||
		errors.Is(err, crypto.ErrEmptyClassSelection) ||
		errors.Is(err, crypto.ErrEmptyAlphabetAfterExclusion) ||
		errors.Is(err, crypto.ErrInvalidLength) ||
		errors.Is(err, crypto.ErrInvalidAlphabetSize)
}

// IsEntropyFailure reports whether err comes from an unavailable random source.
func IsEntropyFailure(err error) bool {
	return errors.Is(err, crypto.ErrRandomSourceUnavailable)
}

// Message returns the text to show a user for err.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case IsValidationError(err):
		return err.Error()
	case IsEntropyFailure(err):
		return "secure random source unavailable, please try again later"
	default:
		return "something went wrong"
	}
}

// boolOrDefault returns the dereferenced pointer value, or the fallback if nil.
func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
