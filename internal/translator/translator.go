package translator

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-pim/internal/exclusions"
	"github.com/goliatone/go-pim/internal/logging"
	"github.com/goliatone/go-pim/pkg/interfaces"
)

// Outcome describes how a value was produced.
type Outcome string

const (
	// OutcomeTranslated means the provider translated the full text.
	OutcomeTranslated Outcome = "translated"
	// OutcomeVerbatim means the text was stored unchanged, either because it
	// matched an exact-value rule or there was nothing to translate.
	OutcomeVerbatim Outcome = "verbatim"
	// OutcomePartial means protected substrings could not be preserved and
	// the text was re-translated without protection.
	OutcomePartial Outcome = "partial"
)

// Result is a translated value together with how it was obtained.
type Result struct {
	Text    string
	Outcome Outcome
}

// Translator runs provider translations under the exclusion policy: values
// matching an exact rule pass through verbatim, and substrings named by
// content rules are shielded behind placeholders for the round-trip.
type Translator struct {
	provider  interfaces.TranslationProvider
	registry  *exclusions.Registry
	sourceISO string
	logger    interfaces.Logger
}

// Option customizes a Translator.
type Option func(*Translator)

// WithLogger wires a logger provider into the translator.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(t *Translator) {
		t.logger = logging.ProviderLogger(provider)
	}
}

// New constructs a Translator. sourceISO is the language content is authored
// in; an empty value defaults to Spanish.
func New(provider interfaces.TranslationProvider, registry *exclusions.Registry, sourceISO string, opts ...Option) *Translator {
	if sourceISO == "" {
		sourceISO = "es"
	}
	t := &Translator{
		provider:  provider,
		registry:  registry,
		sourceISO: sourceISO,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate produces the target-language rendition of text under the active
// exclusion rules.
func (t *Translator) Translate(ctx context.Context, text, targetISO string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{Text: text, Outcome: OutcomeVerbatim}, nil
	}

	classification, protected, err := t.registry.Classify(ctx, text)
	if err != nil {
		return Result{}, err
	}

	switch classification {
	case exclusions.ClassificationExactMatch:
		return Result{Text: text, Outcome: OutcomeVerbatim}, nil
	case exclusions.ClassificationContainsExcluded:
		return t.translateProtected(ctx, text, targetISO, protected)
	default:
		translated, err := t.provider.Translate(ctx, text, t.sourceISO, targetISO)
		if err != nil {
			return Result{}, err
		}
		return Result{Text: translated, Outcome: OutcomeTranslated}, nil
	}
}

// translateProtected swaps each protected substring for a placeholder before
// the provider round-trip and restores it afterwards. If the provider mangled
// any placeholder the text is re-translated unprotected and the result is
// flagged partial rather than shipping a leaked token to readers.
func (t *Translator) translateProtected(ctx context.Context, text, targetISO string, protected []string) (Result, error) {
	masked := text
	tokens := make([]string, len(protected))
	for i, fragment := range protected {
		tokens[i] = placeholder(i)
		masked = strings.Replace(masked, fragment, tokens[i], 1)
	}

	translated, err := t.provider.Translate(ctx, masked, t.sourceISO, targetISO)
	if err != nil {
		return Result{}, err
	}

	restored := translated
	intact := true
	for i, token := range tokens {
		if strings.Count(restored, token) != 1 {
			intact = false
			break
		}
		restored = strings.Replace(restored, token, protected[i], 1)
	}

	if intact {
		return Result{Text: restored, Outcome: OutcomeTranslated}, nil
	}

	t.logger.Warn("placeholder lost in provider round-trip, retrying unprotected",
		"target", targetISO, "protected", len(protected))

	unprotected, err := t.provider.Translate(ctx, text, t.sourceISO, targetISO)
	if err != nil {
		return Result{}, err
	}
	return Result{Text: unprotected, Outcome: OutcomePartial}, nil
}

func placeholder(i int) string {
	return fmt.Sprintf("{{%d}}", i)
}
