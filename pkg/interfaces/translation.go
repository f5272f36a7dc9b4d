package interfaces

import "context"

// TranslationProvider is the outbound contract for machine translation.
// Implementations translate text from a source ISO code into a target ISO
// code and must return the input unchanged when the remote service reports
// both languages as identical.
type TranslationProvider interface {
	Translate(ctx context.Context, text, sourceISO, targetISO string) (string, error)
}
