package intercept

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// DefaultLanguageHeader carries the requested content language id.
const DefaultLanguageHeader = "x-idioma-id"

// ErrLanguageHeaderInvalid rejects non-numeric header values.
var ErrLanguageHeaderInvalid = errors.New("intercept: language header is not a valid id")

type languageKey struct{}

// WithLanguageID stores the resolved language id on the context.
func WithLanguageID(ctx context.Context, languageID int64) context.Context {
	return context.WithValue(ctx, languageKey{}, languageID)
}

// LanguageIDFromContext returns the language id stored on the context, if any.
func LanguageIDFromContext(ctx context.Context) (int64, bool) {
	languageID, ok := ctx.Value(languageKey{}).(int64)
	return languageID, ok
}

// ParseLanguageHeader resolves the requested language from an HTTP request.
// An absent header means the native language. The returned bool reports
// whether translation work applies, false when the request targets the
// native language.
func ParseLanguageHeader(r *http.Request, header string, nativeID int64) (int64, bool, error) {
	if header == "" {
		header = DefaultLanguageHeader
	}
	raw := strings.TrimSpace(r.Header.Get(header))
	if raw == "" {
		return nativeID, false, nil
	}
	languageID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || languageID <= 0 {
		return 0, false, ErrLanguageHeaderInvalid
	}
	if languageID == nativeID {
		return nativeID, false, nil
	}
	return languageID, true, nil
}
