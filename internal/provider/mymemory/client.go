package mymemory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-pim/internal/logging"
	"github.com/goliatone/go-pim/pkg/interfaces"
)

// DefaultEndpoint is the public MyMemory translation API.
const DefaultEndpoint = "https://api.mymemory.translated.net/get"

const (
	defaultTimeout = 15 * time.Second

	providerRequestFailed  = "TRANSLATION_PROVIDER_REQUEST_FAILED"
	providerBadResponse    = "TRANSLATION_PROVIDER_BAD_RESPONSE"
	providerRejectedStatus = "TRANSLATION_PROVIDER_REJECTED"
)

// Client calls the MyMemory HTTP API. A request carries the text as the `q`
// query parameter and the language pair as `langpair=<source>|<target>`.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     interfaces.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout sets the per-request timeout on the underlying client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithLogger wires a logger provider into the client.
func WithLogger(provider interfaces.LoggerProvider) Option {
	return func(c *Client) {
		c.logger = logging.ProviderLogger(provider)
	}
}

// NewClient constructs a MyMemory client. An empty endpoint falls back to
// the public API.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ interfaces.TranslationProvider = (*Client)(nil)

type response struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  flexStatus `json:"responseStatus"`
	ResponseDetails string     `json:"responseDetails"`
}

// flexStatus tolerates the API reporting status both as a number and as a
// quoted string.
type flexStatus int

func (s *flexStatus) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(string(data), `"`)
	if trimmed == "" || trimmed == "null" {
		*s = 0
		return nil
	}
	var value int
	if _, err := fmt.Sscanf(trimmed, "%d", &value); err != nil {
		*s = 0
		return nil
	}
	*s = flexStatus(value)
	return nil
}

// Translate returns the target-language rendition of text. Asking for the
// source language back is a pass-through, the API rejects identical pairs.
func (c *Client) Translate(ctx context.Context, text, sourceISO, targetISO string) (string, error) {
	if strings.EqualFold(sourceISO, targetISO) {
		return text, nil
	}

	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", sourceISO+"|"+targetISO)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryExternal, "building provider request").
			WithTextCode(providerRequestFailed)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryExternal, "translation provider unreachable").
			WithTextCode(providerRequestFailed)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", goerrors.New(
			fmt.Sprintf("translation provider returned HTTP %d", res.StatusCode),
			goerrors.CategoryExternal,
		).WithTextCode(providerRejectedStatus)
	}

	var payload response
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryExternal, "decoding provider response").
			WithTextCode(providerBadResponse)
	}

	if status := int(payload.ResponseStatus); status != 0 && status != http.StatusOK {
		c.logger.Warn("provider rejected request",
			"status", status, "details", payload.ResponseDetails)
		return "", goerrors.New(
			fmt.Sprintf("translation provider rejected request: %s", payload.ResponseDetails),
			goerrors.CategoryExternal,
		).WithTextCode(providerRejectedStatus)
	}

	translated := payload.ResponseData.TranslatedText
	if translated == "" {
		return "", goerrors.New(
			"translation provider returned an empty translation",
			goerrors.CategoryExternal,
		).WithTextCode(providerBadResponse)
	}

	c.logger.Debug("translated text", "langpair", sourceISO+"|"+targetISO, "chars", len(text))
	return translated, nil
}
