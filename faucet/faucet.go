package faucet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds a single claim request.
const DefaultTimeout = 30 * time.Second

// Response is the JSON body returned by the claim endpoint.
type Response struct {
	Message string `json:"message,omitempty"`
	TxHash  string `json:"txHash,omitempty"`
}

// Claimer asks the faucet to send tokens to address.
type Claimer interface {
	Claim(ctx context.Context, address string) (*Response, error)
}

// Options configure a Claimer built with New.
type Options struct {
	Endpoint   string
	Timeout    time.Duration
	BrowserURL string
	Logger     *log.Logger
}

var factories = map[string]func(Options) Claimer{}

// New builds the claimer registered under name.
func New(name string, opts Options) (Claimer, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown claimer %q (available: %v)", name, Names())
	}
	return factory(opts), nil
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Names lists the registered claimers.
func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClaimURL appends the address query parameter to endpoint.
func ClaimURL(endpoint, address string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	q := u.Query()
	q.Set("address", address)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// wireResponse accepts any JSON value in message so a server that sends
// a number or object still gets its text shown.
type wireResponse struct {
	Message json.RawMessage `json:"message"`
	TxHash  string          `json:"txHash"`
}

// messageText renders a raw message value. null, false, 0 and "" render
// as empty so the caller falls back to a default.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	switch v := v.(type) {
	case nil:
		return ""
	case bool:
		if !v {
			return ""
		}
	case float64:
		if v == 0 {
			return ""
		}
	}
	return string(raw)
}

// decodeResponse turns a status and JSON body into a Response or a
// ClaimError.
func decodeResponse(status int, body io.Reader) (*Response, error) {
	var wire wireResponse
	if err := json.NewDecoder(body).Decode(&wire); err != nil {
		return nil, &TransportFailureError{Err: fmt.Errorf("decode response (status %d): %w", status, err)}
	}
	resp := Response{Message: messageText(wire.Message), TxHash: wire.TxHash}

	if status < 200 || status > 299 {
		reason := resp.Message
		if reason == "" {
			reason = MsgClaimFailed
		}
		return nil, &EndpointRejectedError{StatusCode: status, Reason: reason}
	}

	return &resp, nil
}

// HTTPClaimer calls the endpoint with a plain HTTP GET.
type HTTPClaimer struct {
	endpoint string
	client   *http.Client
	log      *log.Logger
}

func NewHTTPClaimer(opts Options) *HTTPClaimer {
	opts = opts.withDefaults()
	return &HTTPClaimer{
		endpoint: opts.Endpoint,
		client:   &http.Client{Timeout: opts.Timeout},
		log:      opts.Logger,
	}
}

func (c *HTTPClaimer) Claim(ctx context.Context, address string) (*Response, error) {
	target, err := ClaimURL(c.endpoint, address)
	if err != nil {
		return nil, &TransportFailureError{Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportFailureError{Err: err}
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debug("sending claim", "address", address, "url", target)
	res, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("claim request failed", "address", address, "err", err)
		return nil, &TransportFailureError{Err: err}
	}
	defer res.Body.Close()

	resp, err := decodeResponse(res.StatusCode, res.Body)
	if err != nil {
		c.log.Warn("claim failed", "address", address, "status", res.StatusCode, "err", err)
		return nil, err
	}

	c.log.Info("claim accepted", "address", address, "status", res.StatusCode, "tx", resp.TxHash)
	return resp, nil
}

func init() {
	factories["http"] = func(opts Options) Claimer { return NewHTTPClaimer(opts) }
}
