package faucet

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/stealth"
)

// fetchJS issues the claim from inside the page so the request carries
// the site's cookies and passes its bot checks.
const fetchJS = `async (url) => {
	const res = await fetch(url, { headers: { Accept: "application/json" } });
	return { status: res.status, body: await res.text() };
}`

// BrowserClaimer sends the claim request from a stealth browser page
// opened on the faucet's origin.
type BrowserClaimer struct {
	endpoint   string
	controlURL string
	opts       Options
	log        *log.Logger
}

func NewBrowserClaimer(opts Options) *BrowserClaimer {
	opts = opts.withDefaults()
	return &BrowserClaimer{
		endpoint:   opts.Endpoint,
		controlURL: opts.BrowserURL,
		opts:       opts,
		log:        opts.Logger,
	}
}

func (c *BrowserClaimer) Claim(ctx context.Context, address string) (*Response, error) {
	target, err := ClaimURL(c.endpoint, address)
	if err != nil {
		return nil, &TransportFailureError{Err: err}
	}
	origin, err := originOf(target)
	if err != nil {
		return nil, &TransportFailureError{Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	browser := rod.New().Context(ctx)
	if c.controlURL != "" {
		browser = browser.ControlURL(c.controlURL)
	}

	c.log.Debug("connecting to browser")
	if err := browser.Connect(); err != nil {
		return nil, &TransportFailureError{Err: fmt.Errorf("connect browser: %w", err)}
	}
	defer browser.Close()

	page, err := stealth.Page(browser)
	if err != nil {
		return nil, &TransportFailureError{Err: fmt.Errorf("open page: %w", err)}
	}

	c.log.Debug("navigating to faucet", "origin", origin)
	if err := page.Navigate(origin); err != nil {
		return nil, &TransportFailureError{Err: fmt.Errorf("navigate: %w", err)}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &TransportFailureError{Err: fmt.Errorf("wait load: %w", err)}
	}

	res, err := page.Eval(fetchJS, target)
	if err != nil {
		return nil, &TransportFailureError{Err: fmt.Errorf("fetch claim: %w", err)}
	}

	status := res.Value.Get("status").Int()
	resp, err := decodeResponse(status, strings.NewReader(res.Value.Get("body").Str()))
	if err != nil {
		c.log.Warn("claim failed", "address", address, "status", status, "err", err)
		return nil, err
	}

	c.log.Info("claim accepted", "address", address, "status", status, "tx", resp.TxHash)
	return resp, nil
}

func originOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("endpoint %q must be an absolute URL", rawURL)
	}
	return u.Scheme + "://" + u.Host + "/", nil
}

func init() {
	factories["browser"] = func(opts Options) Claimer { return NewBrowserClaimer(opts) }
}
