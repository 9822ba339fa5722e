// Package browse manages disposable headless Chrome sessions for vendor
// scraping: launch, stealth page with a fixed desktop user-agent and French
// locale, and guaranteed teardown.
package browse

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/hazyhaar/prixwatch/offer"
)

// DefaultUserAgent is the desktop UA presented to every vendor site.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// Config configures browser sessions.
type Config struct {
	// RemoteURL is the WebSocket URL of an external Chrome instance.
	// Empty = launch a disposable local Chrome per session.
	RemoteURL string

	// UserAgent presented to vendor sites. Default: DefaultUserAgent.
	UserAgent string

	// Locale sent as Accept-Language. Default: "fr-FR".
	Locale string

	// NavTimeout bounds each navigation step. Default: 30s.
	NavTimeout time.Duration

	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Locale == "" {
		c.Locale = "fr-FR"
	}
	if c.NavTimeout <= 0 {
		c.NavTimeout = 30 * time.Second
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Session is one disposable browser with a single stealth page.
type Session struct {
	browser *rod.Browser
	lnch    *launcher.Launcher
	page    *rod.Page
	cfg     Config
}

// Open launches Chrome (or connects to a remote instance) and prepares a
// stealth page with the configured user-agent and locale.
func Open(ctx context.Context, cfg Config) (*Session, error) {
	cfg.defaults()

	s := &Session{cfg: cfg}

	wsURL := cfg.RemoteURL
	if wsURL == "" {
		l := launcher.New().
			Headless(true).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("browse: launch: %w", err)
		}
		wsURL = u
		s.lnch = l
	}

	b := rod.New().ControlURL(wsURL).Context(ctx)
	if err := b.Connect(); err != nil {
		s.cleanup()
		return nil, fmt.Errorf("browse: connect: %w", err)
	}
	s.browser = b

	page, err := stealth.Page(b)
	if err != nil {
		s.cleanup()
		return nil, fmt.Errorf("browse: stealth page: %w", err)
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      cfg.UserAgent,
		AcceptLanguage: cfg.Locale,
	}); err != nil {
		s.page = page
		s.cleanup()
		return nil, fmt.Errorf("browse: user agent: %w", err)
	}
	s.page = page

	return s, nil
}

// Navigate loads a URL in the session page, bounded by the nav timeout.
// A load-event timeout after a successful navigation is tolerated: slow
// third-party assets must not sink the whole scrape.
func (s *Session) Navigate(ctx context.Context, pageURL string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavTimeout)
	defer cancel()

	if err := s.page.Context(navCtx).Navigate(pageURL); err != nil {
		return fmt.Errorf("browse: navigate %s: %w", pageURL, err)
	}
	if err := s.page.Context(navCtx).WaitLoad(); err != nil {
		s.cfg.Logger.Debug("browse: wait load timeout", "url", pageURL, "error", err)
	}
	return nil
}

// HTML serialises the current document as outer HTML.
func (s *Session) HTML(ctx context.Context) (string, error) {
	res, err := s.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return "", fmt.Errorf("browse: html: %w", err)
	}
	return res.Value.Str(), nil
}

// Text returns the rendered visible text of the current document.
func (s *Session) Text(ctx context.Context) (string, error) {
	res, err := s.page.Context(ctx).Eval(`() => document.body ? document.body.innerText : ""`)
	if err != nil {
		return "", fmt.Errorf("browse: text: %w", err)
	}
	return res.Value.Str(), nil
}

// ElementText returns the trimmed text of the first selector that matches.
func (s *Session) ElementText(ctx context.Context, selectors ...string) (string, bool) {
	for _, sel := range selectors {
		has, el, err := s.page.Context(ctx).Has(sel)
		if err != nil || !has {
			continue
		}
		text, err := el.Text()
		if err != nil {
			continue
		}
		if t := strings.TrimSpace(text); t != "" {
			return t, true
		}
	}
	return "", false
}

// FirstLink returns the href of the first selector that matches an anchor.
func (s *Session) FirstLink(ctx context.Context, selectors ...string) (string, bool) {
	for _, sel := range selectors {
		has, el, err := s.page.Context(ctx).Has(sel)
		if err != nil || !has {
			continue
		}
		href, err := el.Attribute("href")
		if err != nil || href == nil || *href == "" {
			continue
		}
		return *href, true
	}
	return "", false
}

// Close tears the session down. Safe to call on a partially-opened session.
func (s *Session) Close() {
	s.cleanup()
}

func (s *Session) cleanup() {
	if s.page != nil {
		_ = s.page.Close()
		s.page = nil
	}
	if s.browser != nil {
		_ = s.browser.Close()
		s.browser = nil
	}
	if s.lnch != nil {
		s.lnch.Cleanup()
		s.lnch = nil
	}
}

// WithSession runs fn inside a disposable session. Teardown is guaranteed
// on every path; fn's error is returned to the caller, which is expected to
// log it and treat the result as an empty offer list.
func WithSession(ctx context.Context, cfg Config, fn func(ctx context.Context, s *Session) ([]offer.Offer, error)) ([]offer.Offer, error) {
	s, err := Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return fn(ctx, s)
}
