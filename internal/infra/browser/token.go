// Package browser drives a headless Chromium session to pull a fresh
// Metabase embed token out of the booking platform's report page.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// DefaultTimeoutSec bounds the whole browser session, covering the magic
// link sign-in, the optional password challenge and the report page load.
const DefaultTimeoutSec = 120

// Options defines parameters for one token extraction run.
type Options struct {
	// MagicURL is the passwordless sign-in link for the platform dashboard.
	MagicURL string

	// SecondaryPassword answers the password challenge some accounts get
	// after following the magic link.
	SecondaryPassword string

	// AppBaseURL is the dashboard origin, e.g. "https://app.example.com".
	AppBaseURL string

	// ReportID selects the report page carrying the embed iframe.
	ReportID int

	// EmbedHost is the host the iframe src must contain, e.g.
	// "reports.example.com".
	EmbedHost string

	// Timeout bounds the entire session. If zero, DefaultTimeoutSec is used.
	Timeout time.Duration
}

const passwordProbeJS = `(() => {
	const el = document.querySelector("input[type='password']");
	return !!(el && el.offsetParent !== null);
})()`

const submitClickJS = `(() => {
	const byType = Array.from(document.querySelectorAll("button[type='submit']"));
	const byText = Array.from(document.querySelectorAll("button"))
		.filter((b) => /submit|continue|verify/i.test(b.textContent || ""));
	const btn = byType.concat(byText).find((b) => b.offsetParent !== null);
	if (btn) {
		btn.click();
		return true;
	}
	const form = document.querySelector("form");
	if (form) {
		form.submit();
		return true;
	}
	return false;
})()`

// ExtractReportToken signs in with the magic URL, answers the secondary
// password challenge when one appears, opens the report page and reads the
// embed token from the report iframe's src attribute.
func ExtractReportToken(parentCtx context.Context, opts Options) (string, error) {
	if opts.MagicURL == "" {
		return "", fmt.Errorf("browser: MagicURL is required")
	}
	if opts.AppBaseURL == "" || opts.EmbedHost == "" {
		return "", fmt.Errorf("browser: AppBaseURL and EmbedHost are required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	if err := chromedp.Run(ctx,
		chromedp.Navigate(opts.MagicURL),
		chromedp.Sleep(3*time.Second),
	); err != nil {
		return "", fmt.Errorf("browser: magic link navigation failed: %w", err)
	}

	var hasChallenge bool
	if err := chromedp.Run(ctx, chromedp.Evaluate(passwordProbeJS, &hasChallenge)); err != nil {
		return "", fmt.Errorf("browser: password probe failed: %w", err)
	}
	if hasChallenge {
		if opts.SecondaryPassword == "" {
			return "", fmt.Errorf("browser: password challenge shown but no secondary password configured")
		}
		var clicked bool
		if err := chromedp.Run(ctx,
			chromedp.SendKeys("input[type='password']", opts.SecondaryPassword, chromedp.ByQuery),
			chromedp.Evaluate(submitClickJS, &clicked),
			chromedp.Sleep(5*time.Second),
		); err != nil {
			return "", fmt.Errorf("browser: password challenge failed: %w", err)
		}
		slog.Debug("answered password challenge", "submitted", clicked)
	}

	reportURL := fmt.Sprintf("%s/reports/users/%d", strings.TrimRight(opts.AppBaseURL, "/"), opts.ReportID)
	iframeSel := fmt.Sprintf("iframe[src*=%q]", opts.EmbedHost)

	var src string
	var found bool
	if err := chromedp.Run(ctx,
		chromedp.Navigate(reportURL),
		chromedp.Sleep(5*time.Second),
		chromedp.WaitVisible(iframeSel, chromedp.ByQuery),
		chromedp.AttributeValue(iframeSel, "src", &src, &found, chromedp.ByQuery),
	); err != nil {
		return "", fmt.Errorf("browser: report iframe lookup failed: %w", err)
	}
	if !found || src == "" {
		return "", fmt.Errorf("browser: report iframe has no src attribute")
	}

	token, err := TokenFromIframeSrc(src, opts.EmbedHost)
	if err != nil {
		return "", err
	}

	slog.Debug("extracted embed token", "length", len(token))
	return token, nil
}

// TokenFromIframeSrc pulls the embed token out of a report iframe src. The
// token is the base64 segment after /embed/question/, cut at any fragment or
// query suffix.
func TokenFromIframeSrc(src, embedHost string) (string, error) {
	re := regexp.MustCompile(regexp.QuoteMeta(embedHost) + `/embed/question/(eyJ[^#?]+)`)
	m := re.FindStringSubmatch(src)
	if m == nil {
		return "", fmt.Errorf("browser: no embed token in iframe src")
	}
	return m[1], nil
}
