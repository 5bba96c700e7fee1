// Package slackpost delivers plain-text status messages to Slack.
package slackpost

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"
)

// ErrNotConfigured is returned when neither a webhook URL nor a bot token is
// set.
var ErrNotConfigured = errors.New("slack is not configured")

type Poster struct {
	webhookURL string
	client     *slack.Client
	channel    string
}

// NewPoster prefers the incoming-webhook URL; a bot token plus channel is
// the fallback path.
func NewPoster(webhookURL, botToken, channel string, opts ...slack.Option) *Poster {
	p := &Poster{webhookURL: webhookURL, channel: channel}
	if webhookURL == "" && botToken != "" {
		p.client = slack.New(botToken, opts...)
	}
	return p
}

func (p *Poster) Post(ctx context.Context, text string) error {
	switch {
	case p.webhookURL != "":
		if err := slack.PostWebhookContext(ctx, p.webhookURL, &slack.WebhookMessage{Text: text}); err != nil {
			return fmt.Errorf("failed to post to slack webhook: %w", err)
		}
	case p.client != nil:
		if _, _, err := p.client.PostMessageContext(ctx, p.channel, slack.MsgOptionText(text, false)); err != nil {
			return fmt.Errorf("failed to post slack message: %w", err)
		}
	default:
		return ErrNotConfigured
	}

	slog.Debug("posted message to slack", "bytes", len(text))
	return nil
}
