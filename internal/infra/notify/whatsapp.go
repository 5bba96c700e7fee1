package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/kestrelworks/studio-announce/internal/service/compose"
)

// WhatsAppSender posts the bare message block to each recipient through the
// Twilio WhatsApp API. Recipients receive exactly what a manual copy-paste
// into the group would carry.
type WhatsAppSender struct {
	client *twilio.RestClient
	from   string
	to     []string
}

func NewWhatsAppSender(accountSID, authToken, from string, to []string) *WhatsAppSender {
	return &WhatsAppSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSID,
			Password: authToken,
		}),
		from: from,
		to:   to,
	}
}

func (s *WhatsAppSender) Name() string { return "whatsapp" }

func (s *WhatsAppSender) Send(_ context.Context, msg compose.Message) error {
	for _, recipient := range s.to {
		params := &twilioApi.CreateMessageParams{}
		params.SetTo(whatsAppAddr(recipient))
		params.SetFrom(whatsAppAddr(s.from))
		params.SetBody(msg.Block)

		if _, err := s.client.Api.CreateMessage(params); err != nil {
			return fmt.Errorf("failed to send whatsapp message to %s: %w", recipient, err)
		}
	}

	return nil
}

// whatsAppAddr prefixes a number with the channel scheme Twilio expects,
// tolerating numbers configured with the prefix already present.
func whatsAppAddr(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}
