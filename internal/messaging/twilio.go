package messaging

import (
	"context"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageCreator is the part of the Twilio REST client the dispatcher uses.
type MessageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// TwilioDispatcher sends each target as a WhatsApp message through Twilio.
// The batch instance name is not used; the sender is the configured number.
type TwilioDispatcher struct {
	api  MessageCreator
	from string
}

func NewTwilioDispatcher(accountSID, authToken, from string) *TwilioDispatcher {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return NewTwilioDispatcherWith(client.Api, from)
}

func NewTwilioDispatcherWith(api MessageCreator, from string) *TwilioDispatcher {
	return &TwilioDispatcher{api: api, from: from}
}

func (d *TwilioDispatcher) Dispatch(ctx context.Context, b Batch) error {
	failures := Failures{}

	for i, t := range b.Targets {
		if err := ctx.Err(); err != nil {
			failures[i] = err
			continue
		}

		params := &twilioApi.CreateMessageParams{}
		params.SetTo(whatsApp(e164(t.Phone)))
		params.SetFrom(whatsApp(d.from))
		params.SetBody(t.Message)

		if _, err := d.api.CreateMessage(params); err != nil {
			failures[i] = err
		}
	}

	if len(failures) == 0 {
		return nil
	}
	return failures
}

// e164 assumes Brazil for numbers stored without a country code.
func e164(phone string) string {
	if strings.HasPrefix(phone, "+") {
		return phone
	}
	if len(phone) <= 11 {
		return "+55" + phone
	}
	return "+" + phone
}

func whatsApp(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

var _ Dispatcher = (*TwilioDispatcher)(nil)
