// Package sms provides the Twilio-backed SMS gateway. A dry-run mode logs
// outgoing messages instead of calling the provider, which keeps local
// development and tests free of external traffic.
package sms

import (
	"context"
	"log/slog"

	"dispatch/internal/pkg/errs"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioGateway sends text messages through the Twilio REST API.
type TwilioGateway struct {
	client *twilio.RestClient
	from   string
	dryRun bool
	logger *slog.Logger
}

// NewTwilioGateway creates a gateway using the given Twilio credentials.
// When dryRun is true the gateway never contacts Twilio and reports every
// send as successful after logging it.
func NewTwilioGateway(accountSID, authToken, from string, dryRun bool, logger *slog.Logger) (*TwilioGateway, error) {
	if !dryRun {
		if accountSID == "" {
			return nil, errs.NewValueIsRequiredError("accountSID")
		}
		if authToken == "" {
			return nil, errs.NewValueIsRequiredError("authToken")
		}
		if from == "" {
			return nil, errs.NewValueIsRequiredError("from")
		}
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioGateway{
		client: client,
		from:   from,
		dryRun: dryRun,
		logger: logger.With("component", "twilio-sms"),
	}, nil
}

// Send delivers a text message to the given phone number. The Twilio client
// has no context plumbing, so the context is only checked before the call.
func (g *TwilioGateway) Send(ctx context.Context, to string, message string) error {
	if to == "" {
		return errs.NewValueIsRequiredError("to")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if g.dryRun {
		g.logger.Info("dry run, sms suppressed", "to", to, "length", len(message))
		return nil
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(g.from)
	params.SetTo(to)
	params.SetBody(message)

	resp, err := g.client.Api.CreateMessage(params)
	if err != nil {
		return errs.NewExternalServiceErrorWithCause("twilio", err)
	}

	if resp.Sid != nil {
		g.logger.Info("sms sent", "to", to, "sid", *resp.Sid)
	}
	return nil
}
