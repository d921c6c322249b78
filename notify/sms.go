// Package notify sends an operator a short SMS summary after a run. It is a
// courtesy channel: failures here are logged and never affect the run's
// outcome.
package notify

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/postforge/postforge/config"
	"github.com/postforge/postforge/publisher"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type SMSNotifier struct {
	client *twilio.RestClient
	from   string
	to     string
	logger *slog.Logger
}

func NewSMSNotifier(cfg config.TwilioConfig, logger *slog.Logger) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &SMSNotifier{
		client: client,
		from:   cfg.FromNumber,
		to:     cfg.ToNumber,
		logger: logger,
	}
}

// RunSummary renders the one-line SMS body for a run's publish results.
func RunSummary(title string, results []publisher.Result) string {
	var ok, failed []string
	for _, r := range results {
		if r.Error != "" {
			failed = append(failed, r.Platform)
		} else {
			ok = append(ok, r.Platform)
		}
	}

	message := fmt.Sprintf("postforge: published %q", title)
	if len(ok) > 0 {
		message += " to " + strings.Join(ok, ", ")
	}
	if len(failed) > 0 {
		message += "; failed: " + strings.Join(failed, ", ")
	}
	return message
}

// NotifyRun sends a one-line summary of the run's publish results.
func (n *SMSNotifier) NotifyRun(title string, results []publisher.Result) {
	message := RunSummary(title, results)

	params := &twilioApi.CreateMessageParams{
		To:   &n.to,
		From: &n.from,
		Body: &message,
	}

	if _, err := n.client.Api.CreateMessage(params); err != nil {
		n.logger.Warn("SMS notification failed", slog.String("error", err.Error()))
		return
	}

	n.logger.Info("SMS notification sent", slog.String("to", n.to))
}
