package sender

import (
	"context"
	"fmt"
)

// NoopSMSSender stands in when no SMS provider is configured. Every send
// fails, which the dispatcher logs and swallows.
type NoopSMSSender struct{}

func (NoopSMSSender) SendSMS(_ context.Context, _, _ string) (SendResult, error) {
	return SendResult{}, fmt.Errorf("sms provider not configured")
}

type NoopEmailSender struct{}

func (NoopEmailSender) SendEmail(_ context.Context, _, _, _ string) (SendResult, error) {
	return SendResult{}, fmt.Errorf("email provider not configured")
}
