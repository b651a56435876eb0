package services

import (
	applog "petstore/internal/log"
)

// SMSSender is the narrow seam to the external SMS provider. The core never
// retries delivery; provider-side retry policy lives behind this interface.
type SMSSender interface {
	Send(phone, text string) error
}

// LogSMSSender writes messages to the application log instead of a provider.
// Used in development and tests.
type LogSMSSender struct{}

func (LogSMSSender) Send(phone, text string) error {
	applog.Event("sms.send", map[string]any{"phone": phone, "text": text})
	return nil
}
