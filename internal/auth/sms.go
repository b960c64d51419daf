package auth

import (
	"context"

	"go.uber.org/zap"
)

// SMSSender delivers OTP codes out of band. Actual SMS mechanics live
// behind this boundary; the core never sees provider details.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// LogSender writes codes to the log instead of sending them. Used in
// development and wherever no SMS provider is configured.
type LogSender struct {
	Log *zap.SugaredLogger
}

func (s *LogSender) SendSMS(_ context.Context, phone, message string) error {
	s.Log.Infow("sms (log sender)", "phone", phone, "message", message)
	return nil
}
