package auth

import (
	"context"
	"fmt"

	"github.com/stockroomlabs/stockroom-backend/pkg/logger"
)

// Mailer delivers one-time codes to the admin's inbox.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string) error
}

// LogMailer writes codes to the log instead of sending mail. Dev use only.
type LogMailer struct {
	logg *logger.Logger
}

// NewLogMailer builds the dev mailer.
func NewLogMailer(logg *logger.Logger) (*LogMailer, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &LogMailer{logg: logg}, nil
}

// SendOTP logs the code for the recipient.
func (m *LogMailer) SendOTP(ctx context.Context, to, code string) error {
	ctx = m.logg.WithFields(ctx, map[string]any{"to": to, "code": code})
	m.logg.Info(ctx, "one-time code issued")
	return nil
}
