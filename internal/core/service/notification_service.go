package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
	"github.com/adaste/loan-system/internal/pkg/metrics"
)

type notificationService struct {
	sender ports.SMSSender
	log    zerolog.Logger
}

func NewNotificationService(sender ports.SMSSender, log zerolog.Logger) ports.NotificationService {
	return &notificationService{sender: sender, log: log}
}

// Notify sends one SMS. There is no retry and errors stay in the log.
func (s *notificationService) Notify(ctx context.Context, n domain.Notification) {
	s.log.Info().Str("to", n.To).Str("message", n.Message).Msg("sending sms")

	if err := s.sender.Send(ctx, n.To, n.Message); err != nil {
		metrics.NotificationsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("to", n.To).Msg("sms error")
		return
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
}
