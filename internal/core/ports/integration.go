package ports

import (
	"context"

	"github.com/adaste/loan-system/internal/core/domain"
)

// PaymentGateway is the outbound mobile-money provider.
type PaymentGateway interface {
	STKPush(ctx context.Context, req domain.STKPushRequest) (*domain.STKPushResponse, error)
}

// CallbackDeduplicator remembers provider callbacks already seen.
type CallbackDeduplicator interface {
	// FirstSeen records checkoutID and reports whether this is its first delivery.
	FirstSeen(ctx context.Context, checkoutID string) (bool, error)
}

// PaymentService wraps the gateway with fire-and-forget semantics: failures are
// logged and never returned.
type PaymentService interface {
	InitiatePayment(ctx context.Context, req domain.STKPushRequest) *domain.STKPushResponse
	HandleCallback(ctx context.Context, cb domain.STKCallback)
}

// SMSSender is the outbound SMS provider.
type SMSSender interface {
	Send(ctx context.Context, to, message string) error
}

// NotificationService delivers SMS on a best-effort basis.
type NotificationService interface {
	Notify(ctx context.Context, n domain.Notification)
}

// NotificationQueue accepts notifications for asynchronous delivery.
type NotificationQueue interface {
	Enqueue(n domain.Notification)
}
