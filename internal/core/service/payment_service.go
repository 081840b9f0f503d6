package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/adaste/loan-system/internal/core/domain"
	"github.com/adaste/loan-system/internal/core/ports"
	"github.com/adaste/loan-system/internal/pkg/metrics"
)

const defaultAccountReference = "ADASTE"

type paymentService struct {
	gateway ports.PaymentGateway
	dedup   ports.CallbackDeduplicator
	log     zerolog.Logger
}

// NewPaymentService returns a PaymentService. dedup may be nil when no Redis is
// configured; every callback is then treated as new.
func NewPaymentService(gateway ports.PaymentGateway, dedup ports.CallbackDeduplicator, log zerolog.Logger) ports.PaymentService {
	return &paymentService{gateway: gateway, dedup: dedup, log: log}
}

// InitiatePayment sends an STK push. Failures are logged and yield a nil
// response; the caller is never told why.
func (s *paymentService) InitiatePayment(ctx context.Context, req domain.STKPushRequest) *domain.STKPushResponse {
	if req.Reference == "" {
		req.Reference = defaultAccountReference
	}

	resp, err := s.gateway.STKPush(ctx, req)
	if err != nil {
		metrics.PaymentRequestsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("phone", req.Phone).Float64("amount", req.Amount).Msg("stk push failed")
		return nil
	}

	metrics.PaymentRequestsTotal.WithLabelValues("sent").Inc()
	s.log.Info().
		Str("phone", req.Phone).
		Str("checkout_request_id", resp.CheckoutRequestID).
		Str("response_code", resp.ResponseCode).
		Msg("stk push sent")
	return resp
}

// HandleCallback logs the payment outcome. Nothing is persisted.
func (s *paymentService) HandleCallback(ctx context.Context, cb domain.STKCallback) {
	if s.dedup != nil && cb.CheckoutRequestID != "" {
		first, err := s.dedup.FirstSeen(ctx, cb.CheckoutRequestID)
		if err != nil {
			s.log.Warn().Err(err).Str("checkout_request_id", cb.CheckoutRequestID).Msg("callback dedup failed, processing anyway")
		} else if !first {
			metrics.PaymentCallbacksTotal.WithLabelValues("duplicate").Inc()
			s.log.Debug().Str("checkout_request_id", cb.CheckoutRequestID).Msg("duplicate callback skipped")
			return
		}
	}

	if cb.Succeeded() {
		metrics.PaymentCallbacksTotal.WithLabelValues("success").Inc()
		s.log.Info().
			Str("checkout_request_id", cb.CheckoutRequestID).
			Str("merchant_request_id", cb.MerchantRequestID).
			Msg("payment successful")
		return
	}

	metrics.PaymentCallbacksTotal.WithLabelValues("failed").Inc()
	event := s.log.Warn().
		Str("checkout_request_id", cb.CheckoutRequestID).
		Str("result_desc", cb.ResultDesc)
	if cb.ResultCode != nil {
		event = event.Int("result_code", *cb.ResultCode)
	} else {
		event = event.Bool("result_code_missing", true)
	}
	event.Msg("payment failed")
}
