package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golf-booking/pkg/utils"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.uber.org/zap"
)

// ErrPaymentRejected is returned when the payment provider answers with a non-2xx status.
var ErrPaymentRejected = errors.New("payment provider rejected the request")

type PaymentIntentRequest struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Amount        int64     `json:"amount"`
	Description   string    `json:"description"`
}

type PaymentIntent struct {
	ClientSecret     string `json:"client_secret"`
	PaymentReference string `json:"payment_reference"`
}

type RefundRequest struct {
	ReservationID    uuid.UUID `json:"reservation_id"`
	PaymentReference string    `json:"payment_reference"`
	Amount           int64     `json:"amount"`
}

type Refund struct {
	RefundReference string `json:"refund_reference"`
}

type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error)
	// Refund is keyed by reservation id, so a repeated call for the same
	// reservation returns the original refund.
	Refund(ctx context.Context, req RefundRequest) (*Refund, error)
}

type PaymentGatewayHttp struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *zap.Logger
}

func NewPaymentGatewayHttp(httpClient *http.Client, config utils.PaymentConfig, log *zap.Logger) *PaymentGatewayHttp {
	if httpClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &PaymentGatewayHttp{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		apiKey:     config.APIKey,
		log:        log.With(zap.String("gateway", "payment")),
	}
}

func (p *PaymentGatewayHttp) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	var intent PaymentIntent
	if err := p.post(ctx, "/payment-intents", "", req, &intent); err != nil {
		return nil, fmt.Errorf("create payment intent for %s: %w", req.ReservationID.String(), err)
	}
	return &intent, nil
}

func (p *PaymentGatewayHttp) Refund(ctx context.Context, req RefundRequest) (*Refund, error) {
	var refund Refund
	if err := p.post(ctx, "/refunds", req.ReservationID.String(), req, &refund); err != nil {
		return nil, fmt.Errorf("refund reservation %s: %w", req.ReservationID.String(), err)
	}
	return &refund, nil
}

func (p *PaymentGatewayHttp) post(ctx context.Context, path, idempotencyKey string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.Warn("Payment provider request failed", zap.String("path", path), zap.Error(err))
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		p.log.Warn("Payment provider returned error status",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		return fmt.Errorf("%w: status %d", ErrPaymentRejected, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
