package adapter

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/coopcredit/coopcredit/internal/domain/model"
	"github.com/coopcredit/coopcredit/internal/domain/port"
	"github.com/coopcredit/coopcredit/internal/domain/valueobject"
)

// Compile-time interface check.
var _ port.RiskScorer = (*RiskCentralClient)(nil)

// RiskEvaluationRequest is the body posted to the risk central.
type RiskEvaluationRequest struct {
	Document   string          `json:"document"`
	Amount     decimal.Decimal `json:"amount"`
	TermMonths int             `json:"termMonths"`
}

// RiskEvaluationResponse is the risk central's answer. Score is optional.
type RiskEvaluationResponse struct {
	Document  string `json:"document"`
	Score     *int   `json:"score"`
	RiskLevel string `json:"riskLevel"`
	Detail    string `json:"detail"`
}

// RiskCentralClient implements port.RiskScorer over the risk central's JSON API.
// It issues exactly one request per call; retries are left to the caller.
type RiskCentralClient struct {
	endpoint string
	client   *http.Client
	now      func() time.Time
}

// ClientOption customises a RiskCentralClient.
type ClientOption func(*RiskCentralClient)

// WithTLSConfig sets the TLS settings used for an https risk central, e.g. a
// private CA from tlsutil.ClientConfig.
func WithTLSConfig(cfg *tls.Config) ClientOption {
	return func(c *RiskCentralClient) {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = cfg
		c.client.Transport = transport
	}
}

// NewRiskCentralClient creates a client for the risk-evaluation endpoint at
// baseURL. A zero timeout leaves the transport without a deadline.
func NewRiskCentralClient(baseURL string, timeout time.Duration, opts ...ClientOption) *RiskCentralClient {
	c := &RiskCentralClient{
		endpoint: strings.TrimRight(baseURL, "/") + "/risk-evaluation",
		client:   &http.Client{Timeout: timeout},
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EvaluateRisk posts the applicant's document, amount and term and maps the
// verdict onto a RiskEvaluation.
func (c *RiskCentralClient) EvaluateRisk(
	ctx context.Context,
	document string,
	amount decimal.Decimal,
	termMonths int,
) (model.RiskEvaluation, error) {
	payload, err := json.Marshal(RiskEvaluationRequest{
		Document:   document,
		Amount:     amount,
		TermMonths: termMonths,
	})
	if err != nil {
		return model.RiskEvaluation{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return model.RiskEvaluation{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return model.RiskEvaluation{}, fmt.Errorf("risk central request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.RiskEvaluation{}, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.RiskEvaluation{}, fmt.Errorf("risk central error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result RiskEvaluationResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return model.RiskEvaluation{}, fmt.Errorf("failed to parse response: %w", err)
	}

	level, err := valueobject.RiskLevelFromString(strings.ToUpper(strings.TrimSpace(result.RiskLevel)))
	if err != nil {
		return model.RiskEvaluation{}, fmt.Errorf("risk central response: %w", err)
	}

	if result.Document == "" {
		result.Document = document
	}
	return model.NewRiskEvaluation(result.Document, result.Score, level, result.Detail, c.now()), nil
}
