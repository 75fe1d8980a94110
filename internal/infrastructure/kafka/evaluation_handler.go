package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coopcredit/coopcredit/internal/application/dto"
	"github.com/coopcredit/coopcredit/internal/domain/model"
	pkgkafka "github.com/coopcredit/coopcredit/pkg/kafka"
)

// Evaluator runs the evaluation of one pending application.
type Evaluator interface {
	Execute(ctx context.Context, req dto.EvaluateApplicationRequest) (dto.CreditApplicationResponse, error)
}

// EvaluationRequest is the payload of a message on the evaluation-requests topic.
type EvaluationRequest struct {
	ApplicationID string `json:"application_id"`
}

// EvaluationRequestHandler turns evaluation-request messages into evaluations.
type EvaluationRequestHandler struct {
	evaluator Evaluator
	logger    *slog.Logger
}

// NewEvaluationRequestHandler creates a handler backed by the given evaluator.
func NewEvaluationRequestHandler(evaluator Evaluator, logger *slog.Logger) *EvaluationRequestHandler {
	return &EvaluationRequestHandler{evaluator: evaluator, logger: logger}
}

// Handle evaluates the application named in msg. Malformed messages, unknown
// applications and applications that are already decided are logged and
// acknowledged; only infrastructure failures are returned so the message is
// not committed.
func (h *EvaluationRequestHandler) Handle(ctx context.Context, msg pkgkafka.Message) error {
	applicationID, err := parseEvaluationRequest(msg)
	if err != nil {
		h.logger.WarnContext(ctx, "discarding malformed evaluation request",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return nil
	}

	resp, err := h.evaluator.Execute(ctx, dto.EvaluateApplicationRequest{ApplicationID: applicationID})
	switch {
	case err == nil:
		h.logger.InfoContext(ctx, "evaluation request processed",
			"application_id", resp.ID,
			"status", resp.Status,
		)
		return nil
	case errors.Is(err, model.ErrNotFound), errors.Is(err, model.ErrBusinessRule), errors.Is(err, model.ErrValidation):
		h.logger.WarnContext(ctx, "skipping evaluation request",
			"application_id", applicationID,
			"error", err,
		)
		return nil
	default:
		return fmt.Errorf("evaluate application %s: %w", applicationID, err)
	}
}

// parseEvaluationRequest reads the application id from the JSON body, falling
// back to the message key when the body is empty.
func parseEvaluationRequest(msg pkgkafka.Message) (string, error) {
	if len(msg.Value) == 0 {
		if id := strings.TrimSpace(string(msg.Key)); id != "" {
			return id, nil
		}
		return "", errors.New("empty message")
	}

	var req EvaluationRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		return "", fmt.Errorf("decode evaluation request: %w", err)
	}
	id := strings.TrimSpace(req.ApplicationID)
	if id == "" {
		return "", errors.New("application_id is required")
	}
	return id, nil
}
