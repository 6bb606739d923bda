package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/inucxhu/soporte360/internal/domain"
	"github.com/inucxhu/soporte360/pkg/apperrors"
)

// HTTPClassifier calls a remote classification endpoint (the AI service
// sitting behind it is out of scope). Transport failures are reported as
// NETWORK_FAILURE; callers fall back to defaults.
type HTTPClassifier struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
}

// NewHTTPClassifier creates a classifier against the given endpoint.
func NewHTTPClassifier(endpoint string, timeout time.Duration, logger *zap.Logger) *HTTPClassifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClassifier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

type classifyRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type classifyResponse struct {
	Priority      domain.TicketPriority   `json:"priority"`
	Category      domain.TicketCategory   `json:"category"`
	Department    domain.TicketDepartment `json:"department"`
	EstimatedTime string                  `json:"estimated_time"`
}

// Classify posts the ticket draft and decodes the labels.
func (c *HTTPClassifier) Classify(ctx context.Context, title, description string) (domain.Classification, error) {
	body, err := json.Marshal(classifyRequest{Title: title, Description: description})
	if err != nil {
		return domain.Classification{}, apperrors.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Classification{}, apperrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Classification{}, apperrors.NewNetworkFailure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Classification{}, apperrors.NewNetworkFailure(
			fmt.Errorf("classifier returned status %d", resp.StatusCode))
	}

	var decoded classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Classification{}, apperrors.NewNetworkFailure(err)
	}

	result := domain.FallbackClassification()
	if decoded.Priority != "" {
		result.Priority = decoded.Priority
	}
	if decoded.Category != "" {
		result.Category = decoded.Category
	}
	if decoded.Department != "" {
		result.Department = decoded.Department
	}
	if decoded.EstimatedTime != "" {
		result.EstimatedTime = decoded.EstimatedTime
	}
	return result, nil
}
