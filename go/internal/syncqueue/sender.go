package syncqueue

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/courtside/go/internal/gameevents"
)

// HTTPSender uploads captures to the tracking service's events endpoint.
type HTTPSender struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSender creates a sender targeting baseURL (no trailing slash).
func NewHTTPSender(baseURL string) *HTTPSender {
	return &HTTPSender{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one capture. Network errors and 5xx responses surface as
// ErrServiceUnreachable so the flusher retries later; 4xx responses surface
// as *RejectionError because retrying them cannot succeed.
func (s *HTTPSender) Send(ctx context.Context, gameID uuid.UUID, req gameevents.RecordEventRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal capture: %w", err)
	}

	url := fmt.Sprintf("%s/games/%s/events", s.baseURL, gameID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrServiceUnreachable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: server returned %d", ErrServiceUnreachable, resp.StatusCode)
	default:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &RejectionError{StatusCode: resp.StatusCode, Message: string(msg)}
	}
}
