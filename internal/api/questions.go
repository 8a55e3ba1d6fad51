package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/lucidwell/lucidwell-client/internal/types"
)

// GetQuestionSet retrieves the ordered question set for an assessment.
// Retryable: the exam flow cannot start without it.
func GetQuestionSet(ctx context.Context, hc HTTPClient, baseURL, examID string) (*types.QuestionSetResponse, error) {
	if examID == "" {
		return nil, fmt.Errorf("examId is required")
	}
	var qs types.QuestionSetResponse
	u := fmt.Sprintf("%s/assessments/%s/questions", baseURL, url.PathEscape(examID))
	if err := sendWithRetry(ctx, hc, http.MethodGet, u, &qs, "get question set"); err != nil {
		return nil, err
	}
	return &qs, nil
}
