package api

import (
	"context"
	"io"
	"net/http"
)

// SubmitApplication posts a prebuilt multipart body to the applications
// endpoint. submissionID is the draft's identity, sent as the
// Idempotency-Key header so the server can deduplicate a resubmission of the
// same draft. The request is made at most once per call; retry is the
// applicant's decision, never automatic. A rejection message from the server
// comes back verbatim inside SubmissionError.
func (c *Client) SubmitApplication(ctx context.Context, submissionID, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/applications", body)
	if err != nil {
		return &SubmissionError{Message: err.Error()}
	}
	req.Header.Set("Content-Type", contentType)
	if submissionID != "" {
		req.Header.Set("Idempotency-Key", submissionID)
	}

	resp, err := c.doOnce(req)
	if err != nil {
		return &SubmissionError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return &SubmissionError{Message: errorMessage(resp)}
}
