package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aim-ba/ravenlink/internal/model"
)

// ListJobs fetches the full posting collection. Any failure is reported as
// ErrLoadFailed; there is no partial-result handling.
func (c *Client) ListJobs(ctx context.Context) ([]model.JobPosting, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/jobs", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}

	resp, err := c.doOnce(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrLoadFailed, errorMessage(resp))
	}

	var postings []model.JobPosting
	if err := json.NewDecoder(resp.Body).Decode(&postings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return postings, nil
}
