package api

import (
	"context"
	"net/http"
	"strconv"

	"dashflow-service/internal/domain/activity"
	"dashflow-service/internal/domain/report"
)

// Report fetches the aggregated dashboard report.
func (c *Client) Report(ctx context.Context) (*report.Report, error) {
	var out report.Report
	if err := c.do(ctx, http.MethodGet, "/api/v1/reports", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activity fetches the most recent activity entries, newest first. A zero
// limit uses the server default.
func (c *Client) Activity(ctx context.Context, limit int) ([]activity.Entry, error) {
	path := "/api/v1/activity"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var out []activity.Entry
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
