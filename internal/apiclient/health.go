package apiclient

import "context"

type Health struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis"`
	Version  string `json:"version"`
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	if err := c.Get(ctx, "/api/v1/health", &h); err != nil {
		return Health{}, err
	}
	return h, nil
}
