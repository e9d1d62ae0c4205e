package calls

import (
	"context"
	"net/url"
	"strconv"

	"vox-console/internal/apiclient"
)

// ListParams filters GET /api/v1/call-logs. Zero values are not sent.
type ListParams struct {
	ClientID    string
	AssistantID string
	Page        int
	PageSize    int
}

func (p ListParams) query() string {
	q := url.Values{}
	if p.ClientID != "" {
		q.Set("client_id", p.ClientID)
	}
	if p.AssistantID != "" {
		q.Set("assistant_id", p.AssistantID)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(p.PageSize))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

type API struct {
	c *apiclient.Client
}

func NewAPI(c *apiclient.Client) *API { return &API{c: c} }

func (a *API) List(ctx context.Context, p ListParams) (apiclient.Page[CallLog], error) {
	var out apiclient.Page[CallLog]
	if err := a.c.Get(ctx, "/api/v1/call-logs"+p.query(), &out); err != nil {
		return apiclient.Page[CallLog]{}, err
	}
	return out, nil
}

func (a *API) Get(ctx context.Context, id string) (CallLog, error) {
	var out CallLog
	err := a.c.Get(ctx, "/api/v1/call-logs/"+url.PathEscape(id), &out)
	return out, err
}
