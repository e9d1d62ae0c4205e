package tools

import (
	"context"
	"net/url"
	"strconv"

	"vox-console/internal/apiclient"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	// briefPageSize is large enough that selection widgets see every tool of a tenant.
	briefPageSize = 100
)

type API struct {
	c *apiclient.Client
}

func NewAPI(c *apiclient.Client) *API { return &API{c: c} }

// List returns one page. page and pageSize default to 1 and 20 and are always sent.
func (a *API) List(ctx context.Context, clientID string, page, pageSize int) (apiclient.Page[Tool], error) {
	if page <= 0 {
		page = defaultPage
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	q := url.Values{}
	if clientID != "" {
		q.Set("client_id", clientID)
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var out apiclient.Page[Tool]
	if err := a.c.Get(ctx, "/api/v1/tools?"+q.Encode(), &out); err != nil {
		return apiclient.Page[Tool]{}, err
	}
	return out, nil
}

// ListBrief projects a single large page to id, name and description.
func (a *API) ListBrief(ctx context.Context, clientID string) ([]Brief, error) {
	page, err := a.List(ctx, clientID, 1, briefPageSize)
	if err != nil {
		return nil, err
	}
	out := make([]Brief, 0, len(page.Items))
	for _, t := range page.Items {
		out = append(out, Brief{ID: t.ID, Name: t.Name, Description: t.Description})
	}
	return out, nil
}

func (a *API) Get(ctx context.Context, id string) (Tool, error) {
	var out Tool
	err := a.c.Get(ctx, "/api/v1/tools/"+url.PathEscape(id), &out)
	return out, err
}

func (a *API) Create(ctx context.Context, in Create) (Tool, error) {
	var out Tool
	err := a.c.Post(ctx, "/api/v1/tools", in, &out)
	return out, err
}

func (a *API) Update(ctx context.Context, id string, in Update) (Tool, error) {
	var out Tool
	err := a.c.Patch(ctx, "/api/v1/tools/"+url.PathEscape(id), in, &out)
	return out, err
}

func (a *API) Delete(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/api/v1/tools/"+url.PathEscape(id))
}

type testRequest struct {
	Parameters map[string]any `json:"parameters,omitempty"`
}

// Test invokes the tool once through the control plane. params may be nil.
func (a *API) Test(ctx context.Context, id string, params map[string]any) (TestResult, error) {
	var out TestResult
	err := a.c.Post(ctx, "/api/v1/tools/"+url.PathEscape(id)+"/test", testRequest{Parameters: params}, &out)
	return out, err
}
