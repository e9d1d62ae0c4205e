package assistants

import (
	"context"
	"net/url"
	"strings"

	"vox-console/internal/apiclient"
)

// API maps the assistants and phone-number endpoints to typed calls.
type API struct {
	c *apiclient.Client
}

func NewAPI(c *apiclient.Client) *API { return &API{c: c} }

// List returns every assistant, filtered by clientID when non-empty.
func (a *API) List(ctx context.Context, clientID string) ([]Assistant, error) {
	endpoint := "/api/v1/assistants"
	if clientID != "" {
		endpoint += "?" + url.Values{"client_id": {clientID}}.Encode()
	}
	var out []Assistant
	if err := a.c.Get(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) Get(ctx context.Context, id string) (Assistant, error) {
	var out Assistant
	err := a.c.Get(ctx, "/api/v1/assistants/"+url.PathEscape(id), &out)
	return out, err
}

func (a *API) Create(ctx context.Context, in Create) (Assistant, error) {
	var out Assistant
	err := a.c.Post(ctx, "/api/v1/assistants", in, &out)
	return out, err
}

func (a *API) Update(ctx context.Context, id string, in Update) (Assistant, error) {
	var out Assistant
	err := a.c.Patch(ctx, "/api/v1/assistants/"+url.PathEscape(id), in, &out)
	return out, err
}

func (a *API) Delete(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/api/v1/assistants/"+url.PathEscape(id))
}

// PhoneNumbers lists numbers routed to the assistant.
func (a *API) PhoneNumbers(ctx context.Context, assistantID string) ([]PhoneNumber, error) {
	endpoint := "/api/v1/phone-numbers?" + url.Values{"assistant_id": {assistantID}}.Encode()
	var out []PhoneNumber
	if err := a.c.Get(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *API) AssignPhoneNumber(ctx context.Context, in PhoneNumberCreate) (PhoneNumber, error) {
	var out PhoneNumber
	err := a.c.Post(ctx, "/api/v1/phone-numbers", in, &out)
	return out, err
}

// UnassignPhoneNumber deletes by E.164 number.
func (a *API) UnassignPhoneNumber(ctx context.Context, e164 string) error {
	return a.c.Delete(ctx, "/api/v1/phone-numbers/"+escapeE164(e164))
}

// escapeE164 escapes like encodeURIComponent; PathEscape leaves "+" alone.
func escapeE164(n string) string {
	return strings.ReplaceAll(url.PathEscape(n), "+", "%2B")
}
