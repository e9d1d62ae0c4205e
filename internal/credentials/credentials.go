package credentials

import (
	"context"
	"net/url"
	"time"

	"vox-console/internal/apiclient"
)

// Credential types.
const (
	TypeBearer = "bearer"
	TypeAPIKey = "api_key"
	TypeBasic  = "basic"
)

// Credential is a stored secret reference. The secret value is write-only and never returned.
type Credential struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"client_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Create struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Value    string `json:"value"`
}

type Update struct {
	Name  *string `json:"name,omitempty"`
	Value *string `json:"value,omitempty"`
}

type ListResponse struct {
	Items []Credential `json:"items"`
	Total int          `json:"total"`
}

// ValidType reports whether t is a supported credential type.
func ValidType(t string) bool {
	switch t {
	case TypeBearer, TypeAPIKey, TypeBasic:
		return true
	default:
		return false
	}
}

type API struct {
	c *apiclient.Client
}

func NewAPI(c *apiclient.Client) *API { return &API{c: c} }

func (a *API) List(ctx context.Context, clientID string) (ListResponse, error) {
	endpoint := "/api/v1/credentials"
	if clientID != "" {
		endpoint += "?" + url.Values{"client_id": {clientID}}.Encode()
	}
	var out ListResponse
	if err := a.c.Get(ctx, endpoint, &out); err != nil {
		return ListResponse{}, err
	}
	return out, nil
}

func (a *API) Get(ctx context.Context, id string) (Credential, error) {
	var out Credential
	err := a.c.Get(ctx, "/api/v1/credentials/"+url.PathEscape(id), &out)
	return out, err
}

func (a *API) Create(ctx context.Context, in Create) (Credential, error) {
	var out Credential
	err := a.c.Post(ctx, "/api/v1/credentials", in, &out)
	return out, err
}

func (a *API) Update(ctx context.Context, id string, in Update) (Credential, error) {
	var out Credential
	err := a.c.Patch(ctx, "/api/v1/credentials/"+url.PathEscape(id), in, &out)
	return out, err
}

func (a *API) Delete(ctx context.Context, id string) error {
	return a.c.Delete(ctx, "/api/v1/credentials/"+url.PathEscape(id))
}
