package credentials

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vox-console/internal/apiclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidType(t *testing.T) {
	for _, ty := range []string{TypeBearer, TypeAPIKey, TypeBasic} {
		assert.True(t, ValidType(ty), ty)
	}
	assert.False(t, ValidType("oauth"))
	assert.False(t, ValidType(""))
}

func TestAPI_CRUD(t *testing.T) {
	type call struct {
		method, path, query string
		body                map[string]any
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path, query: r.URL.RawQuery}
		if r.ContentLength > 0 {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&c.body))
		}
		calls = append(calls, c)
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/credentials":
			_, _ = w.Write([]byte(`{"items":[{"id":"c1","client_id":"t1","name":"Stripe","type":"bearer"}],"total":1}`))
		default:
			_, _ = w.Write([]byte(`{"id":"c1","client_id":"t1","name":"Stripe","type":"bearer"}`))
		}
	}))
	defer srv.Close()
	api := NewAPI(apiclient.New(srv.URL))
	ctx := context.Background()

	list, err := api.List(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Items, 1)

	_, err = api.Get(ctx, "c1")
	require.NoError(t, err)

	_, err = api.Create(ctx, Create{ClientID: "t1", Name: "Stripe", Type: TypeBearer, Value: "sk_live"})
	require.NoError(t, err)

	name := "Stripe prod"
	_, err = api.Update(ctx, "c1", Update{Name: &name})
	require.NoError(t, err)

	require.NoError(t, api.Delete(ctx, "c1"))

	require.Len(t, calls, 5)
	assert.Equal(t, "client_id=t1", calls[0].query)
	assert.Equal(t, "/api/v1/credentials/c1", calls[1].path)
	assert.Equal(t, "sk_live", calls[2].body["value"])
	assert.Equal(t, http.MethodPatch, calls[3].method)
	assert.Equal(t, map[string]any{"name": "Stripe prod"}, calls[3].body)
	assert.Equal(t, http.MethodDelete, calls[4].method)
}

func TestAPI_ListError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"forbidden"}`))
	}))
	defer srv.Close()

	_, err := NewAPI(apiclient.New(srv.URL)).List(context.Background(), "t1")
	require.Error(t, err)
	assert.Equal(t, "forbidden", apiclient.ErrorDetail(err, ""))
}
