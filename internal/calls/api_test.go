package calls

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

func TestAPI_ListDecodesPage(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"c1","client_id":"t","assistant_id":null,"status":"completed","latency_ms":320,"duration_seconds":null,"created_at":"2024-01-01T00:00:00Z"}],"total":41,"page":2,"page_size":20}`))
	}))
	defer srv.Close()

	api := NewAPI(apiclient.New(srv.URL))
	page, err := api.List(context.Background(), ListParams{ClientID: "t", Page: 2, PageSize: 20})
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/call-logs", gotPath)
	assert.Equal(t, "client_id=t&page=2&page_size=20", gotQuery)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 41, page.Total)
	assert.Nil(t, page.Items[0].AssistantID)
	assert.Nil(t, page.Items[0].DurationSeconds)
	require.NotNil(t, page.Items[0].LatencyMS)
	assert.Equal(t, 320, *page.Items[0].LatencyMS)
}

func TestAPI_GetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/call-logs/missing", r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "Call log not found"})
	}))
	defer srv.Close()

	_, err := NewAPI(apiclient.New(srv.URL)).Get(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apiclient.IsNotFound(err))
	assert.Equal(t, "Call log not found", apiclient.ErrorDetail(err, "x"))
}
