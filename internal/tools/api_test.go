package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"vox-console/internal/apiclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPI_ListAlwaysSendsPaging(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/tools", r.URL.Path)
		queries = append(queries, r.URL.RawQuery)
		_, _ = w.Write([]byte(`{"items":[{"id":"T1","name":"lookup","description":"d","server_config":"{}","mcp_config":"{}"}],"total":1,"page":1,"page_size":20}`))
	}))
	defer srv.Close()
	api := NewAPI(apiclient.New(srv.URL))
	ctx := context.Background()

	page, err := api.List(ctx, "t1", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	briefs, err := api.ListBrief(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, briefs, 1)
	assert.Equal(t, "lookup", briefs[0].Name)
	require.NotNil(t, briefs[0].Description)

	assert.Equal(t, []string{
		"client_id=t1&page=1&page_size=20",
		"client_id=t1&page=1&page_size=100",
	}, queries)
}

func TestAPI_Test(t *testing.T) {
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/tools/T1/test", r.URL.Path)
		b, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(b))
		_, _ = w.Write([]byte(`{"success":false,"status_code":504,"error":"timed out","error_type":"timeout","response_time_ms":20000}`))
	}))
	defer srv.Close()
	api := NewAPI(apiclient.New(srv.URL))

	res, err := api.Test(context.Background(), "T1", nil)
	require.NoError(t, err)
	assert.False(t, res.Success)
	require.NotNil(t, res.ErrorType)
	assert.Equal(t, TestErrorTimeout, *res.ErrorType)
	require.NotNil(t, res.StatusCode)
	assert.Equal(t, 504, *res.StatusCode)
	assert.Nil(t, res.ResponseBody)

	_, err = api.Test(context.Background(), "T1", map[string]any{"q": "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, bodies[0])
	assert.JSONEq(t, `{"parameters":{"q":"x"}}`, bodies[1])
}

func TestAPI_CreateAndUpdateBodies(t *testing.T) {
	var got []map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var m map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		m["_method"] = r.Method
		got = append(got, m)
		_, _ = w.Write([]byte(`{"id":"T1"}`))
	}))
	defer srv.Close()
	api := NewAPI(apiclient.New(srv.URL))
	ctx := context.Background()

	_, err := api.Create(ctx, Create{ClientID: "t1", Name: "n", Type: TypeMCP, ServerConfig: "{}", MCPConfig: "{}"})
	require.NoError(t, err)
	_, err = api.Update(ctx, "T1", Update{Name: "n", ServerConfig: "{}", MCPConfig: "{}"})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, http.MethodPost, got[0]["_method"])
	assert.Equal(t, "mcp", got[0]["type"])
	assert.Contains(t, got[0], "messages")
	assert.Equal(t, http.MethodPatch, got[1]["_method"])
	assert.NotContains(t, got[1], "client_id")
	assert.NotContains(t, got[1], "type")
}
