package tools

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerConfig_JSONRoundTrip(t *testing.T) {
	cred := "cred-1"
	in := ServerConfig{
		URL:            "https://mcp.example.com/rpc",
		TimeoutSeconds: 45,
		CredentialID:   &cred,
		Headers:        []Header{{Key: "X-Env", Value: "prod"}, {Key: "", Value: ""}},
		Encryption:     Encryption{Paths: []string{"$.card.number"}},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"url":"https://mcp.example.com/rpc","timeoutSeconds":45,"credentialId":"cred-1",
		"headers":[{"key":"X-Env","value":"prod"},{"key":"","value":""}],
		"encryption":{"paths":["$.card.number"]}}`, string(b))

	var out ServerConfig
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}

func TestConfig_EncodeDecode(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.URL = "http://localhost:9000"
	cfg.MCP.Protocol = ProtocolSSE
	cfg.Messages = []Message{{Trigger: TriggerOnError, Message: "Sorry"}, {Trigger: TriggerOnStart, Message: "One moment"}}

	blobs, err := cfg.Encode()
	require.NoError(t, err)
	require.NotNil(t, blobs.Messages)

	got, err := DecodeConfig(Tool{ServerConfig: blobs.ServerConfig, MCPConfig: blobs.MCPConfig, Messages: blobs.Messages})
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfig_EncodeEmptyMessagesIsNull(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Headers = nil
	blobs, err := cfg.Encode()
	require.NoError(t, err)
	assert.Nil(t, blobs.Messages)
	assert.Contains(t, blobs.ServerConfig, `"headers":[]`)
	assert.JSONEq(t, `{"protocol":"shttp"}`, blobs.MCPConfig)
}

func TestDecodeConfig_Defaults(t *testing.T) {
	got, err := DecodeConfig(Tool{ServerConfig: `{"url":"https://x.io"}`, MCPConfig: `{"protocol":"shttp"}`})
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, got.Server.TimeoutSeconds)
	assert.NotNil(t, got.Server.Headers)
	assert.NotNil(t, got.Server.Encryption.Paths)
	assert.Empty(t, got.Messages)
}

func TestDecodeConfig_Errors(t *testing.T) {
	empty := ""
	tests := []struct {
		name  string
		tool  Tool
		field string
	}{
		{name: "server not json", tool: Tool{ServerConfig: `{url:`, MCPConfig: `{"protocol":"sse"}`}, field: "server_config"},
		{name: "server trailing data", tool: Tool{ServerConfig: `{} {}`, MCPConfig: `{"protocol":"sse"}`}, field: "server_config"},
		{name: "mcp blank", tool: Tool{ServerConfig: `{}`, MCPConfig: ``}, field: "mcp_config"},
		{name: "unknown protocol", tool: Tool{ServerConfig: `{}`, MCPConfig: `{"protocol":"ws"}`}, field: "mcp_config"},
		{name: "unknown trigger", tool: Tool{ServerConfig: `{}`, MCPConfig: `{"protocol":"sse"}`, Messages: strp(`[{"trigger":"on_hold","message":"x"}]`)}, field: "messages"},
		{name: "duplicate trigger", tool: Tool{ServerConfig: `{}`, MCPConfig: `{"protocol":"sse"}`, Messages: strp(`[{"trigger":"on_start"},{"trigger":"on_start"}]`)}, field: "messages"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeConfig(tt.tool)
			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tt.field, ce.Field)
		})
	}

	_, err := DecodeConfig(Tool{ServerConfig: `{}`, MCPConfig: `{"protocol":"sse"}`, Messages: &empty})
	assert.NoError(t, err)
}

func TestDecodeConfig_IgnoresUnknownKeys(t *testing.T) {
	got, err := DecodeConfig(Tool{
		ServerConfig: `{"url":"https://mcp.example.com","retries":3}`,
		MCPConfig:    `{"protocol":"sse","transport_hint":"h2"}`,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://mcp.example.com", got.Server.URL)
	assert.Equal(t, ProtocolSSE, got.MCP.Protocol)
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("lookup_order-2"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("has space"))
	assert.False(t, ValidName("dots.not.ok"))
}

func strp(s string) *string { return &s }
