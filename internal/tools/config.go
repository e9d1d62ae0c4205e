package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Header struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Encryption struct {
	Paths []string `json:"paths"`
}

// ServerConfig is the decoded server_config document. Keys are camelCase on the wire.
type ServerConfig struct {
	URL            string     `json:"url"`
	TimeoutSeconds int        `json:"timeoutSeconds"`
	CredentialID   *string    `json:"credentialId"`
	Headers        []Header   `json:"headers"`
	Encryption     Encryption `json:"encryption"`
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		TimeoutSeconds: DefaultTimeout,
		Headers:        []Header{},
		Encryption:     Encryption{Paths: []string{}},
	}
}

const (
	ProtocolSHTTP = "shttp"
	ProtocolSSE   = "sse"
)

type MCPConfig struct {
	Protocol string `json:"protocol"`
}

func DefaultMCPConfig() MCPConfig { return MCPConfig{Protocol: ProtocolSHTTP} }

// Triggers in display order.
const (
	TriggerOnStart   = "on_start"
	TriggerOnSuccess = "on_success"
	TriggerOnError   = "on_error"
)

var triggerOrder = []string{TriggerOnStart, TriggerOnSuccess, TriggerOnError}

type Message struct {
	Trigger string `json:"trigger"`
	Message string `json:"message"`
}

// Config is the typed form of a tool's three JSON blobs.
type Config struct {
	Server   ServerConfig
	MCP      MCPConfig
	Messages []Message
}

func DefaultConfig() Config {
	return Config{Server: DefaultServerConfig(), MCP: DefaultMCPConfig(), Messages: []Message{}}
}

// ConfigError reports a stored blob that does not decode into its schema.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string { return fmt.Sprintf("tools: invalid %s: %v", e.Field, e.Err) }

func (e *ConfigError) Unwrap() error { return e.Err }

// DecodeConfig parses and checks the blobs of t. A nil or empty messages blob is no messages.
func DecodeConfig(t Tool) (Config, error) {
	cfg := DefaultConfig()
	if err := strictUnmarshal(t.ServerConfig, &cfg.Server); err != nil {
		return Config{}, &ConfigError{Field: "server_config", Err: err}
	}
	if cfg.Server.Headers == nil {
		cfg.Server.Headers = []Header{}
	}
	if cfg.Server.Encryption.Paths == nil {
		cfg.Server.Encryption.Paths = []string{}
	}

	if err := strictUnmarshal(t.MCPConfig, &cfg.MCP); err != nil {
		return Config{}, &ConfigError{Field: "mcp_config", Err: err}
	}
	if cfg.MCP.Protocol != ProtocolSHTTP && cfg.MCP.Protocol != ProtocolSSE {
		return Config{}, &ConfigError{Field: "mcp_config", Err: fmt.Errorf("unknown protocol %q", cfg.MCP.Protocol)}
	}

	if t.Messages != nil && *t.Messages != "" {
		var msgs []Message
		if err := strictUnmarshal(*t.Messages, &msgs); err != nil {
			return Config{}, &ConfigError{Field: "messages", Err: err}
		}
		seen := make(map[string]bool, len(msgs))
		for _, m := range msgs {
			if !knownTrigger(m.Trigger) {
				return Config{}, &ConfigError{Field: "messages", Err: fmt.Errorf("unknown trigger %q", m.Trigger)}
			}
			if seen[m.Trigger] {
				return Config{}, &ConfigError{Field: "messages", Err: fmt.Errorf("duplicate trigger %q", m.Trigger)}
			}
			seen[m.Trigger] = true
		}
		cfg.Messages = msgs
	}
	return cfg, nil
}

// Blobs is the wire form of a Config.
type Blobs struct {
	ServerConfig string
	MCPConfig    string
	Messages     *string
}

// Encode serializes each section back to its storage string. No messages encode as null.
func (c Config) Encode() (Blobs, error) {
	server := c.Server
	if server.Headers == nil {
		server.Headers = []Header{}
	}
	if server.Encryption.Paths == nil {
		server.Encryption.Paths = []string{}
	}
	sb, err := json.Marshal(server)
	if err != nil {
		return Blobs{}, &ConfigError{Field: "server_config", Err: err}
	}
	mb, err := json.Marshal(c.MCP)
	if err != nil {
		return Blobs{}, &ConfigError{Field: "mcp_config", Err: err}
	}
	out := Blobs{ServerConfig: string(sb), MCPConfig: string(mb)}
	if len(c.Messages) > 0 {
		b, err := json.Marshal(c.Messages)
		if err != nil {
			return Blobs{}, &ConfigError{Field: "messages", Err: err}
		}
		s := string(b)
		out.Messages = &s
	}
	return out, nil
}

func strictUnmarshal(raw string, v any) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after JSON value")
	}
	return nil
}

func knownTrigger(t string) bool {
	for _, k := range triggerOrder {
		if k == t {
			return true
		}
	}
	return false
}
