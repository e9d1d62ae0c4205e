package tools

import (
	"regexp"
	"time"
)

// TypeMCP is the only tool type the API accepts today.
const TypeMCP = "mcp"

// Tool is an externally hosted function an assistant may call.
//
// ServerConfig, MCPConfig and Messages are JSON documents stored as strings.
// Decode them with DecodeConfig; never parse them ad hoc.
type Tool struct {
	ID          string  `json:"id"`
	ClientID    string  `json:"client_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Type        string  `json:"type"`

	ServerConfig string  `json:"server_config"`
	MCPConfig    string  `json:"mcp_config"`
	Messages     *string `json:"messages"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Create struct {
	ClientID     string  `json:"client_id"`
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	Type         string  `json:"type"`
	ServerConfig string  `json:"server_config"`
	MCPConfig    string  `json:"mcp_config"`
	Messages     *string `json:"messages"`
}

// Update is the PATCH body. The editor always sends every field.
type Update struct {
	Name         string  `json:"name"`
	Description  *string `json:"description"`
	ServerConfig string  `json:"server_config"`
	MCPConfig    string  `json:"mcp_config"`
	Messages     *string `json:"messages"`
}

// Brief is the id+name projection used by selection widgets.
type Brief struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// Error types reported by the test endpoint.
const (
	TestErrorTimeout    = "timeout"
	TestErrorConnection = "connection"
	TestErrorAuth       = "auth"
	TestErrorOther      = "other"
)

type TestResult struct {
	Success        bool    `json:"success"`
	StatusCode     *int    `json:"status_code,omitempty"`
	Error          *string `json:"error,omitempty"`
	ErrorType      *string `json:"error_type,omitempty"`
	ResponseBody   *string `json:"response_body,omitempty"`
	ResponseTimeMS *int    `json:"response_time_ms,omitempty"`
}

const (
	DescriptionMaxLength = 1000
	TimeoutMin           = 1
	TimeoutMax           = 300
	DefaultTimeout       = 20
)

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidName reports whether name matches the allowed tool name charset.
func ValidName(name string) bool { return namePattern.MatchString(name) }
