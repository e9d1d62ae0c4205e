package tools

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	msgURLRequired = "Server URL is required"
	msgURLScheme   = "URL must start with http:// or https://"
	msgURLInvalid  = "Please enter a valid URL"
)

// ServerSettings edits the server_config section. URL and timeout validate on their own,
// independent of the editor's save.
type ServerSettings struct {
	Expanded bool

	URL            string
	TimeoutSeconds int
	CredentialID   *string

	Headers         *List[Header]
	EncryptionPaths *List[string]

	urlTouched bool
}

func newServerSettings(c ServerConfig) *ServerSettings {
	return &ServerSettings{
		URL:             c.URL,
		TimeoutSeconds:  c.TimeoutSeconds,
		CredentialID:    c.CredentialID,
		Headers:         NewList(c.Headers),
		EncryptionPaths: NewList(c.Encryption.Paths),
	}
}

func (s *ServerSettings) SetURL(v string) { s.URL = v }

// BlurURL marks the URL as touched so its error becomes visible.
func (s *ServerSettings) BlurURL() { s.urlTouched = true }

func (s *ServerSettings) URLTouched() bool { return s.urlTouched }

// URLError returns "" when the URL is a well-formed http(s) URL.
func (s *ServerSettings) URLError() string { return validateServerURL(s.URL) }

// ChangeTimeout clamps into [TimeoutMin, TimeoutMax]; unparsable input becomes TimeoutMin.
func (s *ServerSettings) ChangeTimeout(raw string) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.TimeoutSeconds = TimeoutMin
		return
	}
	s.TimeoutSeconds = max(TimeoutMin, min(TimeoutMax, n))
}

func (s *ServerSettings) BlurTimeout(raw string) { s.ChangeTimeout(raw) }

// SetCredential selects a credential; "" clears it.
func (s *ServerSettings) SetCredential(id string) {
	if id == "" {
		s.CredentialID = nil
		return
	}
	s.CredentialID = &id
}

func (s *ServerSettings) Config() ServerConfig {
	return ServerConfig{
		URL:            s.URL,
		TimeoutSeconds: s.TimeoutSeconds,
		CredentialID:   s.CredentialID,
		Headers:        s.Headers.Items(),
		Encryption:     Encryption{Paths: s.EncryptionPaths.Items()},
	}
}

func validateServerURL(raw string) string {
	if raw == "" {
		return msgURLRequired
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return msgURLInvalid
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return msgURLScheme
	}
	if u.Host == "" {
		return msgURLInvalid
	}
	return ""
}
