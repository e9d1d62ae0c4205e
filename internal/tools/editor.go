package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"vox-console/internal/credentials"

	"golang.org/x/sync/errgroup"
)

var (
	ErrDescriptionTooLong = fmt.Errorf("tools: description exceeds %d characters", DescriptionMaxLength)
	ErrUnknownProtocol    = errors.New("tools: unknown protocol")
	ErrNotSaved           = errors.New("tools: tool has not been saved")
	ErrInvalidParameters  = errors.New("tools: invalid JSON in parameters")
	ErrForeignTool        = errors.New("tools: tool belongs to another client")
)

const (
	msgNameRequired = "Tool name is required"
	msgNamePattern  = "Tool name can only contain letters, numbers, underscores, and hyphens"
	msgSaveFailed   = "Failed to save tool. Please try again."
	msgDeleteFailed = "Failed to delete tool. Please try again."
)

// FieldErrors maps a field ("name", "url", "submit", "load") to its message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, k := range []string{"name", "url", "load", "submit"} {
		if m, ok := e[k]; ok {
			parts = append(parts, k+": "+m)
		}
	}
	return "tools: " + strings.Join(parts, "; ")
}

type ProtocolSection struct {
	Expanded bool
	Protocol string
}

type ToolReader interface {
	Get(ctx context.Context, id string) (Tool, error)
}

type ToolWriter interface {
	Create(ctx context.Context, in Create) (Tool, error)
	Update(ctx context.Context, id string, in Update) (Tool, error)
	Delete(ctx context.Context, id string) error
}

type CredentialLister interface {
	List(ctx context.Context, clientID string) (credentials.ListResponse, error)
}

// Editor is the create/edit state of one MCP tool: a flat name and description
// plus server, protocol and messages sections. Validation runs at save time.
type Editor struct {
	clientID string
	toolID   string

	Name        string
	Description string

	Server   *ServerSettings
	Protocol ProtocolSection
	Messages *MessagesSection

	Credentials []credentials.Credential

	errs FieldErrors
}

// NewEditor starts a new tool with default sections.
func NewEditor(clientID string) *Editor {
	e := &Editor{clientID: clientID, errs: FieldErrors{}}
	e.reset(DefaultConfig())
	return e
}

func (e *Editor) reset(cfg Config) {
	e.Server = newServerSettings(cfg.Server)
	e.Protocol = ProtocolSection{Protocol: cfg.MCP.Protocol}
	e.Messages = newMessagesSection(cfg.Messages)
}

func (e *Editor) ToolID() string { return e.toolID }

func (e *Editor) IsNew() bool { return e.toolID == "" }

// Errors returns a copy of the current field errors.
func (e *Editor) Errors() FieldErrors {
	out := make(FieldErrors, len(e.errs))
	for k, v := range e.errs {
		out[k] = v
	}
	return out
}

// Load fetches the credential options and, when toolID is set, the tool itself.
// Both requests run concurrently. A blob that does not decode fails the load.
func (e *Editor) Load(ctx context.Context, reader ToolReader, creds CredentialLister, toolID string) error {
	var (
		credList credentials.ListResponse
		tool     Tool
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		credList, err = creds.List(gctx, e.clientID)
		return err
	})
	if toolID != "" {
		g.Go(func() error {
			var err error
			tool, err = reader.Get(gctx, toolID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		e.errs["load"] = err.Error()
		return err
	}

	e.Credentials = credList.Items
	if toolID == "" {
		return nil
	}
	if e.clientID != "" && tool.ClientID != "" && tool.ClientID != e.clientID {
		e.errs["load"] = ErrForeignTool.Error()
		return ErrForeignTool
	}
	cfg, err := DecodeConfig(tool)
	if err != nil {
		e.errs["load"] = err.Error()
		return err
	}
	e.toolID = tool.ID
	e.Name = tool.Name
	e.Description = ""
	if tool.Description != nil {
		e.Description = *tool.Description
	}
	e.reset(cfg)
	delete(e.errs, "load")
	return nil
}

func (e *Editor) SetName(v string) { e.Name = v }

// SetDescription rejects text over the length limit and keeps the previous value.
func (e *Editor) SetDescription(v string) error {
	if utf8.RuneCountInString(v) > DescriptionMaxLength {
		return ErrDescriptionTooLong
	}
	e.Description = v
	return nil
}

func (e *Editor) SetProtocol(p string) error {
	if p != ProtocolSHTTP && p != ProtocolSSE {
		return fmt.Errorf("%w: %q", ErrUnknownProtocol, p)
	}
	e.Protocol.Protocol = p
	return nil
}

// Config assembles the typed configuration from the sections.
func (e *Editor) Config() Config {
	return Config{
		Server:   e.Server.Config(),
		MCP:      MCPConfig{Protocol: e.Protocol.Protocol},
		Messages: e.Messages.Messages(),
	}
}

// Validate checks the name and server URL. It replaces the current field errors.
func (e *Editor) Validate() FieldErrors {
	errs := FieldErrors{}
	switch {
	case e.Name == "":
		errs["name"] = msgNameRequired
	case !ValidName(e.Name):
		errs["name"] = msgNamePattern
	}
	if msg := e.Server.URLError(); msg != "" {
		errs["url"] = msg
	}
	e.errs = errs
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Save creates or updates the tool. A created tool switches the editor into edit mode.
func (e *Editor) Save(ctx context.Context, w ToolWriter) (Tool, error) {
	if errs := e.Validate(); errs != nil {
		return Tool{}, errs
	}
	blobs, err := e.Config().Encode()
	if err != nil {
		e.errs["submit"] = err.Error()
		return Tool{}, err
	}
	var desc *string
	if e.Description != "" {
		d := e.Description
		desc = &d
	}

	var t Tool
	if e.IsNew() {
		t, err = w.Create(ctx, Create{
			ClientID:     e.clientID,
			Name:         e.Name,
			Description:  desc,
			Type:         TypeMCP,
			ServerConfig: blobs.ServerConfig,
			MCPConfig:    blobs.MCPConfig,
			Messages:     blobs.Messages,
		})
	} else {
		t, err = w.Update(ctx, e.toolID, Update{
			Name:         e.Name,
			Description:  desc,
			ServerConfig: blobs.ServerConfig,
			MCPConfig:    blobs.MCPConfig,
			Messages:     blobs.Messages,
		})
	}
	if err != nil {
		e.errs["submit"] = msgSaveFailed
		return Tool{}, err
	}
	e.toolID = t.ID
	return t, nil
}

func (e *Editor) Delete(ctx context.Context, w ToolWriter) error {
	if e.IsNew() {
		return ErrNotSaved
	}
	if err := w.Delete(ctx, e.toolID); err != nil {
		e.errs["submit"] = msgDeleteFailed
		return err
	}
	return nil
}

// ParseTestParameters parses optional JSON object parameters for a tool test.
// Blank input means no parameters.
func ParseTestParameters(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var params map[string]any
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		return nil, ErrInvalidParameters
	}
	return params, nil
}
