package httpapi

import (
	"net/http"
	"strconv"

	"vox-console/internal/audit"
	"vox-console/internal/credentials"
	"vox-console/internal/tools"

	"github.com/gin-gonic/gin"
)

type serverInput struct {
	URL             *string         `json:"url"`
	TimeoutSeconds  *int            `json:"timeout_seconds"`
	CredentialID    *string         `json:"credential_id"`
	Headers         *[]tools.Header `json:"headers"`
	EncryptionPaths *[]string       `json:"encryption_paths"`
}

type toolInput struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Protocol    *string          `json:"protocol"`
	Server      *serverInput     `json:"server"`
	Messages    *[]tools.Message `json:"messages"`
}

func (in toolInput) applyTo(e *tools.Editor) error {
	if in.Name != nil {
		e.SetName(*in.Name)
	}
	if in.Description != nil {
		if err := e.SetDescription(*in.Description); err != nil {
			return tools.FieldErrors{"description": err.Error()}
		}
	}
	if in.Protocol != nil {
		if err := e.SetProtocol(*in.Protocol); err != nil {
			return tools.FieldErrors{"protocol": err.Error()}
		}
	}
	if s := in.Server; s != nil {
		if s.URL != nil {
			e.Server.SetURL(*s.URL)
			e.Server.BlurURL()
		}
		if s.TimeoutSeconds != nil {
			e.Server.BlurTimeout(strconv.Itoa(*s.TimeoutSeconds))
		}
		if s.CredentialID != nil {
			e.Server.SetCredential(*s.CredentialID)
		}
		if s.Headers != nil {
			e.Server.Headers = tools.NewList(*s.Headers)
		}
		if s.EncryptionPaths != nil {
			e.Server.EncryptionPaths = tools.NewList(*s.EncryptionPaths)
		}
	}
	if in.Messages != nil {
		for _, m := range e.Messages.Messages() {
			e.Messages.Remove(m.Trigger)
		}
		for _, m := range *in.Messages {
			if err := e.Messages.Add(m.Trigger); err != nil {
				return tools.FieldErrors{"messages": err.Error()}
			}
			e.Messages.SetMessage(m.Trigger, m.Message)
		}
	}
	return nil
}

type editorState struct {
	ID          string                   `json:"id,omitempty"`
	IsNew       bool                     `json:"is_new"`
	Name        string                   `json:"name"`
	Description string                   `json:"description"`
	Protocol    string                   `json:"protocol"`
	Server      tools.ServerConfig       `json:"server"`
	Messages    []tools.Message          `json:"messages"`
	Available   []string                 `json:"available_triggers"`
	Credentials []credentials.Credential `json:"credentials"`
	Errors      tools.FieldErrors        `json:"errors,omitempty"`
}

func editorView(e *tools.Editor) editorState {
	return editorState{
		ID:          e.ToolID(),
		IsNew:       e.IsNew(),
		Name:        e.Name,
		Description: e.Description,
		Protocol:    e.Protocol.Protocol,
		Server:      e.Server.Config(),
		Messages:    e.Messages.Sorted(),
		Available:   e.Messages.Available(),
		Credentials: e.Credentials,
		Errors:      e.Errors(),
	}
}

// --- Tools ---

func (h *Handlers) ListTools(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	out, err := h.Tools.List(c.Request.Context(), cid, page, size)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) ListToolsBrief(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	out, err := h.Tools.ListBrief(c.Request.Context(), cid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

// ToolEditor returns the editor state for :id, or for a new tool when :id is "new".
func (h *Handlers) ToolEditor(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if id == "new" {
		id = ""
	}
	e := tools.NewEditor(cid)
	if err := e.Load(c.Request.Context(), h.Tools, h.Credentials, id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, editorView(e))
}

func (h *Handlers) CreateTool(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	var in toolInput
	if !bindJSON(c, &in) {
		return
	}
	e := tools.NewEditor(cid)
	if err := in.applyTo(e); err != nil {
		fail(c, err)
		return
	}
	t, err := e.Save(c.Request.Context(), h.Tools)
	if err != nil {
		fail(c, err)
		return
	}
	h.record(c, cid, audit.EventToolCreated, t.ID, "tool created", map[string]any{"name": t.Name})
	c.JSON(http.StatusCreated, t)
}

// UpdateTool loads the stored tool, applies the given fields and saves every field back.
func (h *Handlers) UpdateTool(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	var in toolInput
	if !bindJSON(c, &in) {
		return
	}
	e := tools.NewEditor(cid)
	if err := e.Load(c.Request.Context(), h.Tools, h.Credentials, c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	if err := in.applyTo(e); err != nil {
		fail(c, err)
		return
	}
	t, err := e.Save(c.Request.Context(), h.Tools)
	if err != nil {
		fail(c, err)
		return
	}
	h.record(c, cid, audit.EventToolUpdated, t.ID, "tool updated", nil)
	c.JSON(http.StatusOK, t)
}

// DeleteTool only checks ownership. The stored blobs are not decoded, so a tool
// with a broken config can still be removed.
func (h *Handlers) DeleteTool(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	t, err := h.ownedTool(c, cid)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.Tools.Delete(c.Request.Context(), t.ID); err != nil {
		fail(c, err)
		return
	}
	h.record(c, cid, audit.EventToolDeleted, t.ID, "tool deleted", map[string]any{"name": t.Name})
	c.Status(http.StatusNoContent)
}

// TestTool runs the tool once. parameters is JSON text, as typed into the test panel.
func (h *Handlers) TestTool(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	var in struct {
		Parameters string `json:"parameters"`
	}
	if c.Request.ContentLength != 0 && !bindJSON(c, &in) {
		return
	}
	params, err := tools.ParseTestParameters(in.Parameters)
	if err != nil {
		invalid(c, "parameters", msgInvalidParameters)
		return
	}

	t, err := h.ownedTool(c, cid)
	if err != nil {
		fail(c, err)
		return
	}
	res, err := h.Tools.Test(c.Request.Context(), t.ID, params)
	if err != nil {
		fail(c, err)
		return
	}
	h.record(c, cid, audit.EventToolTested, t.ID, "tool tested", map[string]any{"success": res.Success})
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) ownedTool(c *gin.Context, clientID string) (tools.Tool, error) {
	t, err := h.Tools.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return tools.Tool{}, err
	}
	if t.ClientID != clientID {
		return tools.Tool{}, errNotFound
	}
	return t, nil
}
