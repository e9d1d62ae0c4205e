package httpapi

import (
	"net/http"
	"strings"

	"vox-console/internal/audit"
	"vox-console/internal/credentials"

	"github.com/gin-gonic/gin"
)

const (
	msgCredentialName  = "Credential name is required"
	msgCredentialType  = "Credential type must be bearer, api_key or basic"
	msgCredentialValue = "Credential value is required"
)

func (h *Handlers) ListCredentials(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	out, err := h.Credentials.List(c.Request.Context(), cid)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) CreateCredential(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	var in struct {
		Name  string `json:"name"`
		Type  string `json:"type"`
		Value string `json:"value"`
	}
	if !bindJSON(c, &in) {
		return
	}
	switch {
	case strings.TrimSpace(in.Name) == "":
		invalid(c, "name", msgCredentialName)
		return
	case !credentials.ValidType(in.Type):
		invalid(c, "type", msgCredentialType)
		return
	case in.Value == "":
		invalid(c, "value", msgCredentialValue)
		return
	}

	cred, err := h.Credentials.Create(c.Request.Context(), credentials.Create{
		ClientID: cid,
		Name:     strings.TrimSpace(in.Name),
		Type:     in.Type,
		Value:    in.Value,
	})
	if err != nil {
		fail(c, err)
		return
	}
	h.record(c, cid, audit.EventCredentialCreated, cred.ID, "credential created", map[string]any{"name": cred.Name, "type": cred.Type})
	c.JSON(http.StatusCreated, cred)
}

func (h *Handlers) UpdateCredential(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	cred, err := h.ownedCredential(c, cid)
	if err != nil {
		fail(c, err)
		return
	}
	var in credentials.Update
	if !bindJSON(c, &in) {
		return
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		invalid(c, "name", msgCredentialName)
		return
	}
	if in.Value != nil && *in.Value == "" {
		invalid(c, "value", msgCredentialValue)
		return
	}
	out, err := h.Credentials.Update(c.Request.Context(), cred.ID, in)
	if err != nil {
		fail(c, err)
		return
	}
	// The secret itself is never recorded.
	h.record(c, cid, audit.EventCredentialUpdated, out.ID, "credential updated", map[string]any{"value_rotated": in.Value != nil})
	c.JSON(http.StatusOK, out)
}

func (h *Handlers) DeleteCredential(c *gin.Context) {
	cid, ok := clientIDFrom(c)
	if !ok {
		return
	}
	cred, err := h.ownedCredential(c, cid)
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.Credentials.Delete(c.Request.Context(), cred.ID); err != nil {
		fail(c, err)
		return
	}
	h.record(c, cid, audit.EventCredentialDeleted, cred.ID, "credential deleted", map[string]any{"name": cred.Name})
	c.Status(http.StatusNoContent)
}

func (h *Handlers) ownedCredential(c *gin.Context, clientID string) (credentials.Credential, error) {
	cred, err := h.Credentials.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		return credentials.Credential{}, err
	}
	if cred.ClientID != clientID {
		return credentials.Credential{}, errNotFound
	}
	return cred, nil
}
