package httpapi

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"vox-console/internal/apiclient"
	"vox-console/internal/assistants"
	"vox-console/internal/audit"
	"vox-console/internal/auth"
	"vox-console/internal/calls"
	"vox-console/internal/credentials"
	"vox-console/internal/reporting"
	"vox-console/internal/tools"
	"vox-console/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse input, drive the stores and forms, return JSON.
type Handlers struct {
	Client      *apiclient.Client
	Assistants  *assistants.API
	Calls       *calls.API
	Tools       *tools.API
	Credentials *credentials.API
	Reporting   *reporting.Service
	Audit       *audit.Service

	stores *StoreCache
}

// New builds every resource API on one shared client.
func New(client *apiclient.Client, auditSvc *audit.Service) *Handlers {
	a := assistants.NewAPI(client)
	c := calls.NewAPI(client)
	return &Handlers{
		Client:      client,
		Assistants:  a,
		Calls:       c,
		Tools:       tools.NewAPI(client),
		Credentials: credentials.NewAPI(client),
		Reporting:   reporting.NewService(c),
		Audit:       auditSvc,
		stores:      NewStoreCache(a, DefaultStoreIdleTTL),
	}
}

// Close cancels in-flight work of every cached store.
func (h *Handlers) Close() { h.stores.Close() }

// errNotFound hides resources of other tenants as well as missing ones.
var errNotFound = errors.New("not found")

const (
	msgInvalidE164       = "Phone number must be in E.164 format"
	msgInvalidParameters = "Invalid JSON in parameters"
)

var e164Pattern = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

func clientIDFrom(c *gin.Context) (string, bool) {
	cid, err := auth.ClientID(c.Request.Context())
	if err != nil || cid == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "client_id required"})
		return "", false
	}
	return cid, true
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return false
	}
	return true
}

// fail maps an error to a response.
//
//   - form validation: 422 with the field
//   - control-plane API error: its status and detail
//   - anything else: 502
func fail(c *gin.Context, err error) {
	var (
		ve     *assistants.ValidationError
		fe     tools.FieldErrors
		ce     *tools.ConfigError
		apiErr *apiclient.Error
	)
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": ve.Message, "field": ve.Field})
	case errors.As(err, &fe):
		field, msg := firstFieldError(fe)
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": msg, "field": field, "fields": fe})
	case errors.As(err, &ce):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": ce.Error(), "field": ce.Field})
	case errors.Is(err, errNotFound), errors.Is(err, tools.ErrForeignTool):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &apiErr):
		status := apiErr.Status
		if status < 400 || status > 599 {
			status = http.StatusBadGateway
		}
		c.AbortWithStatusJSON(status, gin.H{"error": apiErr.Detail})
	default:
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": apiclient.ErrRequestFailed.Error()})
	}
}

func invalid(c *gin.Context, field, msg string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": msg, "field": field})
}

func firstFieldError(fe tools.FieldErrors) (string, string) {
	for _, k := range []string{"name", "url", "load", "submit"} {
		if m, ok := fe[k]; ok {
			return k, m
		}
	}
	for k, m := range fe {
		return k, m
	}
	return "", ""
}

// record appends an audit event. Failures are logged, never returned.
func (h *Handlers) record(c *gin.Context, clientID string, typ audit.EventType, resourceID, message string, meta map[string]any) {
	if h.Audit == nil {
		return
	}
	ctx := c.Request.Context()
	userID, _ := auth.UserID(ctx)
	role, _ := auth.Role(ctx)
	actor := audit.Actor{UserID: userID, Role: role, IP: c.ClientIP()}
	if err := h.Audit.Record(context.WithoutCancel(ctx), clientID, actor, typ, resourceID, message, meta); err != nil {
		logger.FromGin(c).Warn("audit append failed", "type", typ, "err", err)
	}
}

// --- Health ---

// BackendHealth proxies the control-plane health document.
func (h *Handlers) BackendHealth(c *gin.Context) {
	hs, err := h.Client.Health(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, hs)
}
