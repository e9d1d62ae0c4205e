package main

import (
	"database/sql"
	"fmt"
	"html"
	"net/http"
	"time"

	"vox-console/internal/auth"
	"vox-console/internal/httpapi"
	"vox-console/internal/rbac"
	"vox-console/pkg/metrics"
	"vox-console/pkg/utils"

	"github.com/gin-gonic/gin"
)

type routeDeps struct {
	handlers *httpapi.Handlers
	auth     *auth.Manager
	metrics  *metrics.Metrics
	db       *sql.DB

	// inflight is nil when no cap is configured.
	inflight gin.HandlerFunc
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, d routeDeps) {
	h := d.handlers

	// public
	r.GET("/healthz", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if d.db != nil {
			if err := utils.HealthCheck(c.Request.Context(), d.db, 2*time.Second); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "down"})
				return
			}
			status["database"] = "ok"
		}
		c.JSON(http.StatusOK, status)
	})
	r.GET("/metrics", d.metrics.GinHandler())
	r.GET("/api/health", h.BackendHealth)

	// Pages. The gate redirects between /login and the console depending on the session.
	pages := r.Group("/")
	pages.Use(auth.PageGate(d.auth))
	{
		pages.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/assistants") })
		for _, p := range []string{"/login", "/signup", "/assistants", "/calls", "/dashboard", "/tools"} {
			pages.GET(p, page(p))
		}
		pages.GET("/tools/:id", page("/tools"))
	}

	// Console JSON API
	api := r.Group("/console")
	api.Use(auth.RequireSession(d.auth))
	api.Use(rbac.RequireClient())
	if d.inflight != nil {
		api.Use(d.inflight)
	}
	editors := rbac.RequireAnyRole(rbac.Editors...)
	{
		api.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			cid, _ := auth.ClientID(c.Request.Context())
			role, _ := auth.Role(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{"user_id": uid, "client_id": cid, "role": role, "email": auth.Email(c.Request.Context())})
		})
		api.GET("/catalog", h.Catalog)

		// ASSISTANTS routes
		assistants := api.Group("/assistants")
		{
			assistants.GET("", h.ListAssistants)
			assistants.GET("/form", h.AssistantForm)
			assistants.GET("/:id", h.GetAssistant)
			assistants.POST("", editors, h.CreateAssistant)
			assistants.PATCH("/:id", editors, h.UpdateAssistant)
			assistants.DELETE("/:id", editors, h.DeleteAssistant)

			assistants.GET("/:id/phone-numbers", h.ListPhoneNumbers)
			assistants.POST("/:id/phone-numbers", editors, h.AssignPhoneNumber)
			assistants.DELETE("/:id/phone-numbers/:e164", editors, h.UnassignPhoneNumber)
		}

		// CALLS routes
		calls := api.Group("/calls")
		{
			calls.GET("", h.ListCalls)
			calls.GET("/:id", h.GetCall)
		}
		api.GET("/analytics/calls", h.CallsSummary)

		// TOOLS routes
		tools := api.Group("/tools")
		{
			tools.GET("", h.ListTools)
			tools.GET("/brief", h.ListToolsBrief)
			tools.GET("/:id/editor", h.ToolEditor)
			tools.POST("", editors, h.CreateTool)
			tools.PUT("/:id", editors, h.UpdateTool)
			tools.DELETE("/:id", editors, h.DeleteTool)
			tools.POST("/:id/test", editors, h.TestTool)
		}

		// CREDENTIALS routes
		// Secrets are managed by owner/admin only.
		creds := api.Group("/credentials")
		{
			creds.GET("", h.ListCredentials)
			secrets := rbac.RequireAnyRole(rbac.SecretManagers...)
			creds.POST("", secrets, h.CreateCredential)
			creds.PATCH("/:id", secrets, h.UpdateCredential)
			creds.DELETE("/:id", secrets, h.DeleteCredential)
		}
	}
}

// page serves a minimal shell; the browser bundle renders the rest.
func page(name string) gin.HandlerFunc {
	body := fmt.Sprintf(`<!doctype html><html><head><meta charset="utf-8"><title>Vox Console</title></head>`+
		`<body><div id="app" data-page="%s"></div></body></html>`, html.EscapeString(name))
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(body))
	}
}
