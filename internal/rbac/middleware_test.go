package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"vox-console/internal/auth"

	"github.com/gin-gonic/gin"
)

func serve(t *testing.T, id auth.Identity, chain ...gin.HandlerFunc) int {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	handlers := []gin.HandlerFunc{func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithIdentity(c.Request.Context(), id))
		c.Next()
	}}
	handlers = append(handlers, chain...)
	handlers = append(handlers, func(c *gin.Context) { c.Status(200) })
	r.GET("/x", handlers...)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	return w.Code
}

func TestRequireAnyRole_ServiceRoleBypasses(t *testing.T) {
	code := serve(t, auth.Identity{UserID: "u", ClientID: "c", Role: RoleService}, RequireClient(), RequireAnyRole(RoleOwner))
	if code != 200 {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestRequireAnyRole_ViewerDenied(t *testing.T) {
	code := serve(t, auth.Identity{UserID: "u", ClientID: "c", Role: RoleViewer}, RequireClient(), RequireAnyRole(Editors...))
	if code != 403 {
		t.Fatalf("expected 403, got %d", code)
	}
}

func TestRequireAnyRole_MissingRoleIsMember(t *testing.T) {
	if code := serve(t, auth.Identity{UserID: "u", ClientID: "c"}, RequireAnyRole(Editors...)); code != 200 {
		t.Fatalf("expected member to edit, got %d", code)
	}
	if code := serve(t, auth.Identity{UserID: "u", ClientID: "c"}, RequireAnyRole(SecretManagers...)); code != 403 {
		t.Fatalf("expected member denied on credentials, got %d", code)
	}
}

func TestRequireClient_Required(t *testing.T) {
	code := serve(t, auth.Identity{UserID: "u", Role: RoleOwner}, RequireClient(), RequireAnyRole(RoleOwner))
	if code != 401 {
		t.Fatalf("expected 401, got %d", code)
	}
}
