package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/panel-admin/internal/application/dto"
	"github.com/jhoicas/panel-admin/internal/application/matrix"
	"github.com/jhoicas/panel-admin/internal/application/permission"
	"github.com/jhoicas/panel-admin/internal/application/session"
	"github.com/jhoicas/panel-admin/internal/infrastructure/kvstate"
	"github.com/jhoicas/panel-admin/internal/infrastructure/memory"
	"github.com/jhoicas/panel-admin/internal/infrastructure/seed"
	apphttp "github.com/jhoicas/panel-admin/internal/interfaces/http"
	"github.com/jhoicas/panel-admin/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "panel-admin-test"
)

type testEnv struct {
	app      *fiber.App
	sessions *session.Manager
	perms    *permission.Store
}

// buildTestApp arma la API completa sobre el store en memoria con las cuentas demo.
func buildTestApp(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	kv := memory.NewStateStore()
	users := kvstate.NewUserRepository(kv)
	perms := permission.NewStore(kvstate.NewPermissionRepository(kv), logger.Nop(), permission.WithAdminLock(true))
	perms.Load(ctx)
	sessions := session.NewManager(users, kvstate.NewSessionRepository(kv), logger.Nop(),
		session.WithBcryptCost(bcrypt.MinCost))
	_, err := seed.Run(ctx, users, sessions, seed.DemoUsers(), logger.Nop())
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	apphttp.Router(app, apphttp.RouterDeps{
		Sessions:    sessions,
		Permissions: perms,
		Editor:      matrix.NewEditor(perms),
		JWT:         apphttp.JWTConfig{Secret: testJWTSecret, Issuer: testIssuer},
		Log:         logger.Nop(),
	})
	return &testEnv{app: app, sessions: sessions, perms: perms}
}

// do lanza una petición con cuerpo JSON opcional y token opcional.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// login devuelve la respuesta de login decodificada.
func (e *testEnv) login(t *testing.T, email, password string) dto.LoginResponse {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
