package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirewire/jobboard/internal/session"
)

type memStore struct {
	sessions map[string]session.Session
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]session.Session{}}
}

func (s *memStore) Create(_ context.Context, sess session.Session) error {
	s.sessions[sess.ID] = sess
	return nil
}

func (s *memStore) Get(_ context.Context, id string) (*session.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func request(cookie string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: cookie})
	}
	return req
}

func TestRequireSession(t *testing.T) {
	store := newMemStore()
	sess := session.New(42, "ana@example.com")
	require.NoError(t, store.Create(context.Background(), sess))

	app := fiber.New()
	app.Get("/protected", RequireSession(store), func(ctx *fiber.Ctx) error {
		userID, _ := ctx.Locals("userID").(uint)
		return ctx.JSON(fiber.Map{"user_id": userID})
	})

	t.Run("no cookie", func(t *testing.T) {
		resp, err := app.Test(request(""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown session id", func(t *testing.T) {
		resp, err := app.Test(request("not-a-session"))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid session passes through", func(t *testing.T) {
		resp, err := app.Test(request(sess.ID))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("destroyed session is refused", func(t *testing.T) {
		require.NoError(t, store.Delete(context.Background(), sess.ID))
		resp, err := app.Test(request(sess.ID))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestRedirectIfAuthenticated(t *testing.T) {
	store := newMemStore()
	sess := session.New(42, "ana@example.com")
	require.NoError(t, store.Create(context.Background(), sess))

	app := fiber.New()
	app.Get("/protected", RedirectIfAuthenticated(store), func(ctx *fiber.Ctx) error {
		return ctx.SendStatus(http.StatusOK)
	})

	t.Run("guest proceeds", func(t *testing.T) {
		resp, err := app.Test(request(""))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("logged-in caller is redirected away", func(t *testing.T) {
		resp, err := app.Test(request(sess.ID))
		require.NoError(t, err)
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
		assert.Equal(t, "/", resp.Header.Get("Location"))
	})
}
