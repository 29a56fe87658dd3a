package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/a-mirror/mirror-api/internal/bots"
)

func newBotsRouter(t *testing.T) (*gin.Engine, *bots.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc := bots.NewService(bots.NewMemoryRepository())
	g := gin.New()
	NewBotsHandler(svc).Register(g.Group("/api/admin/bots"))
	return g, svc
}

func doJSON(t *testing.T, g *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	var rd *strings.Reader
	if body == "" {
		rd = strings.NewReader("{}")
	} else {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	g.ServeHTTP(w, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestBotsAdd(t *testing.T) {
	g, svc := newBotsRouter(t)

	w, env := doJSON(t, g, http.MethodPut, "/api/admin/bots/add",
		`{"data":{"username":"a-mirror-bot","developer":"dev@example.com","token":"b0tT0k3n"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Successfully created new bot", env.Message)

	data := env.Data.(map[string]interface{})
	require.Equal(t, "a-mirror-bot", data["username"])
	require.Equal(t, "dev@example.com", data["developer"])

	b, err := svc.Get(context.Background(), "a-mirror-bot")
	require.NoError(t, err)
	require.Equal(t, "b0tT0k3n", b.Token)
}

func TestBotsAddDuplicate(t *testing.T) {
	g, _ := newBotsRouter(t)

	_, _ = doJSON(t, g, http.MethodPut, "/api/admin/bots/add",
		`{"data":{"username":"dup","developer":"d1","token":"t1"}}`)
	w, env := doJSON(t, g, http.MethodPut, "/api/admin/bots/add",
		`{"data":{"username":"dup","developer":"d2","token":"t2"}}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Bot is already registered; please issue an update instead", env.Message)
}

func TestBotsGet(t *testing.T) {
	g, _ := newBotsRouter(t)

	_, _ = doJSON(t, g, http.MethodPut, "/api/admin/bots/add",
		`{"data":{"username":"getme","developer":"dev","token":"tok"}}`)

	w, env := doJSON(t, g, http.MethodGet, "/api/admin/bots/get", `{"data":{"username":"getme"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", env.Message)
	data := env.Data.(map[string]interface{})
	require.Equal(t, "getme", data["username"])
	require.Equal(t, "dev", data["developer"])
	require.Equal(t, "tok", data["token"])
}

func TestBotsGetMissing(t *testing.T) {
	g, _ := newBotsRouter(t)

	w, env := doJSON(t, g, http.MethodGet, "/api/admin/bots/get", `{"data":{"username":"ghost"}}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, "Bot not found", env.Message)
}

func TestBotsGetAll(t *testing.T) {
	g, _ := newBotsRouter(t)

	for _, u := range []string{"zeta", "alpha"} {
		_, _ = doJSON(t, g, http.MethodPut, "/api/admin/bots/add",
			`{"data":{"username":"`+u+`","developer":"dev","token":"tok-`+u+`"}}`)
	}

	w, env := doJSON(t, g, http.MethodGet, "/api/admin/bots/getall", "")
	require.Equal(t, http.StatusOK, w.Code)

	data := env.Data.(map[string]interface{})
	list := data["bots"].([]interface{})
	require.Len(t, list, 2)

	first := list[0].(map[string]interface{})
	second := list[1].(map[string]interface{})
	require.Equal(t, "alpha", first["username"])
	require.Equal(t, "zeta", second["username"])
	// full field projection
	require.Contains(t, first, "id")
	require.Contains(t, first, "createdAt")
	require.Contains(t, first, "updatedAt")
	require.Contains(t, first, "token")
}

func TestBotsUpdateDeveloperOnly(t *testing.T) {
	g, svc := newBotsRouter(t)

	_, _ = doJSON(t, g, http.MethodPut, "/api/admin/bots/add",
		`{"data":{"username":"upd","developer":"old","token":"tok"}}`)

	w, env := doJSON(t, g, http.MethodPost, "/api/admin/bots/update",
		`{"data":{"username":"upd","developer":"new-dev"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Updated developer", env.Message)

	b, err := svc.Get(context.Background(), "upd")
	require.NoError(t, err)
	require.Equal(t, "new-dev", b.Developer)
	require.Equal(t, "tok", b.Token)
}

func TestBotsUpdateBothFields(t *testing.T) {
	g, _ := newBotsRouter(t)

	_, _ = doJSON(t, g, http.MethodPut, "/api/admin/bots/add",
		`{"data":{"username":"upd2","developer":"old","token":"tok"}}`)

	w, env := doJSON(t, g, http.MethodPost, "/api/admin/bots/update",
		`{"data":{"username":"upd2","developer":"new-dev","token":"new-tok"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Updated developer, Updated token", env.Message)

	data := env.Data.(map[string]interface{})
	require.Equal(t, "new-dev", data["newDeveloper"])
	require.Equal(t, "new-tok", data["newToken"])
}

func TestBotsUpdateMissing(t *testing.T) {
	g, _ := newBotsRouter(t)

	w, env := doJSON(t, g, http.MethodPost, "/api/admin/bots/update",
		`{"data":{"username":"ghost","developer":"x"}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Bot does not exist", env.Message)
}

func TestBotsDelete(t *testing.T) {
	g, svc := newBotsRouter(t)

	_, _ = doJSON(t, g, http.MethodPut, "/api/admin/bots/add",
		`{"data":{"username":"doomed","developer":"dev","token":"tok"}}`)

	w, env := doJSON(t, g, http.MethodDelete, "/api/admin/bots/delete",
		`{"data":{"username":"doomed"}}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Successfully removed bot", env.Message)

	_, err := svc.Get(context.Background(), "doomed")
	require.ErrorIs(t, err, bots.ErrNotFound)
}

func TestBotsDeleteMissing(t *testing.T) {
	g, _ := newBotsRouter(t)

	w, env := doJSON(t, g, http.MethodDelete, "/api/admin/bots/delete",
		`{"data":{"username":"ghost"}}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Bot does not exist", env.Message)
}
