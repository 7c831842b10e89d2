package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskman-io/taskman/internal/application"
	"github.com/taskman-io/taskman/internal/infrastructure/memory"
	handlers "github.com/taskman-io/taskman/internal/interface/http"
	"github.com/taskman-io/taskman/internal/interface/middleware"
	"github.com/taskman-io/taskman/pkg/helpers"
	"github.com/taskman-io/taskman/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	m.Run()
}

type testServer struct {
	router *gin.Engine
	jwt    *helpers.JWTManager
}

// envelope mirrors response.APIResponse with the data left raw
type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	jwt, err := helpers.NewJWTManager("test-secret", "HS256", 30*time.Minute)
	require.NoError(t, err)

	users := memory.NewUserRepository()
	tasks := memory.NewTaskRepository()

	authSvc := application.NewAuthService(users, jwt, nil, bcrypt.MinCost)
	taskSvc := application.NewTaskService(tasks, nil)

	authHandler := handlers.NewAuthHandler(authSvc, nil)
	taskHandler := handlers.NewTaskHandler(taskSvc, nil)

	r := gin.New()
	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/me", middleware.Auth(users, jwt), authHandler.Me)

	tg := api.Group("/tasks")
	tg.Use(middleware.Auth(users, jwt))
	tg.POST("", taskHandler.Create)
	tg.GET("", taskHandler.List)
	tg.GET("/:id", taskHandler.Get)
	tg.PUT("/:id", taskHandler.Update)
	tg.DELETE("/:id", taskHandler.Delete)

	return &testServer{router: r, jwt: jwt}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &env)
	}
	return w, env
}

func (s *testServer) register(t *testing.T, username, email, password string) {
	t.Helper()
	w, _ := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w, env := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "bearer", data.TokenType)
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	w, env := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "ana", "email": "a@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var user map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "ana", user["username"])
	assert.Equal(t, "a@x.com", user["email"])
	assert.NotZero(t, user["id"])
	assert.NotEmpty(t, user["created_at"])
	// the digest must never appear in any shape
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
}

func TestRegisterDuplicates(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "ana", "a@x.com", "secret1")

	w, env := s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "ana", "email": "other@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Username already registered", env.Message)

	w, env = s.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "bob", "email": "a@x.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already registered", env.Message)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	cases := []gin.H{
		{"username": "ana", "email": "a@x.com", "password": "short"},
		{"username": "ab", "email": "a@x.com", "password": "secret1"},
		{"username": "ana", "email": "not-an-email", "password": "secret1"},
		{"email": "a@x.com", "password": "secret1"},
	}
	for i, body := range cases {
		w, env := s.do(t, http.MethodPost, "/api/auth/register", "", body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "case %d", i)
		assert.NotEmpty(t, env.Error, "case %d", i)
	}
}

func TestLoginFailuresAreUniform(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "ana", "a@x.com", "secret1")

	w1, env1 := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ana", "password": "wrong"})
	w2, env2 := s.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"username": "ghost", "password": "secret1"})
	assert.Equal(t, http.StatusUnauthorized, w1.Code)
	assert.Equal(t, http.StatusUnauthorized, w2.Code)
	assert.Equal(t, env1.Message, env2.Message)
}

func TestLoginThenProtectedAccess(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "ana", "a@x.com", "secret1")
	token := s.login(t, "ana", "secret1")

	// fresh user sees an empty list
	w, env := s.do(t, http.MethodGet, "/api/tasks", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(env.Data))

	w, env = s.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var me map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "ana", me["username"])
}

func TestProtectedEndpointsRequireAuth(t *testing.T) {
	s := newTestServer(t)

	reqs := []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodGet, "/api/tasks/1"},
		{http.MethodPut, "/api/tasks/1"},
		{http.MethodDelete, "/api/tasks/1"},
	}
	for _, r := range reqs {
		w, _ := s.do(t, r.method, r.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", r.method, r.path)
	}
}

func TestExpiredToken(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "ana", "a@x.com", "secret1")

	expired, _, err := s.jwt.IssueWithTTL("ana", -time.Second)
	require.NoError(t, err)

	w, _ := s.do(t, http.MethodGet, "/api/tasks", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTaskCrudRoundTrip(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "ana", "a@x.com", "secret1")
	token := s.login(t, "ana", "secret1")

	w, env := s.do(t, http.MethodPost, "/api/tasks", token, gin.H{"title": "X", "description": "Y"})
	require.Equal(t, http.StatusCreated, w.Code)

	var task map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, "X", task["title"])
	assert.Equal(t, "Y", task["description"])
	assert.Equal(t, false, task["is_completed"])
	assert.NotEmpty(t, task["created_at"])
	assert.Nil(t, task["updated_at"])
	id := int64(task["id"].(float64))

	w, env = s.do(t, http.MethodGet, "/api/tasks/"+itoa(id), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, "X", task["title"])

	w, env = s.do(t, http.MethodPut, "/api/tasks/"+itoa(id), token, gin.H{"is_completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, "X", task["title"])
	assert.Equal(t, "Y", task["description"])
	assert.Equal(t, true, task["is_completed"])
	assert.NotNil(t, task["updated_at"])

	w, _ = s.do(t, http.MethodDelete, "/api/tasks/"+itoa(id), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())

	w, _ = s.do(t, http.MethodGet, "/api/tasks/"+itoa(id), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/api/tasks/"+itoa(id), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskUpdateEmptyBody(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "ana", "a@x.com", "secret1")
	token := s.login(t, "ana", "secret1")

	_, env := s.do(t, http.MethodPost, "/api/tasks", token, gin.H{"title": "X", "description": "Y"})
	var task map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &task))
	id := int64(task["id"].(float64))

	w, env := s.do(t, http.MethodPut, "/api/tasks/"+itoa(id), token, gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, "X", task["title"])
	assert.Equal(t, "Y", task["description"])
	assert.Equal(t, false, task["is_completed"])
	assert.NotNil(t, task["updated_at"])
}

func TestTaskValidation(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "ana", "a@x.com", "secret1")
	token := s.login(t, "ana", "secret1")

	w, _ := s.do(t, http.MethodPost, "/api/tasks", token, gin.H{"description": "no title"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/tasks", token, gin.H{"title": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	_, env := s.do(t, http.MethodPost, "/api/tasks", token, gin.H{"title": "X"})
	var task map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &task))
	id := int64(task["id"].(float64))

	w, _ = s.do(t, http.MethodPut, "/api/tasks/"+itoa(id), token, gin.H{"title": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCrossUserIsolation(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "ana", "a@x.com", "secret1")
	s.register(t, "bob", "b@x.com", "secret2")
	tokenA := s.login(t, "ana", "secret1")
	tokenB := s.login(t, "bob", "secret2")

	_, env := s.do(t, http.MethodPost, "/api/tasks", tokenA, gin.H{"title": "private"})
	var task map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &task))
	id := int64(task["id"].(float64))

	// a foreign task is indistinguishable from a missing one
	w, _ := s.do(t, http.MethodGet, "/api/tasks/"+itoa(id), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(t, http.MethodPut, "/api/tasks/"+itoa(id), tokenB, gin.H{"title": "stolen"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = s.do(t, http.MethodDelete, "/api/tasks/"+itoa(id), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/tasks", tokenB, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", string(env.Data))

	// the owner is unaffected
	w, env = s.do(t, http.MethodGet, "/api/tasks/"+itoa(id), tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(env.Data, &task))
	assert.Equal(t, "private", task["title"])
}

func TestTaskNonNumericID(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "ana", "a@x.com", "secret1")
	token := s.login(t, "ana", "secret1")

	w, _ := s.do(t, http.MethodGet, "/api/tasks/abc", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
