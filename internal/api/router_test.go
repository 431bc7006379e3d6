package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/d60-Lab/newsfeed/config"
	"github.com/d60-Lab/newsfeed/internal/api/handler"
	"github.com/d60-Lab/newsfeed/internal/metrics"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
	"github.com/d60-Lab/newsfeed/internal/service"
	"github.com/d60-Lab/newsfeed/pkg/jwt"
)

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *jwt.Manager
	mr     *miniredis.Miniredis
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode, APIPrefix: "/api"},
		Feed:   config.FeedConfig{DefaultPage: 1, DefaultLimit: 10, MaxContentLength: 200},
	}
	tokens := jwt.NewManager("test-secret", time.Hour, "test")
	revoker := jwt.NewRedisRevoker(client)
	m := metrics.New()

	followRepo := repository.NewFollowRepository(db)
	userRepo := repository.NewUserRepository(db)
	h := handler.NewHandler(
		service.NewFollowService(followRepo, userRepo, m),
		service.NewPostService(db, followRepo, service.WithPostObserver(m)),
		service.NewAuthService(userRepo, tokens, revoker),
		handler.Options{DefaultPage: 1, DefaultLimit: 10, MaxContentLength: 200},
	)
	r := SetupRouter(Deps{Config: cfg, DB: db, Handler: h, Tokens: tokens, Revoker: revoker, Metrics: m})
	return &testServer{router: r, db: db, tokens: tokens, mr: mr}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signup 注册并登录，返回用户 ID 与令牌
func (s *testServer) signup(t *testing.T, username string) (int64, string) {
	t.Helper()
	w := s.do(t, http.MethodPost, "/api/register", "", gin.H{"username": username, "password": "secret123"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/login", "", gin.H{"username": username, "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID int64 `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestPublicRoutes(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	health := decode[map[string]any](t, w)
	assert.Equal(t, "OK", health["status"])
	assert.Equal(t, "up", health["database"])

	w = s.do(t, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "News Feed API")

	w = s.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, rt := range []struct{ method, path string }{
		{http.MethodGet, "/api/users"},
		{http.MethodPost, "/api/follow/1"},
		{http.MethodDelete, "/api/follow/1"},
		{http.MethodPost, "/api/posts"},
		{http.MethodGet, "/api/feed"},
		{http.MethodPost, "/api/logout"},
	} {
		w := s.do(t, rt.method, rt.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", rt.method, rt.path)
	}
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/register", "", gin.H{"username": "ab", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least 3")

	w = s.do(t, http.MethodPost, "/api/register", "", gin.H{"username": "bad name!", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodPost, "/api/register", "", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 字符数合法但超过 bcrypt 的字节上限
	w = s.do(t, http.MethodPost, "/api/register", "", gin.H{"username": "carol", "password": strings.Repeat("好", 30)})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Password must not exceed 72 bytes"}`, w.Body.String())

	s.signup(t, "alice")
	w = s.do(t, http.MethodPost, "/api/register", "", gin.H{"username": "alice", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Username already taken"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/login", "", gin.H{"username": "alice", "password": "wrongpass"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFollowFlow(t *testing.T) {
	s := newTestServer(t)
	aliceID, aliceToken := s.signup(t, "alice")
	bobID, _ := s.signup(t, "bob")

	w := s.do(t, http.MethodPost, "/api/follow/abc", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid user ID"}`, w.Body.String())

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/follow/%d", aliceID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"You cannot follow yourself"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/follow/9999", aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/follow/%d", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"message":"You are now following user %d"}`, bobID), w.Body.String())

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/follow/%d", bobID), aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"You are already following this user"}`, w.Body.String())

	w = s.do(t, http.MethodGet, "/api/users", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[struct {
		Users []model.UserSummary `json:"users"`
	}](t, w)
	require.Len(t, users.Users, 1)
	assert.Equal(t, bobID, users.Users[0].ID)
	assert.True(t, users.Users[0].IsFollowing)
	assert.Equal(t, int64(1), users.Users[0].FollowersCount)

	w = s.do(t, http.MethodDelete, "/api/follow/xyz", aliceToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/follow/%d", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, fmt.Sprintf(`{"message":"You unfollowed user %d"}`, bobID), w.Body.String())

	w = s.do(t, http.MethodDelete, fmt.Sprintf("/api/follow/%d", bobID), aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"You are not following this user"}`, w.Body.String())
}

func TestPostsAndFeed(t *testing.T) {
	s := newTestServer(t)
	_, aliceToken := s.signup(t, "alice")
	bobID, bobToken := s.signup(t, "bob")

	w := s.do(t, http.MethodPost, "/api/posts", bobToken, gin.H{"content": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Content is required"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/posts", bobToken, gin.H{"content": strings.Repeat("x", 201)})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"Content must not exceed 200 characters"}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/posts", bobToken, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, content := range []string{"one", "two", " three "} {
		w = s.do(t, http.MethodPost, "/api/posts", bobToken, gin.H{"content": content})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	created := decode[map[string]any](t, w)
	assert.Equal(t, "three", created["content"])
	assert.Equal(t, "bob", created["username"])
	assert.EqualValues(t, bobID, created["userid"])
	assert.Contains(t, created, "createdat")

	type feedResp struct {
		Page  int              `json:"page"`
		Posts []model.PostView `json:"posts"`
	}

	w = s.do(t, http.MethodGet, "/api/feed", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"page":1,"posts":[]}`, w.Body.String())

	w = s.do(t, http.MethodPost, fmt.Sprintf("/api/follow/%d", bobID), aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/feed", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed := decode[feedResp](t, w)
	require.Len(t, feed.Posts, 3)
	assert.Equal(t, "three", feed.Posts[0].Content)

	w = s.do(t, http.MethodGet, "/api/feed?page=2&limit=1", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed = decode[feedResp](t, w)
	assert.Equal(t, 2, feed.Page)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, "two", feed.Posts[0].Content)

	// 非数字参数回退默认值
	w = s.do(t, http.MethodGet, "/api/feed?page=abc&limit=zz", aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	feed = decode[feedResp](t, w)
	assert.Equal(t, 1, feed.Page)
	assert.Len(t, feed.Posts, 3)
}

func TestLogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	_, token := s.signup(t, "alice")

	w := s.do(t, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/api/users", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
