package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nextchapter/bookclub/internal/middlewares"
	"github.com/nextchapter/bookclub/internal/repositories"
	"github.com/nextchapter/bookclub/internal/services"
	"github.com/nextchapter/bookclub/internal/storage"
	"github.com/nextchapter/bookclub/pkg/utils"
)

var handlerDBSeq atomic.Int64

// newTestRouter wires the auth and club surfaces over an in-memory database,
// enough to exercise routing, the JWT middleware and error mapping.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.ConfigureJWT("handler-test-secret", 1)

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"), handlerDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, storage.Migrate(db))

	userRepo := repositories.NewUserRepository(db)
	clubRepo := repositories.NewClubRepository(db)
	memberRepo := repositories.NewMembershipRepository(db)

	authHandler := NewAuthHandler(services.NewAuthService(userRepo))
	clubHandler := NewClubHandler(services.NewClubService(clubRepo, memberRepo, nil, zap.NewNop()))

	r := gin.New()
	auth := r.Group("/api/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.GET("/me", middlewares.AuthMiddleware(), authHandler.GetProfile)

	clubs := r.Group("/api/v1/clubs", middlewares.AuthMiddleware())
	clubs.POST("", clubHandler.CreateClub)
	clubs.GET("/:club_id", clubHandler.GetClub)
	clubs.POST("/:club_id/join", clubHandler.JoinClub)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
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
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@test.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestAuthFlow(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "alice")

	w := doJSON(t, r, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me struct {
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice", me.Username)

	// Missing and garbage tokens are rejected before the handler runs.
	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/v1/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestErrorMapping checks the service error kinds surface as the right
// HTTP statuses.
func TestErrorMapping(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "alice")

	// Validation -> 400
	w := doJSON(t, r, http.MethodPost, "/api/v1/clubs", token, gin.H{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Not found -> 404
	w = doJSON(t, r, http.MethodGet, "/api/v1/clubs/999", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Bad path parameter -> 400
	w = doJSON(t, r, http.MethodGet, "/api/v1/clubs/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate -> 409
	w = doJSON(t, r, http.MethodPost, "/api/v1/clubs", token, gin.H{"name": "Open Shelf"})
	require.Equal(t, http.StatusCreated, w.Code)
	var club struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &club))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/api/v1/clubs/%d/join", club.ID), token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Duplicate registration -> 409 as well
	w = doJSON(t, r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "alice",
		"email":    "alice@test.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}
