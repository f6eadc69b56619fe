package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"delishub/internal/auth"
	"delishub/internal/db"
	"delishub/internal/domain"
	"delishub/internal/middleware"
	"delishub/internal/presence"
)

// testEnv wires the full route table against an in-memory database and a
// miniredis-backed cache, mirroring cmd/server.
type testEnv struct {
	router  *gin.Engine
	db      *gorm.DB
	tokens  *auth.TokenService
	tracker *presence.Tracker
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logrus.SetOutput(io.Discard)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1) // one connection so every query sees the same in-memory database
	require.NoError(t, db.AutoMigrate(gdb))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	tokens := auth.NewTokenService("test-secret", time.Hour)
	tracker := presence.NewTracker()

	r := gin.New()
	requireAuth := middleware.RequireAuth(gdb, tokens, tracker)

	authGroup := r.Group("/api/auth")
	authGroup.POST("/register", RegisterHandler(gdb, bcrypt.MinCost))
	authGroup.POST("/login", LoginHandler(gdb, tokens))
	authGroup.GET("/me", requireAuth, MeHandler())
	authGroup.PUT("/me/avatar", requireAuth, UpdateAvatarHandler(gdb))

	recipeGroup := r.Group("/api/recipes")
	recipeGroup.GET("", ListRecipesHandler(gdb, rdb))
	recipeGroup.GET("/:id", GetRecipeHandler(gdb, rdb))
	recipeGroup.POST("", requireAuth, CreateRecipeHandler(gdb, rdb))
	recipeGroup.PUT("/:id", requireAuth, UpdateRecipeHandler(gdb, rdb))
	recipeGroup.DELETE("/:id", requireAuth, DeleteRecipeHandler(gdb, rdb))
	recipeGroup.GET("/:id/can-modify", requireAuth, CanModifyRecipeHandler(gdb))
	recipeGroup.GET("/user/:userId", requireAuth, ListRecipesByUserHandler(gdb))

	commentGroup := r.Group("/api/comments")
	commentGroup.GET("/:id", ListCommentsByRecipeHandler(gdb, rdb))
	commentGroup.POST("", requireAuth, CreateCommentHandler(gdb, rdb))
	commentGroup.PUT("/:id", requireAuth, UpdateCommentHandler(gdb, rdb))
	commentGroup.DELETE("/:id", requireAuth, DeleteCommentHandler(gdb, rdb))
	commentGroup.GET("/:id/can-modify", requireAuth, CanModifyCommentHandler(gdb))

	userGroup := r.Group("/api/users")
	userGroup.PUT("/profile", requireAuth, UpdateProfileHandler(gdb))
	userGroup.PUT("/password", requireAuth, UpdatePasswordHandler(gdb, bcrypt.MinCost))
	userGroup.DELETE("", requireAuth, DeleteAccountHandler(gdb, rdb, tracker))
	userGroup.GET("/active", requireAuth, ActiveUsersHandler(tracker))
	r.GET("/api/user-profile/:userId", GetUserProfileHandler(gdb))

	return &testEnv{router: r, db: gdb, tokens: tokens, tracker: tracker}
}

// do performs a request against the test router, optionally with a JSON body
// and a bearer token
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// newUser creates a user directly in the store and returns it with a valid token
func (e *testEnv) newUser(t *testing.T, username string) (*domain.User, string) {
	t.Helper()
	hash, err := auth.HashPassword("Passw0rd", bcrypt.MinCost)
	require.NoError(t, err)
	user := &domain.User{Username: username, Email: username + "@x.com", PasswordHash: hash}
	require.NoError(t, e.db.Create(user).Error)
	token, err := e.tokens.Issue(user.ID)
	require.NoError(t, err)
	return user, token
}

// newRecipe creates a recipe directly in the store
func (e *testEnv) newRecipe(t *testing.T, owner *domain.User, title string) *domain.Recipe {
	t.Helper()
	recipe := &domain.Recipe{
		Title:       title,
		Ingredients: domain.StringList{"flour"},
		Steps:       domain.StringList{"bake"},
		UserID:      owner.ID,
	}
	require.NoError(t, e.db.Create(recipe).Error)
	return recipe
}

// newComment creates a comment directly in the store
func (e *testEnv) newComment(t *testing.T, author *domain.User, recipe *domain.Recipe, content string) *domain.Comment {
	t.Helper()
	comment := &domain.Comment{Content: content, UserID: author.ID, RecipeID: recipe.ID}
	require.NoError(t, e.db.Create(comment).Error)
	return comment
}

// decode unmarshals a recorder's JSON body into a map
func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRoutes_RequireAuth(t *testing.T) {
	env := newTestEnv(t)

	// No credential presented at all
	w := env.do(t, http.MethodPost, "/api/recipes", gin.H{"title": "x", "ingredients": []string{"a"}, "steps": []string{"b"}}, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Structurally invalid credential
	w = env.do(t, http.MethodGet, "/api/auth/me", nil, "not.a.jwt")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid signature but the user no longer exists
	user, token := env.newUser(t, "ghost")
	require.NoError(t, env.db.Delete(&domain.User{}, "id = ?", user.ID).Error)
	w = env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuth_StoreOutage(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.newUser(t, "alice")

	// A valid credential against an unreachable store is not an auth failure
	sqlDB, err := env.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())
	w := env.do(t, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
