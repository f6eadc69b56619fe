package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"delishub/internal/auth"
	"delishub/internal/domain"
)

func TestAccountDeletionCascade(t *testing.T) {
	env := newTestEnv(t)
	alice, aliceToken := env.newUser(t, "alice")
	bob, bobToken := env.newUser(t, "bob")

	recipe := env.newRecipe(t, alice, "bread")
	comment := env.newComment(t, bob, recipe, "bob was here")

	// Alice deletes the account; her recipe goes, and Bob's comment on it
	// goes too even though Bob authored it
	w := env.do(t, http.MethodDelete, "/api/users", nil, aliceToken)
	require.Equal(t, http.StatusOK, w.Code)

	var n int64
	require.NoError(t, env.db.Model(&domain.User{}).Where("id = ?", alice.ID).Count(&n).Error)
	require.EqualValues(t, 0, n)
	require.NoError(t, env.db.Model(&domain.Recipe{}).Where("id = ?", recipe.ID).Count(&n).Error)
	require.EqualValues(t, 0, n)
	require.NoError(t, env.db.Model(&domain.Comment{}).Where("id = ?", comment.ID).Count(&n).Error)
	require.EqualValues(t, 0, n)

	// Bob is untouched and still authenticated
	w = env.do(t, http.MethodGet, "/api/auth/me", nil, bobToken)
	require.Equal(t, http.StatusOK, w.Code)

	// Alice's token now resolves to no user and is rejected
	w = env.do(t, http.MethodGet, "/api/auth/me", nil, aliceToken)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.newUser(t, "alice")

	w := env.do(t, http.MethodPut, "/api/users/profile", gin.H{"username": "alicia"}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.User
	require.NoError(t, env.db.First(&got, "id = ?", user.ID).Error)
	require.Equal(t, "alicia", got.Username)
	require.Equal(t, "alice@x.com", got.Email) // unchanged

	// A malformed email is rejected
	w = env.do(t, http.MethodPut, "/api/users/profile", gin.H{"email": "nope"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Taking another user's username is a conflict
	env.newUser(t, "bob")
	w = env.do(t, http.MethodPut, "/api/users/profile", gin.H{"username": "bob"}, token)
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.newUser(t, "alice") // password Passw0rd

	// Wrong current password
	w := env.do(t, http.MethodPut, "/api/users/password", gin.H{
		"currentPassword": "WrongPass1",
		"newPassword":     "NewPassw0rd",
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// New password failing the policy
	w = env.do(t, http.MethodPut, "/api/users/password", gin.H{
		"currentPassword": "Passw0rd",
		"newPassword":     "short",
	}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Successful change
	w = env.do(t, http.MethodPut, "/api/users/password", gin.H{
		"currentPassword": "Passw0rd",
		"newPassword":     "NewPassw0rd",
	}, token)
	require.Equal(t, http.StatusOK, w.Code)

	var got domain.User
	require.NoError(t, env.db.First(&got, "id = ?", user.ID).Error)
	require.True(t, auth.CheckPassword("NewPassw0rd", got.PasswordHash))
	require.False(t, auth.CheckPassword("Passw0rd", got.PasswordHash))
}

func TestUserProfile_Public(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.newUser(t, "alice")
	bob, _ := env.newUser(t, "bob")
	recipe := env.newRecipe(t, alice, "bread")
	env.newComment(t, bob, recipe, "hello")

	// No credential required for the public profile view
	w := env.do(t, http.MethodGet, "/api/user-profile/"+alice.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var recipes []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &recipes))
	require.Len(t, recipes, 1)
	comments := recipes[0]["comments"].([]any)
	require.Len(t, comments, 1)
}

func TestActiveUsers(t *testing.T) {
	env := newTestEnv(t)
	alice, token := env.newUser(t, "alice")

	// An authenticated request marks the caller active
	w := env.do(t, http.MethodGet, "/api/users/active", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.EqualValues(t, 1, body["count"])
	require.Contains(t, body["user_ids"], alice.ID)
}
