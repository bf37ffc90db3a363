package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/modvault/modvault/internal/db"
)

const botSecret = "superSecret"

func seedBot(env *testEnv, canDeprecate bool) (keyID uuid.UUID) {
	keyID = uuid.New()
	env.registry.jwtConfigs[keyID.String()] = db.BotJWTConfig{
		KeyID:    keyID,
		Name:     "Test configuration",
		Secret:   botSecret,
		Username: "admin",
	}
	env.registry.permissions[permKey("admin", 1234)] = db.BotPermission{
		Username:      "admin",
		DiscordUserID: 1234,
		CanDeprecate:  canDeprecate,
	}
	env.registry.packages["TestTeam-SomeMod"] = db.GetPackageForDeprecationRow{ID: 42}
	return keyID
}

func signBotToken(t *testing.T, keyID uuid.UUID, secret, pkg string, discordUserID int64) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"package": pkg,
		"user":    discordUserID,
	})
	token.Header["kid"] = keyID.String()
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func postDeprecate(env *testEnv, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/c/rr2/api/v1/bot/deprecate-mod/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/jwt")
	w := httptest.NewRecorder()
	env.server.Router.ServeHTTP(w, req)
	return w
}

func TestBotDeprecateSuccess(t *testing.T) {
	env := newTestEnv()
	keyID := seedBot(env, true)

	w := postDeprecate(env, signBotToken(t, keyID, botSecret, "TestTeam-SomeMod", 1234))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())
	require.Equal(t, []int64{42}, env.registry.deprecatedIDs)
}

func TestBotDeprecateSnowflakeDiscordID(t *testing.T) {
	env := newTestEnv()
	keyID := seedBot(env, true)

	// Current Discord ids exceed 2^53 and must survive JSON decoding
	// without float64 rounding.
	const discordID = int64(1245936504868798465)
	env.registry.permissions[permKey("admin", discordID)] = db.BotPermission{
		Username:      "admin",
		DiscordUserID: discordID,
		CanDeprecate:  true,
	}

	w := postDeprecate(env, signBotToken(t, keyID, botSecret, "TestTeam-SomeMod", discordID))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"success":true}`, w.Body.String())
	require.Equal(t, []int64{42}, env.registry.deprecatedIDs)
}

func TestBotDeprecateIdempotent(t *testing.T) {
	env := newTestEnv()
	keyID := seedBot(env, true)
	env.registry.packages["TestTeam-SomeMod"] = db.GetPackageForDeprecationRow{ID: 42, IsDeprecated: true}

	w := postDeprecate(env, signBotToken(t, keyID, botSecret, "TestTeam-SomeMod", 1234))
	require.Equal(t, http.StatusOK, w.Code)
	// Already deprecated: success without touching the row again.
	require.Empty(t, env.registry.deprecatedIDs)
}

func TestBotDeprecateInsufficientPermissions(t *testing.T) {
	env := newTestEnv()
	keyID := seedBot(env, false)

	w := postDeprecate(env, signBotToken(t, keyID, botSecret, "TestTeam-SomeMod", 1234))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "Insufficient Discord user permissions")
	require.Empty(t, env.registry.deprecatedIDs)
}

func TestBotDeprecateUnknownDiscordUser(t *testing.T) {
	env := newTestEnv()
	keyID := seedBot(env, true)

	w := postDeprecate(env, signBotToken(t, keyID, botSecret, "TestTeam-SomeMod", 9999))
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestBotDeprecateUnknownPackage(t *testing.T) {
	env := newTestEnv()
	keyID := seedBot(env, true)

	w := postDeprecate(env, signBotToken(t, keyID, botSecret, "Nonexistent-Package", 1234))
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Not found.")
}

func TestBotDeprecateBadSignature(t *testing.T) {
	env := newTestEnv()
	keyID := seedBot(env, true)

	w := postDeprecate(env, signBotToken(t, keyID, "wrongSecret", "TestTeam-SomeMod", 1234))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Empty(t, env.registry.deprecatedIDs)
}

func TestBotDeprecateUnknownKey(t *testing.T) {
	env := newTestEnv()
	seedBot(env, true)

	w := postDeprecate(env, signBotToken(t, uuid.New(), botSecret, "TestTeam-SomeMod", 1234))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestBotDeprecateEmptyBody(t *testing.T) {
	env := newTestEnv()
	seedBot(env, true)

	w := postDeprecate(env, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
