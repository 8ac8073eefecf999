package middleware

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental-booking/constants"
	"rental-booking/database/dbtest"
	"rental-booking/models/user"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func sign(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func agentClaims(perms ...string) jwt.MapClaims {
	list := make([]interface{}, 0, len(perms))
	for _, p := range perms {
		list = append(list, p)
	}
	return jwt.MapClaims{
		"uuid":        "agent-uuid-1",
		"username":    "desk1",
		"legal_name":  "Desk One",
		"permissions": list,
		"exp":         time.Now().Add(time.Hour).Unix(),
	}
}

func protectedApp(perms ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected", RequirePermissions(perms...), func(c *fiber.Ctx) error {
		claims, _ := GetClaims(c)
		return c.SendString(claims["username"].(string))
	})
	return app
}

func request(t *testing.T, app *fiber.App, token string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestIsAuthenticated(t *testing.T) {
	key := newKey(t)
	SetKeySource(StaticKeySource(&key.PublicKey))
	t.Cleanup(func() { SetKeySource(nil) })

	app := protectedApp(constants.FrontDeskPermissions...)

	t.Run("missing token", func(t *testing.T) {
		assert.Equal(t, fiber.StatusUnauthorized, request(t, app, ""))
	})

	t.Run("granted permission", func(t *testing.T) {
		token := sign(t, key, agentClaims(constants.PermAgentFull))
		assert.Equal(t, fiber.StatusOK, request(t, app, token))
	})

	t.Run("insufficient permission", func(t *testing.T) {
		token := sign(t, key, agentClaims(constants.PermAccountantFull))
		assert.Equal(t, fiber.StatusForbidden, request(t, app, token))
	})

	t.Run("expired token", func(t *testing.T) {
		claims := agentClaims(constants.PermAgentFull)
		claims["exp"] = time.Now().Add(-time.Minute).Unix()
		assert.Equal(t, fiber.StatusUnauthorized, request(t, app, sign(t, key, claims)))
	})

	t.Run("signed by another key", func(t *testing.T) {
		token := sign(t, newKey(t), agentClaims(constants.PermAgentFull))
		assert.Equal(t, fiber.StatusUnauthorized, request(t, app, token))
	})

	t.Run("any accepts every valid token", func(t *testing.T) {
		token := sign(t, key, agentClaims())
		assert.Equal(t, fiber.StatusOK, request(t, protectedApp(constants.PermAny), token))
	})
}

func TestFetchPublicKey(t *testing.T) {
	key := newKey(t)
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})

	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_ = json.NewEncoder(w).Encode(map[string]string{"key": string(pemKey)})
	}))
	defer srv.Close()

	ks := NewKeySource(srv.URL)
	got, err := ks.Key()
	require.NoError(t, err)
	assert.Equal(t, 0, key.PublicKey.N.Cmp(got.N))

	_, err = ks.Key()
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "key is cached within the TTL")

	_, err = FetchPublicKey(nil, "")
	assert.Error(t, err)
	_, err = ParsePublicKeyPEM("not a key")
	assert.Error(t, err)
}

func TestSyncAgent_UpsertsFromClaims(t *testing.T) {
	db := dbtest.Open(t)

	first, err := SyncAgent(db, agentClaims(constants.PermAgentFull))
	require.NoError(t, err)
	assert.NotZero(t, first.ID)
	assert.Equal(t, "desk1", first.Username)
	assert.Equal(t, user.StringSlice{constants.PermAgentFull}, first.Permissions)

	claims := agentClaims(constants.PermAgentFull, constants.PermManagerFull)
	claims["legal_name"] = "Desk One Renamed"
	second, err := SyncAgent(db, claims)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Desk One Renamed", second.LegalName)
	assert.Len(t, second.Permissions, 2)

	var count int64
	require.NoError(t, db.Model(&user.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	_, err = SyncAgent(db, jwt.MapClaims{"username": "x"})
	assert.Error(t, err)
}
