package middleware

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"rental-booking/logger"
	"rental-booking/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// KeySource fetches the identity provider's RSA public key and keeps it for TTL.
type KeySource struct {
	URL string
	TTL time.Duration

	client    *http.Client
	mu        sync.Mutex
	key       *rsa.PublicKey
	fetchedAt time.Time
}

func NewKeySource(url string) *KeySource {
	return &KeySource{
		URL:    url,
		TTL:    15 * time.Minute,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// StaticKeySource always returns key. Used when the key is provisioned locally.
func StaticKeySource(key *rsa.PublicKey) *KeySource {
	return &KeySource{key: key, TTL: -1}
}

var (
	keysMu      sync.RWMutex
	defaultKeys *KeySource
)

// SetKeySource installs the key source the authentication middleware verifies tokens with.
func SetKeySource(ks *KeySource) {
	keysMu.Lock()
	defer keysMu.Unlock()
	defaultKeys = ks
}

func currentKeySource() *KeySource {
	keysMu.RLock()
	defer keysMu.RUnlock()
	return defaultKeys
}

// Key returns the cached key, refetching it once the TTL has passed.
func (k *KeySource) Key() (*rsa.PublicKey, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.key != nil && (k.TTL < 0 || time.Since(k.fetchedAt) < k.TTL) {
		return k.key, nil
	}
	key, err := FetchPublicKey(k.client, k.URL)
	if err != nil {
		if k.key != nil {
			logger.Warning("Public key refresh failed, keeping previous key: " + err.Error())
			return k.key, nil
		}
		return nil, err
	}
	k.key = key
	k.fetchedAt = time.Now()
	return key, nil
}

// FetchPublicKey fetches the public key from the given URL.
// The response is a JSON object whose "key" field holds a PEM-encoded key.
func FetchPublicKey(client *http.Client, url string) (*rsa.PublicKey, error) {
	if url == "" {
		return nil, fmt.Errorf("PUBLIC_KEY_URL is not configured")
	}
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	keyResponse := struct {
		Key string `json:"key"`
	}{}
	if err := json.Unmarshal(body, &keyResponse); err != nil {
		return nil, fmt.Errorf("failed to unmarshal public key response: %w", err)
	}
	return ParsePublicKeyPEM(keyResponse.Key)
}

func ParsePublicKeyPEM(key string) (*rsa.PublicKey, error) {
	block, _ := pem.Decode([]byte(key))
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("failed to decode PEM block containing public key")
	}

	pubKey, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaPubKey, ok := pubKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}
	return rsaPubKey, nil
}

// VerifyJWT verifies a JWT token against the source's RSA public key.
func (k *KeySource) VerifyJWT(tokenString string) (jwt.MapClaims, error) {
	publicKey, err := k.Key()
	if err != nil {
		return nil, fmt.Errorf("failed to get public key: %w", err)
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}
	return claims, nil
}

// hasPermission reports whether claims grant any of requiredPermissions. "any" accepts every valid token.
func hasPermission(claims jwt.MapClaims, requiredPermissions []string) bool {
	for _, requiredPerm := range requiredPermissions {
		if requiredPerm == "any" {
			return true
		}
	}

	permissionSet := extractUserPermissionsFromClaims(claims)
	for _, requiredPerm := range requiredPermissions {
		if permissionSet[requiredPerm] {
			return true
		}
	}
	return false
}

func bearerToken(c *fiber.Ctx) (string, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		// cookie fallback for the back-office web client
		if token := c.Cookies("access"); token != "" {
			return token, nil
		}
		return "", fmt.Errorf("authorization token missing")
	}
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return "", fmt.Errorf("invalid authorization header format")
	}
	return tokenParts[1], nil
}

// IsAuthenticated is a middleware that checks for a valid JWT token carrying one of requiredPermissions.
func IsAuthenticated(requiredPermissions []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := bearerToken(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		}

		keys := currentKeySource()
		if keys == nil {
			logger.Error("Token verification requested before a key source was configured", nil)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Message: "Authentication is not configured",
				Status:  fiber.StatusInternalServerError,
			})
		}

		claims, err := keys.VerifyJWT(token)
		if err != nil {
			logger.Warning("JWT verification failed: " + err.Error())
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Session expired. Login again.",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if username, _ := claims["username"].(string); username == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: "Session expired. Login again.",
				Status:  fiber.StatusUnauthorized,
			})
		}

		if !hasPermission(claims, requiredPermissions) {
			logger.Warning(fmt.Sprintf("Access denied for %v on %s %s", claims["username"], c.Method(), c.Path()))
			return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
				Message: "Insufficient permissions",
				Status:  fiber.StatusForbidden,
			})
		}

		c.Locals("user", claims)
		c.Locals("permissions", extractUserPermissionsFromClaims(claims))
		return c.Next()
	}
}
