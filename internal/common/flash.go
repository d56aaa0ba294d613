package common

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	FlashCookieName = "vitrina_flash"

	FlashSuccess = "success"
	FlashError   = "error"

	flashTTL = 5 * time.Minute
)

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// FlashService keeps flash messages in an HMAC-signed cookie
type FlashService struct {
	secretKey []byte
	path      string
}

// NewFlashService creates a flash store; path scopes the cookie to the mount point
func NewFlashService(secretKey []byte, path string) *FlashService {
	if path == "" {
		path = "/"
	}
	return &FlashService{
		secretKey: secretKey,
		path:      path,
	}
}

// Add appends a message to the flashes already pending on the request
func (s *FlashService) Add(w http.ResponseWriter, r *http.Request, category, message string) error {
	flashes := s.read(r)
	flashes = append(flashes, Flash{Category: category, Message: message})

	token, err := s.sign(flashes)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    token,
		Path:     s.path,
		MaxAge:   int(flashTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Pop returns the pending flashes and clears the cookie
func (s *FlashService) Pop(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := s.read(r)
	if len(flashes) == 0 {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     s.path,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return flashes
}

func (s *FlashService) sign(flashes []Flash) (string, error) {
	messages := make([]interface{}, 0, len(flashes))
	for _, f := range flashes {
		messages = append(messages, map[string]interface{}{
			"category": f.Category,
			"message":  f.Message,
		})
	}

	claims := jwt.MapClaims{
		"flashes": messages,
		"exp":     time.Now().Add(flashTTL).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign flash: %w", err)
	}
	return tokenString, nil
}

// read returns nothing for a missing, expired or tampered cookie
func (s *FlashService) read(r *http.Request) []Flash {
	cookie, err := r.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	flashes, err := s.parse(cookie.Value)
	if err != nil {
		return nil
	}
	return flashes
}

func (s *FlashService) parse(tokenString string) ([]Flash, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse flash: %w", err)
	}

	claims, ok := token.Claims.(*jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid flash token")
	}

	raw, ok := (*claims)["flashes"].([]interface{})
	if !ok {
		return nil, errors.New("missing flashes claim")
	}

	flashes := make([]Flash, 0, len(raw))
	for _, item := range raw {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		category, _ := m["category"].(string)
		message, _ := m["message"].(string)
		flashes = append(flashes, Flash{Category: category, Message: message})
	}
	return flashes, nil
}
