package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	shareTokenPurpose      = "diagnosis_share"
	DefaultShareTokenTTL   = 24 * time.Hour
	maxShareTokenSymptoms  = 64
	maxShareTokenNameBytes = 80
)

var (
	ErrShareTokenMissing        = errors.New("missing share token")
	ErrShareTokenInvalid        = errors.New("invalid share token")
	ErrShareTokenInvalidPurpose = errors.New("invalid share token purpose")
	ErrShareTokenExpired        = errors.New("expired share token")
	ErrShareTokenEmptySelection = errors.New("share token has no symptoms")
)

type ShareClaims struct {
	Symptoms []string `json:"symptoms"`
	Purpose  string   `json:"purpose"`
	jwt.RegisteredClaims
}

// BuildShareToken signs the selected symptom names so a result page can be
// reopened later. The outcome itself is not stored in the token.
func BuildShareToken(secretKey []byte, symptoms []string, ttl time.Duration, now time.Time) (string, error) {
	if ttl <= 0 {
		ttl = DefaultShareTokenTTL
	}
	if now.IsZero() {
		now = time.Now()
	}
	if len(symptoms) == 0 {
		return "", ErrShareTokenEmptySelection
	}

	claims := ShareClaims{
		Symptoms: append([]string(nil), symptoms...),
		Purpose:  shareTokenPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

func ParseShareToken(secretKey []byte, rawToken string, now time.Time) (*ShareClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrShareTokenMissing
	}
	if now.IsZero() {
		now = time.Now()
	}

	claims := &ShareClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return secretKey, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrShareTokenExpired
		}
		return nil, ErrShareTokenInvalid
	}
	if !token.Valid {
		return nil, ErrShareTokenInvalid
	}
	if claims.Purpose != shareTokenPurpose {
		return nil, ErrShareTokenInvalidPurpose
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Before(now) {
		return nil, ErrShareTokenExpired
	}
	if len(claims.Symptoms) == 0 {
		return nil, ErrShareTokenEmptySelection
	}
	if len(claims.Symptoms) > maxShareTokenSymptoms {
		return nil, ErrShareTokenInvalid
	}
	for _, name := range claims.Symptoms {
		if len(name) > maxShareTokenNameBytes {
			return nil, ErrShareTokenInvalid
		}
	}
	return claims, nil
}
