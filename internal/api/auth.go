// Grubroute - Restaurant Discovery and Itinerary Generation
// Copyright 2026 Grubroute contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/grubroute/grubroute

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/grubroute/grubroute/internal/config"
	"github.com/grubroute/grubroute/internal/logging"
)

// authMiddleware enforces bearer-token authentication when the auth mode is
// "jwt". Mode "none" passes every request through, which suits single-user
// and development deployments.
func authMiddleware(cfg *config.AuthConfig) func(http.Handler) http.Handler {
	if cfg.Mode != "jwt" {
		return func(next http.Handler) http.Handler { return next }
	}
	secret := []byte(cfg.Secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				respond(w, r).Error(http.StatusUnauthorized, ErrCodeUnauthorized, "missing bearer token")
				return
			}

			token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
				}
				return secret, nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !token.Valid {
				reqLog := logging.Ctx(r.Context())
				reqLog.Warn().Err(err).Msg("rejected token")
				respond(w, r).Error(http.StatusUnauthorized, ErrCodeUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
		return auth[len(prefix):]
	}
	return ""
}
