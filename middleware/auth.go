package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"techapps/models"
	"techapps/store"
	"techapps/utils"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// Fixed rejection messages
const (
	UnauthorizedMessage = "unauthorized access"
	ForbiddenMessage    = "forbidden access"
)

// ClaimsFromContext returns the claims attached by AuthMiddleware
func ClaimsFromContext(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	return claims, ok
}

// AuthMiddleware verifies JWT tokens and attaches user information to the context
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteMessage(w, http.StatusUnauthorized, UnauthorizedMessage)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.WriteMessage(w, http.StatusUnauthorized, UnauthorizedMessage)
			return
		}

		claims, err := utils.ParseJWT(parts[1])
		if err != nil {
			utils.WriteMessage(w, http.StatusUnauthorized, UnauthorizedMessage)
			return
		}

		// Attach user information to the request context
		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RoleMiddleware ensures the authenticated user's stored role equals role.
// It must run after AuthMiddleware.
func RoleMiddleware(users store.Collection, role string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				utils.WriteMessage(w, http.StatusUnauthorized, UnauthorizedMessage)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			var user models.User
			err := users.FindOne(ctx, bson.M{"email": claims.Email}, &user)
			if errors.Is(err, store.ErrNotFound) || (err == nil && user.Role != role) {
				utils.WriteMessage(w, http.StatusForbidden, ForbiddenMessage)
				return
			}
			if err != nil {
				log.Printf("Role check for %s failed: %v", claims.Email, err)
				utils.WriteMessage(w, http.StatusInternalServerError, "role check failed")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AdminMiddleware ensures that the user has admin privileges
func AdminMiddleware(users store.Collection) mux.MiddlewareFunc {
	return RoleMiddleware(users, models.RoleAdmin)
}

// ModeratorMiddleware ensures that the user has moderator privileges
func ModeratorMiddleware(users store.Collection) mux.MiddlewareFunc {
	return RoleMiddleware(users, models.RoleModerator)
}
