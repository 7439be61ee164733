package mw

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// UserIDKey is the echo context key holding the authenticated user id.
const UserIDKey = "userID"

// JWTAuth validates the Bearer token issued by the identity service
// (HMAC, user id in "sub") and stores the user id in the echo context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

			token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid claims")
			}
			sub, _ := claims["sub"].(string)
			userID, err := strconv.ParseInt(sub, 10, 32)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid subject claim")
			}

			c.Set(UserIDKey, int32(userID))
			return next(c)
		}
	}
}

// UserID extracts the authenticated user id set by JWTAuth.
func UserID(c echo.Context) (int32, bool) {
	id, ok := c.Get(UserIDKey).(int32)
	return id, ok
}
