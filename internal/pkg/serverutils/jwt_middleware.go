package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtMiddleware verifies the identity provider's HS256 access token and
// exposes the subject claims as locals. Supabase signs its access tokens with
// the project JWT secret; "sub" carries the user id and "email" the address.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}
		tokenStr := authHeader[7:]

		token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fiber.ErrUnauthorized
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
		}

		sub, _ := claims["sub"].(string)
		if sub == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Token missing subject"})
		}

		ctx.Locals("user_id", sub)
		if email, ok := claims["email"].(string); ok {
			ctx.Locals("user_email", email)
		}
		return ctx.Next()
	}
}

// OptionalJwtMiddleware sets the subject locals when a valid token is
// present and lets anonymous requests through untouched. The access gate
// needs to answer "signed_out" rather than 401.
func OptionalJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Next()
		}
		userID, email, err := ParseUserToken(authHeader[7:], secret)
		if err == nil {
			ctx.Locals("user_id", userID)
			ctx.Locals("user_email", email)
		}
		return ctx.Next()
	}
}

// ParseUserToken extracts the user id/email claims from a raw token string.
// Used by the websocket handshake where the token arrives as a query param.
func ParseUserToken(tokenStr, secret string) (userID, email string, err error) {
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", "", fiber.ErrUnauthorized
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fiber.ErrUnauthorized
	}
	userID, _ = claims["sub"].(string)
	if userID == "" {
		return "", "", fiber.ErrUnauthorized
	}
	email, _ = claims["email"].(string)
	return userID, email, nil
}
