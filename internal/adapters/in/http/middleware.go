package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/bnema/zerowrap"
	"github.com/labstack/echo/v4"
)

// RequestLogger logs every API request with zerowrap and attaches the
// logger to the request context for downstream handlers.
func RequestLogger(log zerowrap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			requestID := c.Request().Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = generateRequestID()
			}
			c.Response().Header().Set("X-Request-ID", requestID)

			ctx := zerowrap.WithCtx(c.Request().Context(), log)
			c.SetRequest(c.Request().WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			log.Info().
				Str(zerowrap.FieldLayer, "adapter").
				Str(zerowrap.FieldAdapter, "http").
				Str("request_id", requestID).
				Str(zerowrap.FieldMethod, c.Request().Method).
				Str(zerowrap.FieldPath, c.Request().URL.Path).
				Str(zerowrap.FieldHost, c.Request().Host).
				Str(zerowrap.FieldClientIP, c.RealIP()).
				Int(zerowrap.FieldStatus, c.Response().Status).
				Dur(zerowrap.FieldDuration, time.Since(start)).
				Msg("HTTP request")

			return err
		}
	}
}

// generateRequestID creates a random 16-byte hex-encoded request ID.
func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%x", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}
