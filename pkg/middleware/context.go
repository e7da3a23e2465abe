package middleware

import (
	"github.com/Ramsey-B/clover/pkg/context"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// HeaderAgentID is the header key for agent ID
	HeaderAgentID = "X-Agent-ID"
	// HeaderAgentName is the header key for agent name
	HeaderAgentName = "X-Agent-Name"
)

func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			// get request id from header
			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			ctx := req.Context()
			ctx = context.SetRequestID(ctx, requestID)
			ctx = context.SetMethod(ctx, req.Method)
			ctx = context.SetRoute(ctx, req.URL.Path)
			ctx = context.SetRemoteIP(ctx, c.RealIP())
			ctx = context.SetAgentID(ctx, req.Header.Get(HeaderAgentID))
			ctx = context.SetAgentName(ctx, req.Header.Get(HeaderAgentName))

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
