package middleware

import (
	"strconv"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/clover/pkg/context"
	"github.com/labstack/echo/v4"
)

// Logger emits one structured entry per request. The bridge is called by
// headless agents, so the agent identity headers are included whenever the
// caller sent them.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()
			res := c.Response()
			start := time.Now()
			if err = next(c); err != nil {
				c.Error(err)
			}

			ctx := c.Request().Context()
			fields := map[string]interface{}{
				"request_id":    context.GetRequestID(ctx),
				"method":        req.Method,
				"uri":           req.RequestURI,
				"status":        res.Status,
				"route":         c.Path(),
				"remote_ip":     c.RealIP(),
				"user_agent":    req.UserAgent(),
				"response_time": time.Since(start),
				"response_size": strconv.FormatInt(res.Size, 10),
			}
			if agentID := context.GetAgentID(ctx); agentID != "" {
				fields["agent_id"] = agentID
				fields["agent_name"] = context.GetAgentName(ctx)
			}

			logger.WithContext(ctx).WithFields(fields).Info("Request")
			return nil
		}
	}
}
