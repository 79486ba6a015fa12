package server

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
	"github.com/yousuf/jstrace/internal/session"
)

// sessionContextKey is the context key for storing session context
type contextKey string

const sessionContextKey contextKey = "session"

// getSessionFromContext retrieves the session context from the request context.
// The session context is stored as a value to keep request lifecycle separate from session lifecycle.
func getSessionFromContext(ctx context.Context) (*session.Context, error) {
	sessionCtx, ok := ctx.Value(sessionContextKey).(*session.Context)
	if !ok || sessionCtx == nil {
		return nil, fmt.Errorf("session context not found in request context")
	}
	return sessionCtx, nil
}

// createSessionInjectionMiddleware creates middleware that automatically manages session lifecycle
func createSessionInjectionMiddleware(sessionMgr *session.Manager) mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(
			ctx context.Context,
			method string,
			req mcp.Request,
		) (mcp.Result, error) {
			sessionID := req.GetSession().ID()

			// Get or create session context
			sessionCtx, err := sessionMgr.GetOrCreateSession(ctx, sessionID)
			if err != nil {
				return nil, fmt.Errorf("failed to get/create session: %w", err)
			}

			sessionCtx.UpdateLastAccessed()
			ctx = context.WithValue(ctx, sessionContextKey, sessionCtx)

			return next(ctx, method, req)
		}
	}
}

// createLoggingMiddleware creates middleware that logs all MCP method calls
func createLoggingMiddleware() mcp.Middleware {
	return func(next mcp.MethodHandler) mcp.MethodHandler {
		return func(
			ctx context.Context,
			method string,
			req mcp.Request,
		) (mcp.Result, error) {
			start := time.Now()
			sessionID := req.GetSession().ID()

			log.Debug().Str("session", sessionID).Str("method", method).Msg("request")

			result, err := next(ctx, method, req)

			event := log.Info()
			if err != nil {
				event = log.Error().Err(err)
			}
			event.
				Str("session", sessionID).
				Str("method", method).
				Dur("duration", time.Since(start)).
				Msg("response")

			return result, err
		}
	}
}
