package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
)

// userScoped is implemented by requests that address one user's progress
// record.
type userScoped interface {
	GetUserID() string
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call
// with its procedure, duration and the user it addressed. Connect errors are
// logged at warn level with their code; anything else is an error.
func LoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			attrs := rpcAttrs(req, time.Since(start))

			level, msg := slog.LevelInfo, "RPC ok"
			var connectErr *connect.Error
			switch {
			case err == nil:
			case errors.As(err, &connectErr):
				level, msg = slog.LevelWarn, "RPC error"
				attrs = append(attrs,
					slog.String("code", connectErr.Code().String()),
					slog.String("error", connectErr.Message()),
				)
			default:
				level, msg = slog.LevelError, "RPC error"
				attrs = append(attrs, slog.Any("error", err))
			}
			slog.LogAttrs(ctx, level, msg, attrs...)

			return resp, err
		}
	}
}

func rpcAttrs(req connect.AnyRequest, elapsed time.Duration) []slog.Attr {
	attrs := []slog.Attr{
		slog.String("procedure", req.Spec().Procedure),
		slog.Int64("duration_ms", elapsed.Milliseconds()),
	}
	if m, ok := req.Any().(userScoped); ok && m.GetUserID() != "" {
		attrs = append(attrs, slog.String("user_id", m.GetUserID()))
	}
	if addr := req.Peer().Addr; addr != "" {
		attrs = append(attrs, slog.String("peer", addr))
	}
	return attrs
}
