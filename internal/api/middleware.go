package api

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

type requestIDKey struct{}

const requestIDHeader = "X-Request-ID"

// RequestID returns the id LoggingMiddleware attached to the request context.
func RequestID(ctx context.Context) string {
	if rc, ok := ctx.(*fasthttp.RequestCtx); ok {
		id, _ := rc.UserValue(requestIDKey{}).(string)
		return id
	}

	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func RecoveryMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		defer func() {
			if rvr := recover(); rvr != nil {
				log.Error().
					Interface("panic", rvr).
					Str("request_id", RequestID(ctx)).
					Str("method", string(ctx.Method())).
					Str("url", ctx.URI().String()).
					Str("remote_addr", ctx.RemoteAddr().String()).
					Str("stack_trace", string(debug.Stack())).
					Msg("Recovered from panic")

				ctx.ResetBody()
				writeError(ctx, fasthttp.StatusInternalServerError, errInternal)
			}
		}()

		next(ctx)
	}
}

// LoggingMiddleware assigns a request id (reusing an incoming X-Request-ID)
// and logs every completed request.
func LoggingMiddleware(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		requestID := string(ctx.Request.Header.Peek(requestIDHeader))
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx.SetUserValue(requestIDKey{}, requestID)
		ctx.Response.Header.Set(requestIDHeader, requestID)

		begin := time.Now()
		next(ctx)

		log.Info().
			Str("request_id", requestID).
			Bytes("method", ctx.Method()).
			Str("url", ctx.URI().String()).
			Int("status", ctx.Response.StatusCode()).
			Dur("latency", time.Since(begin)).
			Msg("Completed request")
	}
}

// CORS allows any origin and answers preflight OPTIONS requests with 204
// before they reach the router.
func CORS(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
		ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		ctx.Response.Header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		next(ctx)
	}
}
