package common

import (
	"context"
	"errors"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/trace"

	"github.com/gvault/gvault/internal/instrumentation"
	"github.com/gvault/gvault/internal/server"
)

// ToolHandlerFunc aliases the mcp-go handler type so wrapped handlers
// stay assignable at AddTool call sites.
type ToolHandlerFunc = mcpserver.ToolHandlerFunc

// errToolResult stands in for handlers that report failure through the
// result's IsError flag instead of a Go error.
var errToolResult = errors.New("tool returned an error result")

// InstrumentedToolHandler wraps handler with a span, invocation metrics,
// and an audit log line:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(toolName string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return instrumented(toolName, "", "", sc, handler)
}

// InstrumentedToolHandlerWithService additionally records which Google
// service and operation the tool drives, on the span, the Google API
// metrics, and the audit record:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithService("my_tool", "gmail", "list", sc, handler))
func InstrumentedToolHandlerWithService(toolName, serviceName, operation string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return instrumented(toolName, serviceName, operation, sc, handler)
}

func instrumented(toolName, serviceName, operation string, sc *server.ServerContext, handler ToolHandlerFunc) ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()
		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		account := GetAccountFromArgs(ctx, request.GetArguments())

		spanAttrs := instrumentation.NewSpanAttributeBuilder().
			WithAccount(account).
			WithReadOnly(sc.ReadOnly())
		if serviceName != "" {
			spanAttrs.WithService(serviceName, operation)
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, spanAttrs.Build()...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx)
		if account != "" {
			invocation.WithAccount(account)
		}
		if serviceName != "" {
			invocation.WithService(serviceName, operation)
		}

		// Tools drive exactly one Google API operation, so a client
		// span around the handler covers the API call.
		hctx := ctx
		var apiSpan trace.Span
		if serviceName != "" {
			hctx, apiSpan = instrumentation.StartGoogleAPISpan(ctx, serviceName, operation)
		}

		result, err := handler(hctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
			instrumentation.SetSpanError(span, errToolResult)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		if apiSpan != nil {
			instrumentation.SetSpanError(apiSpan, err)
			if status == instrumentation.StatusSuccess {
				instrumentation.SetSpanSuccess(apiSpan)
			}
			apiSpan.End()
		}

		if metrics != nil {
			metrics.RecordToolInvocation(ctx, toolName, status, account, duration)
			if serviceName != "" {
				metrics.RecordGoogleAPIOperation(ctx, serviceName, operation, status, duration)
			}
		}

		if auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, err
	}
}
