package completions

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Params selects the model and sampling behaviour for one completion call.
// JSONMode asks the provider to constrain output to syntactically valid
// JSON where supported; it does not guarantee any particular schema.
// System overrides the default JSON-only system instruction for callers
// that want prose output.
type Params struct {
	Model       string
	Temperature float32
	MaxTokens   int
	JSONMode    bool
	System      string
}

func (p Params) systemInstruction() string {
	if p.System != "" {
		return p.System
	}
	return systemInstruction
}

// Client is the completion gateway the pipeline depends on. Complete
// returns the raw model text, or an empty string on any transport or
// provider failure. The pipeline's robustness comes from callers treating
// an empty result as "fall back", not from retrying the same call.
type Client interface {
	Complete(ctx context.Context, prompt string, params Params) string
}

const systemInstruction = "Respond ONLY with a single valid JSON object. No markdown, no comments."

func traceCompletion(ctx context.Context, provider, model string, promptLen int) (context.Context, trace.Span, time.Time) {
	ctx, span := otel.Tracer("CompletionGateway").Start(ctx, "Complete", trace.WithAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", model),
		attribute.Int("prompt.length", promptLen),
	))
	return ctx, span, time.Now()
}

func finishCompletion(ctx context.Context, logger *slog.Logger, span trace.Span, started time.Time, provider string, text string, err error) string {
	latency := time.Since(started)
	span.SetAttributes(attribute.Int64("llm.latency_ms", latency.Milliseconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		logger.WarnContext(ctx, "Completion call failed, returning empty result",
			slog.String("provider", provider),
			slog.Duration("latency", latency),
			slog.Any("error", err))
		return ""
	}
	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "completion ok")
	return text
}
