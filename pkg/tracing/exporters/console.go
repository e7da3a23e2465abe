package exporters

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/sdk/trace"
)

// ConsoleExporter prints finished spans to stdout. Used when tracing is
// enabled without a collector, such as local development.
type ConsoleExporter struct{}

func (c *ConsoleExporter) ExportSpans(ctx context.Context, spans []trace.ReadOnlySpan) error {
	for _, span := range spans {
		duration := span.EndTime().Sub(span.StartTime())
		fmt.Fprintf(os.Stdout, "span %s trace=%s duration=%s\n",
			span.Name(), span.SpanContext().TraceID(), duration)
	}
	return nil
}

func (c *ConsoleExporter) Shutdown(ctx context.Context) error {
	return nil
}
