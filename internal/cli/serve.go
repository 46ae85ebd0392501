package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/lumipallolabs/sizescope/internal/api"
	"github.com/lumipallolabs/sizescope/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// initTracer installs a tracer provider that exports spans to w
func initTracer(w io.Writer, version string) (*sdktrace.TracerProvider, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName("sizescope"),
		semconv.ServiceVersion(version),
	)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp, nil
}

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		trace bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if trace {
				tp, err := initTracer(c.stderr, c.version)
				if err != nil {
					return fmt.Errorf("initializing tracer: %w", err)
				}
				defer func() {
					if err := tp.Shutdown(context.Background()); err != nil {
						logging.API.Printf("Error shutting down tracer provider: %v", err)
					}
				}()
			}

			svc := c.service()
			defer svc.Close()
			e := api.NewServer(svc)

			errCh := make(chan error, 1)
			go func() {
				fmt.Fprintf(c.stderr, "Listening on %s\n", addr)
				errCh <- e.Start(addr)
			}()

			select {
			case err := <-errCh:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return e.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Address to listen on")
	cmd.Flags().BoolVar(&trace, "trace", false, "Export OpenTelemetry spans to stderr")
	return cmd
}
