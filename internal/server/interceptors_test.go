package server

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var testInfo = &grpc.UnaryServerInfo{FullMethod: "/amigo.matching.v1.MatchingService/Like"}

func TestRecoveryInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := RecoveryInterceptor(logger)(context.Background(), nil, testInfo,
		func(context.Context, any) (any, error) { panic("boom") })

	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, buf.String(), "grpc handler panic")
	assert.Contains(t, buf.String(), "boom")
}

func TestLoggingInterceptorAssignsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var seen string
	_, err := LoggingInterceptor(logger)(context.Background(), nil, testInfo,
		func(ctx context.Context, _ any) (any, error) {
			seen = RequestID(ctx)
			return nil, status.Error(codes.NotFound, "missing")
		})

	assert.Equal(t, codes.NotFound, status.Code(err))
	require.NotEmpty(t, seen)
	assert.Contains(t, buf.String(), "req_id="+seen)
	assert.Contains(t, buf.String(), "code=NotFound")
}

func TestLoggingInterceptorKeepsCallerRequestID(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(RequestIDHeader, "abc"))

	var seen string
	_, err := LoggingInterceptor(logger)(ctx, nil, testInfo,
		func(ctx context.Context, _ any) (any, error) {
			seen = RequestID(ctx)
			return "ok", nil
		})

	require.NoError(t, err)
	assert.Equal(t, "abc", seen)
}
