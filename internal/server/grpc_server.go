package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/oggyb/amigo-matching/internal/config"
)

// Server is a gRPC server with health reporting and graceful shutdown.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	logger *slog.Logger
}

// New builds a gRPC server and registers all provided services.
func New(logger *slog.Logger, registrars ...Registrar) *Server {
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			LoggingInterceptor(logger),
			RecoveryInterceptor(logger),
		),
	)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	// register all services
	for _, r := range registrars {
		r.Register(grpcServer)
		if named, ok := r.(namedRegistrar); ok {
			healthServer.SetServingStatus(named.ServiceName(), healthpb.HealthCheckResponse_SERVING)
		}
	}

	// enable reflection for easier debugging with grpcurl
	reflection.Register(grpcServer)

	return &Server{grpc: grpcServer, health: healthServer, logger: logger}
}

// Serve accepts connections on lis until ctx is cancelled, then drains in-flight
// calls and returns. A nil error means a clean shutdown.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("gRPC server listening", "addr", lis.Addr().String())
		if err := s.grpc.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("serve gRPC: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("gRPC server shutting down")
		s.health.Shutdown()
		s.grpc.GracefulStop()
		return nil
	})

	return g.Wait()
}

// StartGRPCServer listens on the configured address and serves until ctx is cancelled.
func StartGRPCServer(ctx context.Context, cfg *config.Config, logger *slog.Logger, registrars ...Registrar) error {
	addr := net.JoinHostPort(cfg.GRPC.Host, cfg.GRPC.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return New(logger, registrars...).Serve(ctx, lis)
}
