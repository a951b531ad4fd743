package server

import "google.golang.org/grpc"

// Registrar is a common interface for all gRPC service registrars
type Registrar interface {
	Register(s *grpc.Server)
}

// namedRegistrar is implemented by registrars whose service should be reported
// by the health service.
type namedRegistrar interface {
	ServiceName() string
}
