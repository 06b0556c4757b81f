package grpc_server

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName - имя, под которым сервис виден в grpc.health.v1
const ServiceName = "coursemarket.EnrollmentService"

// Dependency - внешняя зависимость, без которой сервис не может работать (postgres, redis)
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

type HealthServer struct {
	health *health.Server
	deps   []Dependency
	logger *slog.Logger
}

func NewHealthServer(logger *slog.Logger, deps ...Dependency) *HealthServer {
	return &HealthServer{health: health.NewServer(), deps: deps, logger: logger}
}

// NewServer собирает gRPC сервер с health и reflection
func (h *HealthServer) NewServer() *grpc.Server {
	s := grpc.NewServer()
	healthpb.RegisterHealthServer(s, h.health)
	reflection.Register(s)
	return s
}

// Refresh пингует зависимости и обновляет статус
func (h *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for _, d := range h.deps {
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		err := d.Ping(pingCtx)
		cancel()
		if err != nil {
			h.logger.Warn("dependency unhealthy", "dependency", d.Name, "error", err)
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}
	h.health.SetServingStatus("", status)
	h.health.SetServingStatus(ServiceName, status)
	return status
}

// Watch обновляет статус раз в interval, пока жив ctx
func (h *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	h.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Refresh(ctx)
		}
	}
}

func (h *HealthServer) Shutdown() {
	h.health.Shutdown()
}

func (h *HealthServer) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	res, err := h.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return res.Status, nil
}
