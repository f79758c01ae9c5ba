package health

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Probe проверяет доступность одного сервиса.
type Probe interface {
	Check(ctx context.Context) error
}

// HTTPProbe считает сервис доступным, если GET на URL отвечает 2xx.
type HTTPProbe struct {
	URL    string
	Client *http.Client
}

// Check выполняет один запрос.
func (p HTTPProbe) Check(ctx context.Context) error {
	const op = "health.HTTPProbe.Check"
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s: unexpected status %d", op, resp.StatusCode)
	}
	return nil
}

// GRPCProbe опрашивает стандартный сервис grpc.health.v1.
type GRPCProbe struct {
	conn    *grpc.ClientConn
	client  grpc_health_v1.HealthClient
	service string
}

// NewGRPCProbe создает клиента к addr. Соединение устанавливается лениво.
func NewGRPCProbe(addr, service string) (*GRPCProbe, error) {
	const op = "health.NewGRPCProbe"
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &GRPCProbe{
		conn:    conn,
		client:  grpc_health_v1.NewHealthClient(conn),
		service: service,
	}, nil
}

// Check считает доступным только статус SERVING.
func (p *GRPCProbe) Check(ctx context.Context) error {
	const op = "health.GRPCProbe.Check"
	resp, err := p.client.Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: p.service})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if resp.GetStatus() != grpc_health_v1.HealthCheckResponse_SERVING {
		return fmt.Errorf("%s: status %s", op, resp.GetStatus())
	}
	return nil
}

// Close закрывает соединение.
func (p *GRPCProbe) Close() error {
	return p.conn.Close()
}
