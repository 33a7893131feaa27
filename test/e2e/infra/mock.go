package infra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cataloro/cataloro-probe/internal/config"
	"github.com/cataloro/cataloro-probe/internal/mockserver"
)

// MockInfraManager runs the fake backend in-process.
type MockInfraManager struct {
	addr  string
	admin config.Credentials
	srv   *mockserver.Server
	errCh chan error
}

func NewMockInfraManager(addr string, admin config.Credentials) *MockInfraManager {
	return &MockInfraManager{addr: addr, admin: admin}
}

func (m *MockInfraManager) StartBackend() error {
	srv, err := mockserver.NewServer(mockserver.Options{
		Addr:          m.addr,
		JWTSecret:     "e2e-secret",
		AdminEmail:    m.admin.Email,
		AdminPassword: m.admin.Password,
	})
	if err != nil {
		return fmt.Errorf("failed to create mock backend: %w", err)
	}
	m.srv = srv
	m.errCh = make(chan error, 1)

	go func() {
		m.errCh <- srv.Start()
	}()

	// surface an immediate listen failure, e.g. port in use
	select {
	case err := <-m.errCh:
		if err == nil {
			err = errors.New("mock backend stopped right after start")
		}
		return err
	case <-time.After(200 * time.Millisecond):
	}

	zap.S().Infow("mock backend running", "url", m.BackendURL())
	return nil
}

func (m *MockInfraManager) StopBackend() error {
	if m.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.srv.Stop(ctx)
}

func (m *MockInfraManager) BackendURL() string {
	return "http://" + m.addr
}

func (m *MockInfraManager) Admin() config.Credentials {
	return m.admin
}
