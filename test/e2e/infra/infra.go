package infra

import "github.com/cataloro/cataloro-probe/internal/config"

// InfraManager abstracts the backend lifecycle for e2e runs.
// Mock: serves the in-process fake backend on a local port.
// External: no-op, the deployment is managed elsewhere (a preview deployment).
type InfraManager interface {
	StartBackend() error
	StopBackend() error
	BackendURL() string
	Admin() config.Credentials
}
