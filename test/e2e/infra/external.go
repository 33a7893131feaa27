package infra

import "github.com/cataloro/cataloro-probe/internal/config"

// ExternalInfraManager points the run at a deployment managed elsewhere.
type ExternalInfraManager struct {
	url   string
	admin config.Credentials
}

func NewExternalInfraManager(url string, admin config.Credentials) *ExternalInfraManager {
	return &ExternalInfraManager{url: url, admin: admin}
}

func (e *ExternalInfraManager) StartBackend() error { return nil }
func (e *ExternalInfraManager) StopBackend() error  { return nil }

func (e *ExternalInfraManager) BackendURL() string {
	return e.url
}

func (e *ExternalInfraManager) Admin() config.Credentials {
	return e.admin
}
