package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/cataloro/cataloro-probe/internal/config"
	"github.com/cataloro/cataloro-probe/test/e2e/infra"
)

type configuration struct {
	InfraMode     string // "mock" or "external"
	MockAddr      string
	BackendURL    string
	AdminEmail    string
	AdminPassword string
	Suites        string
}

var (
	cfg          configuration
	infraManager infra.InfraManager
)

func (c configuration) Validate() error {
	if c.InfraMode != "mock" && c.InfraMode != "external" {
		return fmt.Errorf("invalid infra-mode %q: must be 'mock' or 'external'", c.InfraMode)
	}
	if c.InfraMode == "external" {
		if c.BackendURL == "" {
			return errors.New("backend url is empty")
		}
		if _, err := url.Parse(c.BackendURL); err != nil {
			return fmt.Errorf("failed to parse backend url: %v", err)
		}
	}
	if c.AdminEmail == "" || c.AdminPassword == "" {
		return errors.New("admin credentials are empty")
	}
	return nil
}

func main() {
	flag.StringVar(&cfg.InfraMode, "infra-mode", "mock", "Infrastructure mode: 'mock' (in-process fake backend) or 'external' (deployed backend)")
	flag.StringVar(&cfg.MockAddr, "mock-addr", "127.0.0.1:18001", "Listen address of the fake backend in mock mode")
	flag.StringVar(&cfg.BackendURL, "backend-url", os.Getenv("CATALORO_BACKEND_URL"), "Deployment URL in external mode")
	flag.StringVar(&cfg.AdminEmail, "admin-email", "admin@cataloro.com", "Admin account email")
	flag.StringVar(&cfg.AdminPassword, "admin-password", "admin123", "Admin account password")
	flag.StringVar(&cfg.Suites, "suites", "", "Comma separated suites to run (default all)")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("failed to validate configuration: %v", err)
	}

	admin := config.Credentials{Email: cfg.AdminEmail, Password: cfg.AdminPassword}
	switch cfg.InfraMode {
	case "mock":
		infraManager = infra.NewMockInfraManager(cfg.MockAddr, admin)
	case "external":
		infraManager = infra.NewExternalInfraManager(cfg.BackendURL, admin)
	}

	RegisterFailHandler(Fail)
	if !RunSpecs(&testing.T{}, "E2E Suite") {
		os.Exit(1)
	}
}
