/*
Package main runs the probe end to end: every suite against a live backend,
then the history queries against the recorded runs.

# Package Structure

	test/e2e/
	├── main.go          Entry point: flags, config, InfraManager setup, Ginkgo runner
	├── tests.go         Ginkgo specs
	├── doc.go           This file
	└── infra/
	    ├── infra.go     InfraManager interface
	    ├── mock.go      MockInfraManager (fake backend on a local port)
	    └── external.go  ExternalInfraManager (no-op, deployed backend)

# InfraManager

	type InfraManager interface {
	    StartBackend() / StopBackend()
	    BackendURL()
	    Admin()
	}

Selected via the -infra-mode flag ("mock" or "external"). External mode reads
the deployment from -backend-url or CATALORO_BACKEND_URL and never starts or
stops anything.

Unlike the package tests, which use httptest, mock mode serves through
mockserver.Server.Start on a real port, so the server lifecycle is covered too.

# Usage

	go run ./test/e2e
	go run ./test/e2e -infra-mode external -backend-url https://preview-123.example.com -suites auth,marketplace
*/
package main
