//go:build mage

// Package main provides build targets for the depot project using Mage.
//
// Usage:
//
//	mage build            Compile depot binary to bin/
//	mage test:all         Run all tests (unit + integration)
//	mage test:unit        Run only unit tests (exclude tests/)
//	mage test:integration Run only integration tests (builds first)
//	mage lint             Run golangci-lint
//	mage clean            Remove build artifacts
//	mage install          Install depot to GOPATH/bin
package main

const (
	binGo      = "go"
	binaryName = "depot"
	binaryDir  = "bin"
	cmdDir     = "./cmd/depot"
)
