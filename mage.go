//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	serverBin = "./bin/server"
)

const (
	lintTool = "github.com/golangci/golangci-lint/cmd/golangci-lint@v1.55.2"
)

const (
	serverConfigPath = "configs/server.toml"
)

func goModDownload() error {
	return sh.Run("go", "mod", "download")
}

// Build builds server binary
func Build() error {
	mg.Deps(goModDownload)
	return sh.Run("go", "build", "-o", serverBin, "cmd/main.go")
}

// Run starts server
func Run() error {
	mg.Deps(Build)
	return sh.Run(serverBin, "-server-config", serverConfigPath)
}

// Test runs unit tests
func Test() error {
	mg.Deps(goModDownload)
	return sh.RunV("go", "test", "-race", "./...")
}

// AutoTest runs the browser suite, needs a local chrome
func AutoTest() error {
	mg.Deps(goModDownload)
	return sh.RunV("go", "test", "-v", "-tags", "e2e", "-run", "TestBrowser", "./internal/web/...")
}

// Lint runs golangci-lint at a pinned version
func Lint() error {
	return sh.RunV("go", "run", lintTool, "run", "./...")
}
