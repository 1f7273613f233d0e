package main

import (
	_ "embed"
	"strings"

	"github.com/testops/report-insights/cmd"
)

//go:embed VERSION
var version string

func main() {
	cmd.SetVersion(strings.TrimSpace(version))
	cmd.Execute()
}
