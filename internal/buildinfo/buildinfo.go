// Package buildinfo reports build metadata injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/gatekeeper/internal/buildinfo.buildVersion=v1.0.0 \
//	  -X github.com/dmitrijs2005/gatekeeper/internal/buildinfo.buildDate=$(date +%F) \
//	  -X github.com/dmitrijs2005/gatekeeper/internal/buildinfo.buildCommit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"io"
)

const notAvailable = "N/A"

var (
	buildVersion = notAvailable
	buildDate    = notAvailable
	buildCommit  = notAvailable
)

func valueOrNA(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

// PrintBuildData writes version, date and commit to w, one per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", valueOrNA(buildVersion))
	fmt.Fprintf(w, "Build date: %s\n", valueOrNA(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", valueOrNA(buildCommit))
}
