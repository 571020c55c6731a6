// Package buildinfo exposes version data injected at link time:
//
//	go build -ldflags "-X github.com/dmitrijs2005/imgdrop/internal/buildinfo.buildVersion=v1.2.0 \
//	  -X github.com/dmitrijs2005/imgdrop/internal/buildinfo.buildDate=2026-10-14 \
//	  -X github.com/dmitrijs2005/imgdrop/internal/buildinfo.buildCommit=abc123"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func valueOrNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Version returns the build version, or "N/A" for local builds.
func Version() string { return valueOrNA(buildVersion) }

// PrintBuildData writes version, date and commit to w, one per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", valueOrNA(buildVersion))
	fmt.Fprintf(w, "Build date: %s\n", valueOrNA(buildDate))
	fmt.Fprintf(w, "Build commit: %s\n", valueOrNA(buildCommit))
}
