// Package version holds build information for the pinglog binary.
package version

// Set at build time, e.g.
//
//	go build -ldflags "-X github.com/hazz-dev/pinglog/internal/version.Version=v1.2.0"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
