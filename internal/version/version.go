// ABOUTME: Build and product identification
// ABOUTME: Reported in logs, mDNS TXT records and the health endpoint
package version

// Version is overridden at build time with -ldflags "-X .../internal/version.Version=..."
var Version = "0.3.0"

const (
	Product      = "chunkstream"
	Manufacturer = "Sendspin"
)
