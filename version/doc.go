// Package version reports podscribe's build information.
//
// Release builds stamp the variables through -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/podscribe/version.Version=1.2.0" ./cmd/podscribe
//
// Development builds fall back to the VCS data the Go toolchain embeds.
package version
