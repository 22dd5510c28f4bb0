// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.4.0"

// Milestones:
// 0.4.0 - Terminal viewer with sidereal time, config init
// 0.3.0 - HTTP API, Prometheus metrics, file watching
// 0.2.0 - UT1 support, EOP table interpolation by TAI and UT1
// 0.1.0 - Initial release: time scale conversions, EOP CSV lookup
