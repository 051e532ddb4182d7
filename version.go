// Package upgrowth provides the version information for upgrowth.
package upgrowth

// Version is the current version of upgrowth.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
