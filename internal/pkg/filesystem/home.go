// Package filesystem holds small path helpers shared by adapters.
package filesystem

import "os"

// UserHome returns the user's home directory, falling back to the current
// directory when it cannot be determined.
func UserHome() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}
