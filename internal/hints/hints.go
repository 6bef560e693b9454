// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/autoparam/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/autoparam) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/autoparam") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForNoParams returns a hint for runs with nothing to append.
func ForNoParams() string {
	return format("add params to the config file or pass --param key=value")
}

// ForNoHTMLFiles returns a hint when discovery selected nothing.
// Lists the extensions that were searched for.
func ForNoHTMLFiles(extensions []string) string {
	if len(extensions) == 0 {
		return format("use --ext to select other file extensions")
	}
	return format("searched for " + strings.Join(extensions, ", ") + "; use --ext to select other file extensions")
}

// ForPermission returns a hint for files that could not be written back.
func ForPermission() string {
	var hints []string
	hints = append(hints, "check the build output is writable")
	if os.Getenv("CI") != "" {
		hints = append(hints, "run the step after the build, in the same job")
	}
	return formatHints(hints)
}

// ForAddrInUse returns a hint for listen failures.
func ForAddrInUse() string {
	return format("use --addr to pick another port, e.g. --addr :8081")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
