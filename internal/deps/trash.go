package deps

import (
	"fmt"
	"os/exec"
	"runtime"
)

// CheckTrashHelper reports the platform capability used to move source
// recordings to the system trash.
//
// Recycling never hard-deletes, so the helper is optional everywhere: on
// Linux a missing gio falls back to writing the XDG trash directory
// directly, and on unsupported platforms recycling is simply skipped.
func CheckTrashHelper() Status {
	result := Status{
		Name:        "Trash helper",
		Description: "Moves source recordings to the system trash",
		Optional:    true,
	}

	var command string
	switch runtime.GOOS {
	case "darwin":
		command = "osascript"
	case "windows":
		command = "powershell"
	case "linux":
		command = "gio"
	default:
		result.Detail = fmt.Sprintf("no trash integration for %s", runtime.GOOS)
		return result
	}

	result.Command = command
	if path, err := exec.LookPath(command); err == nil {
		result.Command = path
		result.Available = true
		return result
	}

	if runtime.GOOS == "linux" {
		result.Available = true
		result.Detail = "gio not found; using ~/.local/share/Trash directly"
		return result
	}

	result.Detail = fmt.Sprintf("binary %q not found", command)
	return result
}
