package cli

import (
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"
)

// openerCommand returns the platform command that opens path with its
// default application.
func openerCommand(goos, path string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{path}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	default:
		return "xdg-open", []string{path}
	}
}

// openFile launches the system handler for path and does not wait for it.
// Failures are logged and otherwise ignored. The handler outlives the CLI.
func openFile(logger *log.Logger, path string) {
	name, args := openerCommand(runtime.GOOS, path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		logger.Warn("open failed", "path", path, "cmd", name, "err", err)
		return
	}
	go func() {
		if err := cmd.Wait(); err != nil {
			logger.Debug("opener exited", "path", path, "err", err)
		}
	}()
}
