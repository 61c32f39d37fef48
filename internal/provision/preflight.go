package provision

import (
	"errors"
	"fmt"
	"os"
)

// ErrNotRoot indicates the installer was invoked without elevated
// privileges. No mutation has happened when this is returned.
var ErrNotRoot = errors.New("must run as root")

// ErrArtifactMissing indicates the bot script was not found at the expected
// path. No mutation has happened when this is returned.
var ErrArtifactMissing = errors.New("bot artifact not found")

// Preflight fails closed before any step runs: every later step either
// requires privilege or mutates host state, so a doomed run must stop here.
func Preflight(euid int, artifactPath string) error {
	if euid != 0 {
		return fmt.Errorf("%w (euid=%d)", ErrNotRoot, euid)
	}
	info, err := os.Stat(artifactPath)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrArtifactMissing, artifactPath)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrArtifactMissing, artifactPath)
	}
	return nil
}
