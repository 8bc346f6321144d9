package assets

import (
	"fmt"
	"os"
	"path/filepath"

	"timeclock-kiosk/internal/common/config"
)

// PackagedResourceDir is the directory next to the installed executable that
// holds the bundled public/ tree.
const PackagedResourceDir = "resources"

// Swapped in tests.
var (
	getwd      = os.Getwd
	executable = os.Executable
)

// ResolveBasePath picks the resource base directory once at startup. A
// non-empty override always wins. In development mode the working directory
// is used, descending into devSubdir when it exists. In packaged mode the
// resources directory beside the executable is used.
func ResolveBasePath(mode, override, devSubdir string) (string, error) {
	if override != "" {
		abs, err := filepath.Abs(override)
		if err != nil {
			return "", fmt.Errorf("failed to resolve resource directory %q: %w", override, err)
		}
		return abs, nil
	}

	switch mode {
	case config.BuildModePackaged:
		return packagedBasePath()
	case config.BuildModeDevelopment, "":
		return developmentBasePath(devSubdir)
	default:
		return "", fmt.Errorf("unknown build mode %q", mode)
	}
}

func developmentBasePath(devSubdir string) (string, error) {
	cwd, err := getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	if devSubdir == "" || filepath.Base(cwd) == devSubdir {
		return cwd, nil
	}

	candidate := filepath.Join(cwd, devSubdir)
	if info, err := os.Stat(candidate); err == nil && info.IsDir() {
		return candidate, nil
	}
	return cwd, nil
}

func packagedBasePath() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve resource directory: %w", err)
	}
	exe, err = filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve resource directory: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), PackagedResourceDir), nil
}
