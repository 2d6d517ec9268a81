package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/SpritzLanguage/Spritz-sub000/pkg/driver"
	"github.com/SpritzLanguage/Spritz-sub000/pkg/report"
)

// installDeps resolves the dependencies of the project found from dir and
// rewrites its lockfile when anything changed.
func installDeps(dir string) int {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		report.ReportStdError("Path Error", err)
		return 1
	}
	manifestPath, err := driver.FindManifest(abs)
	if err != nil {
		report.ReportStdError("Manifest Error", err)
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		report.ReportStdError("Manifest Error", err)
		return 1
	}
	home, err := driver.ResolveHome()
	if err != nil {
		report.ReportStdError("Config Error", err)
		return 1
	}

	lockPath := driver.LockfilePath(manifest)
	lock, err := driver.LoadLockfile(lockPath)
	fresh := false
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			report.ReportStdError("Lockfile Error", fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name))
			return 1
		}
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, toolVersion)
		fresh = true
	default:
		report.ReportStdError("Lockfile Error", err)
		return 1
	}

	installer := driver.NewInstaller(&driver.Cache{Root: home})
	changed, logs, err := installer.Install(manifest, lock)
	for _, line := range logs {
		report.LogInfo("%s", line)
	}
	if err != nil {
		report.ReportStdError("Dependency Error", err)
		return 1
	}

	if !changed && !fresh {
		report.LogInfo("%s is up to date", driver.LockfileName)
		return 0
	}
	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		report.ReportStdError("Lockfile Error", err)
		return 1
	}
	report.LogInfo("Wrote %s", lockPath)
	return 0
}
