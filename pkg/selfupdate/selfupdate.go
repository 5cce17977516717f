// Package selfupdate replaces the running wpm binary. The operations are
// handed to a copy of the executable that runs from a temporary directory,
// driven by a generated script that is started as a detached process.
package selfupdate

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/fsutil"
	"github.com/glorpus-work/wpm/pkg/model"
	"github.com/glorpus-work/wpm/pkg/platform"
)

// Updater stages and launches self-update scripts.
type Updater struct {
	Platform   platform.Platform
	TempDir    string // parent of the staging directory, os.TempDir when empty
	Executable func() (string, error)
	Start      func(cmd *exec.Cmd) error
}

// New returns an Updater for the current platform.
func New() *Updater {
	return &Updater{
		Platform:   platform.Current(),
		Executable: os.Executable,
		Start:      startDetached,
	}
}

// Stage copies the running executable into a fresh temporary directory and
// writes a script that applies ops with that copy. It returns the script
// path.
func (u *Updater) Stage(ops []model.InstallOperation) (string, error) {
	exe, err := u.Executable()
	if err != nil {
		return "", fmt.Errorf("%w: locating executable: %w", errors.ErrSelfUpdate, err)
	}

	dir, err := os.MkdirTemp(u.TempDir, "wpm-update-")
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrSelfUpdate, err)
	}

	staged := filepath.Join(dir, u.Platform.ExecutableName(fsutil.AppName))
	if err := fsutil.Copy(exe, staged); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrSelfUpdate, err)
	}

	script := filepath.Join(dir, "update"+u.Platform.ScriptExtension())
	content := Script(u.Platform, staged, ops)
	if err := os.WriteFile(script, []byte(content), fsutil.FileModeExec); err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrSelfUpdate, err)
	}
	return script, nil
}

// Launch starts script without waiting for it.
func (u *Updater) Launch(script string) error {
	var cmd *exec.Cmd
	if u.Platform.IsWindows() {
		cmd = exec.Command("cmd.exe", "/C", script)
	} else {
		cmd = exec.Command("/bin/sh", script)
	}
	cmd.Dir = filepath.Dir(script)
	if err := u.Start(cmd); err != nil {
		return fmt.Errorf("%w: starting %s: %w", errors.ErrSelfUpdate, script, err)
	}
	return nil
}

// Script renders one command line per operation, each invoking exe with
// "add" or "remove" and a PACKAGE@VERSION argument.
func Script(p platform.Platform, exe string, ops []model.InstallOperation) string {
	nl := "\n"
	var b strings.Builder
	if p.IsWindows() {
		nl = "\r\n"
		b.WriteString("@echo off" + nl)
	} else {
		b.WriteString("#!/bin/sh" + nl + "set -e" + nl)
	}

	for _, op := range ops {
		verb := "remove"
		if op.Install {
			verb = "add"
		}
		fmt.Fprintf(&b, "\"%s\" %s %s@%s", exe, verb, op.Package, op.Version)
		if p.IsWindows() {
			b.WriteString(" || exit /b 1")
		}
		b.WriteString(nl)
	}
	return b.String()
}

func startDetached(cmd *exec.Cmd) error {
	detach(cmd)
	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
