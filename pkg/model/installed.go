package model

import (
	"fmt"
	"time"

	"github.com/glorpus-work/wpm/pkg/version"
)

// InstalledPackageVersion records a package version present on this machine.
type InstalledPackageVersion struct {
	Package     string           `json:"package"`
	Version     *version.Version `json:"version"`
	Directory   string           `json:"directory,omitempty"`
	Detection   string           `json:"detection,omitempty"`
	InstalledAt time.Time        `json:"installed_at"`
}

// Key identifies the installed version.
func (ipv *InstalledPackageVersion) Key() VersionKey {
	return NewVersionKey(ipv.Package, ipv.Version)
}

func (ipv *InstalledPackageVersion) String() string {
	return fmt.Sprintf("%s %s", ipv.Package, ipv.Version)
}

// InstallOperation is one planned install or uninstall step.
type InstallOperation struct {
	Package string
	Version *version.Version
	Install bool
}

// OperationKey is the duplicate-equivalence key of an operation.
type OperationKey struct {
	VersionKey
	Install bool
}

// Key returns the duplicate-equivalence key.
func (op InstallOperation) Key() OperationKey {
	return OperationKey{VersionKey: NewVersionKey(op.Package, op.Version), Install: op.Install}
}

// Verb returns "install" or "uninstall".
func (op InstallOperation) Verb() string {
	if op.Install {
		return "install"
	}
	return "uninstall"
}

func (op InstallOperation) String() string {
	return fmt.Sprintf("%s %s %s", op.Verb(), op.Package, op.Version)
}
