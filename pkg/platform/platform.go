// Package platform identifies operating systems and architectures for package
// version selection and self-update script generation.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	// OSWindows represents the Windows operating system.
	OSWindows = "windows"
	// OSLinux represents the Linux operating system.
	OSLinux = "linux"
	// OSDarwin represents macOS.
	OSDarwin = "darwin"

	// ArchAMD64 represents the AMD64 (x86_64) architecture.
	ArchAMD64 = "amd64"
	// Arch386 represents the 32-bit x86 architecture.
	Arch386 = "386"
	// ArchARM represents the 32-bit ARM architecture.
	ArchARM = "arm"
	// ArchARM64 represents the ARM64 (AArch64) architecture.
	ArchARM64 = "arm64"

	// Any matches every OS or architecture.
	Any = "any"
)

// Platform is an OS and architecture pair. Either may be Any.
type Platform struct {
	OS   string `yaml:"os" json:"os"`
	Arch string `yaml:"arch" json:"arch"`
}

// Current returns the platform wpm is running on.
func Current() Platform {
	return Platform{OS: NormalizeOS(runtime.GOOS), Arch: NormalizeArch(runtime.GOARCH)}
}

// Matches reports whether both platforms are compatible. Any is a wildcard.
func (p Platform) Matches(target Platform) bool {
	return matchPart(NormalizeOS(p.OS), NormalizeOS(target.OS)) &&
		matchPart(NormalizeArch(p.Arch), NormalizeArch(target.Arch))
}

func matchPart(a, b string) bool {
	return a == Any || b == Any || a == b
}

// IsWindows reports whether the platform uses Windows conventions.
func (p Platform) IsWindows() bool {
	return NormalizeOS(p.OS) == OSWindows
}

// ScriptExtension returns the file extension of shell scripts on p.
func (p Platform) ScriptExtension() string {
	if p.IsWindows() {
		return ".bat"
	}
	return ".sh"
}

// ExecutableName appends the executable suffix used on p.
func (p Platform) ExecutableName(name string) string {
	if p.IsWindows() && !strings.HasSuffix(strings.ToLower(name), ".exe") {
		return name + ".exe"
	}
	return name
}

func (p Platform) String() string {
	return fmt.Sprintf("%s/%s", p.OS, p.Arch)
}

// NormalizeOS maps common OS spellings to GOOS names.
func NormalizeOS(os string) string {
	os = strings.ToLower(strings.TrimSpace(os))
	switch os {
	case "", "*":
		return Any
	case "win", "win32", "win64":
		return OSWindows
	case "macos", "osx", "mac":
		return OSDarwin
	default:
		return os
	}
}

// NormalizeArch maps common architecture spellings to GOARCH names.
func NormalizeArch(arch string) string {
	arch = strings.ToLower(strings.TrimSpace(arch))
	switch arch {
	case "", "*":
		return Any
	case "x86_64", "x64":
		return ArchAMD64
	case "x86", "i386", "i686":
		return Arch386
	case "aarch64":
		return ArchARM64
	default:
		return arch
	}
}

// ValidOS returns the operating systems wpm knows about.
func ValidOS() []string {
	return []string{OSWindows, OSLinux, OSDarwin}
}

// ValidArch returns the architectures wpm knows about.
func ValidArch() []string {
	return []string{ArchAMD64, Arch386, ArchARM, ArchARM64}
}
