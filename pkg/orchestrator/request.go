package orchestrator

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/version"
)

// Request names a package and optionally an exact version, written as
// PACKAGE[@VERSION] on the command line.
type Request struct {
	Package string
	Version string
}

// ParseRequest parses PACKAGE[@VERSION].
func ParseRequest(arg string) (Request, error) {
	name, ver, found := strings.Cut(strings.TrimSpace(arg), "@")
	if name == "" {
		return Request{}, fmt.Errorf("%w: %q", errors.ErrInvalidPackageName, arg)
	}
	if found {
		if _, err := version.Parse(ver); err != nil {
			return Request{}, err
		}
	}
	return Request{Package: name, Version: ver}, nil
}

// ParseRequests parses every argument.
func ParseRequests(args []string) ([]Request, error) {
	reqs := make([]Request, 0, len(args))
	for _, a := range args {
		r, err := ParseRequest(a)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, r)
	}
	return reqs, nil
}

func (r Request) String() string {
	if r.Version == "" {
		return r.Package
	}
	return r.Package + "@" + r.Version
}
