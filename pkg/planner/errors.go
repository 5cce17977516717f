package planner

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/wpm/pkg/errors"
	"github.com/glorpus-work/wpm/pkg/model"
)

// LookupError reports a package or version that could not be resolved.
// Kind is one of the errors package sentinels and is matched by errors.Is.
type LookupError struct {
	Kind       error
	Name       string
	Version    string
	Candidates []string
}

func (e *LookupError) Error() string {
	subject := e.Name
	if e.Version != "" {
		subject += " " + e.Version
	}
	msg := fmt.Sprintf("%s: %s", e.Kind, subject)
	if len(e.Candidates) > 0 {
		msg += " (" + strings.Join(e.Candidates, ", ") + ")"
	}
	return msg
}

func (e *LookupError) Unwrap() error {
	return e.Kind
}

// UnsatisfiableDependencyError reports a dependency no catalog version
// satisfies.
type UnsatisfiableDependencyError struct {
	Dependency model.Dependency
	Dependent  model.VersionKey
}

func (e *UnsatisfiableDependencyError) Error() string {
	return fmt.Sprintf("%s: %s required by %s", errors.ErrUnsatisfiableDependency, e.Dependency, e.Dependent)
}

func (e *UnsatisfiableDependencyError) Unwrap() error {
	return errors.ErrUnsatisfiableDependency
}
