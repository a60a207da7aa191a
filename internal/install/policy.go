package install

import (
	"errors"
	"fmt"
	"strings"
)

// ConflictPolicy decides what happens to files already present at the destination.
type ConflictPolicy string

const (
	// PolicyStop aborts before writing anything when any target exists.
	PolicyStop ConflictPolicy = "stop"
	// PolicySkip copies only targets that do not exist yet.
	PolicySkip ConflictPolicy = "skip"
	// PolicyOverwrite removes the destination tree and copies afresh.
	PolicyOverwrite ConflictPolicy = "overwrite"
	// PolicyMerge keeps the destination; existing targets are replaced only with force.
	PolicyMerge ConflictPolicy = "merge"
)

var (
	// ErrConflict indicates existing destination files under PolicyStop.
	ErrConflict = errors.New("destination already contains documentation")
	// ErrSourceNotFound indicates a missing package root.
	ErrSourceNotFound = errors.New("package source not found")
	// ErrUnsafeDestination indicates a destination that would put the source at risk.
	ErrUnsafeDestination = errors.New("unsafe install destination")
)

const conflictPreviewLimit = 5

// ParsePolicy converts a policy name; an empty name selects PolicyStop.
func ParsePolicy(name string) (ConflictPolicy, error) {
	switch ConflictPolicy(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return PolicyStop, nil
	case PolicyStop:
		return PolicyStop, nil
	case PolicySkip:
		return PolicySkip, nil
	case PolicyOverwrite:
		return PolicyOverwrite, nil
	case PolicyMerge:
		return PolicyMerge, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q (expected %s, %s, %s or %s)", name, PolicyStop, PolicySkip, PolicyOverwrite, PolicyMerge)
	}
}

// ConflictError lists the destination files that blocked a PolicyStop install.
type ConflictError struct {
	Destination string
	Paths       []string
}

func (conflictError *ConflictError) Error() string {
	preview := conflictError.Paths
	suffix := ""
	if len(preview) > conflictPreviewLimit {
		suffix = fmt.Sprintf(" and %d more", len(preview)-conflictPreviewLimit)
		preview = preview[:conflictPreviewLimit]
	}
	return fmt.Sprintf("%s: %s (%s%s)", ErrConflict, conflictError.Destination, strings.Join(preview, ", "), suffix)
}

func (conflictError *ConflictError) Unwrap() error {
	return ErrConflict
}
