package remotedoc

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that none of the candidate paths exist remotely.
	ErrNotFound = errors.New("remote document not found")
	// ErrAuthRequired indicates that the host rejected the request for lack of a valid credential.
	ErrAuthRequired = errors.New("remote host requires authentication")
	// ErrTransient indicates a network or protocol failure; callers decide whether to retry.
	ErrTransient = errors.New("transient remote failure")
	// ErrUnsupportedHost indicates a project URI or host kind this client cannot serve.
	ErrUnsupportedHost = errors.New("unsupported repository host")

	errMissingOwner      = errors.New("repository owner is required")
	errMissingRepository = errors.New("repository name is required")
	errMissingProject    = errors.New("azure devops project is required")
	errMissingCandidates = errors.New("at least one candidate path is required")
)

// FetchError describes a failed remote fetch. It matches one of ErrNotFound,
// ErrAuthRequired or ErrTransient with errors.Is.
type FetchError struct {
	Host   HostKind
	Path   string
	Status int
	Kind   error
	Cause  error
}

func (fetchError *FetchError) Error() string {
	message := fmt.Sprintf("%s %s", fetchError.Host, fetchError.Path)
	if fetchError.Status != 0 {
		message = fmt.Sprintf("%s: status %d", message, fetchError.Status)
	}
	message = fmt.Sprintf("%s: %v", message, fetchError.Kind)
	if fetchError.Cause != nil {
		message = fmt.Sprintf("%s: %v", message, fetchError.Cause)
	}
	return message
}

func (fetchError *FetchError) Unwrap() []error {
	if fetchError.Cause == nil {
		return []error{fetchError.Kind}
	}
	return []error{fetchError.Kind, fetchError.Cause}
}
