package registry

import "fmt"

// RegistryError reports a structural problem found while loading bundle
// sources: a duplicate bundle id, a dangling defers-to or reference
// target, a subtopic naming a missing section, or a deference cycle.
// It is fatal to that load attempt; a previously loaded snapshot stays
// active.
type RegistryError struct {
	Reason string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry: %s", e.Reason)
}

func registryErrorf(format string, args ...any) *RegistryError {
	return &RegistryError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError reports a lookup naming a bundle id that does not exist
// in the current snapshot.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("bundle '%s' not found", e.ID)
}
