package autowire

import (
	"fmt"

	"go.trai.ch/zerr"
)

var (
	// ErrUnresolvableParameter is matched by every *UnresolvableParameterError.
	ErrUnresolvableParameter = zerr.New("unresolvable constructor parameter")

	// ErrDependencyNotFound is matched by every *DependencyNotFoundError.
	ErrDependencyNotFound = zerr.New("dependency not found")

	// ErrTypeNotRegistered is returned when a type name has no entry in the catalog.
	ErrTypeNotRegistered = zerr.New("type not registered")

	// ErrInvalidConstructor is returned by Provide for functions that cannot act as constructors.
	ErrInvalidConstructor = zerr.New("invalid constructor")

	// ErrDependencyMismatch is returned when the container hands back a value
	// that cannot be passed to the constructor parameter it was fetched for.
	ErrDependencyMismatch = zerr.New("dependency has unexpected type")

	// ErrArityMismatch is returned when a cached dependency list does not match
	// the number of constructor parameters.
	ErrArityMismatch = zerr.New("cached dependencies do not match constructor arity")

	// ErrCacheWrite is returned when the parameter cache file cannot be written.
	ErrCacheWrite = zerr.New("failed to write parameter cache")
)

// UnresolvableParameterError reports a constructor parameter whose type
// cannot name a container service.
type UnresolvableParameterError struct {
	Type      string
	Parameter string
	Reason    string
}

func (e *UnresolvableParameterError) Error() string {
	return fmt.Sprintf("cannot create %q; parameter %q %s", e.Type, e.Parameter, e.Reason)
}

func (e *UnresolvableParameterError) Unwrap() error { return ErrUnresolvableParameter }

// DependencyNotFoundError reports a dependency type the container has no
// registration for.
type DependencyNotFoundError struct {
	Type       string
	Parameter  string
	Dependency string
}

func (e *DependencyNotFoundError) Error() string {
	return fmt.Sprintf("cannot create %q; unable to resolve parameter %q using type hint %q",
		e.Type, e.Parameter, e.Dependency)
}

func (e *DependencyNotFoundError) Unwrap() error { return ErrDependencyNotFound }
