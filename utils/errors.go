// Package utils contains small helpers shared across the fieldbot packages.
package utils

import (
	"reflect"

	"github.com/pkg/errors"
)

// TypeStr returns the string representation of the given type T.
func TypeStr[T any]() string {
	zero := (*T)(nil)
	return reflect.TypeOf(zero).Elem().String()
}

// NewUnexpectedTypeError is used when there is a type mismatch.
func NewUnexpectedTypeError[ExpectedT any](actual interface{}) error {
	return errors.Errorf("expected %s but got %T", TypeStr[ExpectedT](), actual)
}

// DependencyTypeError is used when a resource doesn't implement the expected interface.
func DependencyTypeError[T any](name string, actual interface{}) error {
	return errors.Errorf("dependency %q should be an implementation of %s but it was a %T", name, TypeStr[T](), actual)
}
