package utils

import (
	"testing"

	"go.viam.com/test"
)

type (
	someStruct struct{}
	someIfc    interface{}
)

func TestNewUnexpectedTypeError(t *testing.T) {
	err := NewUnexpectedTypeError[string]("actual1")
	test.That(t, err.Error(), test.ShouldContainSubstring, `expected string but got string`)

	err = NewUnexpectedTypeError[someIfc](4)
	test.That(t, err.Error(), test.ShouldContainSubstring, `expected utils.someIfc but got int`)

	err = NewUnexpectedTypeError[*someStruct](6)
	test.That(t, err.Error(), test.ShouldContainSubstring, `expected *utils.someStruct but got int`)
}

func TestDependencyTypeError(t *testing.T) {
	err := DependencyTypeError[someIfc]("five", 5)
	test.That(t, err.Error(), test.ShouldContainSubstring,
		`dependency "five" should be an implementation of utils.someIfc but it was a int`)

	err = DependencyTypeError[someStruct]("seven", 7)
	test.That(t, err.Error(), test.ShouldContainSubstring,
		`dependency "seven" should be an implementation of utils.someStruct but it was a int`)
}

func TestAssertType(t *testing.T) {
	v, err := AssertType[int](3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, v, test.ShouldEqual, 3)

	_, err = AssertType[string](3)
	test.That(t, err, test.ShouldBeError, NewUnexpectedTypeError[string](3))
}
