// Package testutils is a collection of helpers shared by package tests.
package testutils

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.viam.com/test"
)

// VerifyTestMain preforms various runtime checks on code that tests run.
func VerifyTestMain(m goleak.TestingM) {
	goleak.VerifyTestMain(m)
}

// VerifySameElements asserts that two slices contain the same elements without
// considering order.
func VerifySameElements(tb testing.TB, actual, expected []string) {
	tb.Helper()
	actualSorted := append([]string(nil), actual...)
	expectedSorted := append([]string(nil), expected...)
	sort.Strings(actualSorted)
	sort.Strings(expectedSorted)
	test.That(tb, cmp.Diff(expectedSorted, actualSorted), test.ShouldBeEmpty)
}
