// Package test contains helper functions for the tests of the other packages.
//
// The Expect*() functions report a failure with t.Errorf() and allow the test
// to continue. The Demand*() functions stop the test with t.Fatalf().
//
// Success and failure values can be of type bool or error. A nil value is
// treated as a successful error value.
package test
