package curated_test

import (
	"errors"
	"io/fs"
	"testing"

	"yaspg/sidplayfp/curated"
	"yaspg/sidplayfp/test"
)

const testError = "test error: %s"
const wrapError = "wrap error: %v"

func TestPatterns(t *testing.T) {
	err := curated.Errorf(testError, "foo")
	test.ExpectEquality(t, err.Error(), "test error: foo")
	test.ExpectEquality(t, curated.Is(err, testError), true)
	test.ExpectEquality(t, curated.Is(err, wrapError), false)
	test.ExpectEquality(t, curated.IsAny(err), true)
	test.ExpectEquality(t, curated.IsAny(errors.New("plain")), false)
	test.ExpectEquality(t, curated.IsAny(nil), false)
}

func TestChains(t *testing.T) {
	inner := curated.Errorf(testError, "foo")
	outer := curated.Errorf(wrapError, inner)
	test.ExpectEquality(t, outer.Error(), "wrap error: test error: foo")
	test.ExpectEquality(t, curated.Is(outer, testError), false)
	test.ExpectEquality(t, curated.Has(outer, testError), true)
	test.ExpectEquality(t, curated.Has(outer, wrapError), true)
	test.ExpectEquality(t, curated.Has(nil, wrapError), false)
}

func TestDuplicateParts(t *testing.T) {
	err := curated.Errorf("test error: %v", curated.Errorf(testError, "foo"))
	test.ExpectEquality(t, err.Error(), "test error: foo")
}

func TestUnwrap(t *testing.T) {
	err := curated.Errorf(wrapError, fs.ErrNotExist)
	test.ExpectEquality(t, errors.Is(err, fs.ErrNotExist), true)
}
