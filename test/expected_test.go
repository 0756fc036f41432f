package test_test

import (
	"errors"
	"testing"

	"yaspg/sidplayfp/test"
)

func TestExpectations(t *testing.T) {
	test.ExpectSuccess(t, true)
	test.ExpectSuccess(t, nil)
	test.ExpectFailure(t, false)
	test.ExpectFailure(t, errors.New("failure"))
	test.ExpectEquality(t, 10, 10)
	test.ExpectInequality(t, "a", "b")
	test.ExpectApproximate(t, 99.0, 100.0, 0.02)
	test.ExpectApproximate(t, 101, 100, 0.02)
}

type tester interface{ test() }
type impl struct{}

func (impl) test() {}

func TestDemands(t *testing.T) {
	test.DemandEquality(t, uint16(0x1000), 0x1000)
	test.DemandSuccess(t, true)
	test.DemandFailure(t, false)
	_ = test.DemandImplements[tester](t, impl{})
}
