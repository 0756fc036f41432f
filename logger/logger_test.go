package logger_test

import (
	"strings"
	"testing"

	"yaspg/sidplayfp/logger"
	"yaspg/sidplayfp/test"
)

type deny struct{}

func (deny) AllowLogging() bool { return false }

func TestLogger(t *testing.T) {
	logger.Clear()

	w := &strings.Builder{}
	logger.Write(w)
	test.ExpectEquality(t, w.String(), "")

	logger.Log(logger.Allow, "test", "this is a test")
	logger.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test\n")

	w.Reset()
	logger.Log(logger.Allow, "test", "this is a test")
	logger.Write(w)
	test.ExpectEquality(t, w.String(), "test: this is a test (repeat x2)\n")

	w.Reset()
	logger.Logf(logger.Allow, "test2", "value %d", 10)
	logger.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "test2: value 10\n")

	w.Reset()
	logger.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "test: this is a test (repeat x2)\ntest2: value 10\n")

	w.Reset()
	logger.Log(deny{}, "test3", "not allowed")
	logger.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "test2: value 10\n")

	logger.Clear()
	w.Reset()
	logger.Write(w)
	test.ExpectEquality(t, w.String(), "")
}

func TestEcho(t *testing.T) {
	logger.Clear()
	w := &strings.Builder{}
	logger.SetEcho(w)
	defer logger.SetEcho(nil)

	logger.Log(logger.Allow, "echo", "hello")
	test.ExpectEquality(t, w.String(), "echo: hello\n")
}
