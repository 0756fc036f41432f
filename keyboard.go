package main

import (
	"os"

	"golang.org/x/term"
)

// keyboard reads key presses from a terminal in raw mode
type keyboard struct {
	fd       int
	oldState *term.State
	keys     chan byte
}

// newKeyboard puts the terminal into raw mode. Returns nil if stdin is not
// a terminal.
func newKeyboard() *keyboard {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil
	}

	kb := &keyboard{
		fd:       fd,
		oldState: oldState,
		keys:     make(chan byte, 16),
	}

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				close(kb.keys)
				return
			}
			if n > 0 {
				kb.keys <- buf[0]
			}
		}
	}()

	return kb
}

// the next key press, if there is one
func (kb *keyboard) key() (byte, bool) {
	if kb == nil {
		return 0, false
	}
	select {
	case k, ok := <-kb.keys:
		return k, ok
	default:
	}
	return 0, false
}

func (kb *keyboard) restore() {
	if kb == nil {
		return
	}
	_ = term.Restore(kb.fd, kb.oldState)
}
