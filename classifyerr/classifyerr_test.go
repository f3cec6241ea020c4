package classifyerr

import (
	"errors"
	"testing"
)

func TestInvalidIs(t *testing.T) {
	err := Invalid("empty table")
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("expected errors.Is(err, ErrInvalidInput) to be true")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("got:", err)
	}
}

func TestIOWrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := IO(cause, "writing forest to %s", "model.txt")
	if !errors.Is(err, ErrIO) {
		t.Error("expected errors.Is(err, ErrIO) to be true")
	}
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is(err, cause) to be true, got:", err)
	}
}

func TestForestMessage(t *testing.T) {
	err := Forest("node %d references unknown parent", 6)
	want := "classifyerr: invalid forest: node 6 references unknown parent"
	if err.Error() != want {
		t.Errorf("expected %q got %q", want, err.Error())
	}
}
