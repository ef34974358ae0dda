package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMalformedTree, "unmatched parenthesis at offset %d", 7)

	if err.Code != ErrCodeMalformedTree {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeMalformedTree)
	}
	if err.Message != "unmatched parenthesis at offset 7" {
		t.Errorf("Message = %q, want %q", err.Message, "unmatched parenthesis at offset 7")
	}
	want := "MALFORMED_TREE: unmatched parenthesis at offset 7"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeStorage, cause, "failed to save tree %s", "primates")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeMalformedTree, "bad input")

	if !Is(err, ErrCodeMalformedTree) {
		t.Error("Is() = false, want true for matching code")
	}
	if Is(err, ErrCodeStorage) {
		t.Error("Is() = true, want false for non-matching code")
	}
	if Is(stderrors.New("plain"), ErrCodeMalformedTree) {
		t.Error("Is() = true, want false for non-structured error")
	}
}

func TestIsWrappedChain(t *testing.T) {
	inner := New(ErrCodeTreeNotFound, "no tree named %q", "x")
	outer := fmt.Errorf("loading: %w", inner)

	if !Is(outer, ErrCodeTreeNotFound) {
		t.Error("Is() should find code through wrapped chain")
	}
	if GetCode(outer) != ErrCodeTreeNotFound {
		t.Errorf("GetCode() = %q, want %q", GetCode(outer), ErrCodeTreeNotFound)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "leaf name must not be empty")
	if got := UserMessage(err); got != "leaf name must not be empty" {
		t.Errorf("UserMessage() = %q, want message without code prefix", got)
	}

	plain := stderrors.New("plain error")
	if got := UserMessage(plain); got != "plain error" {
		t.Errorf("UserMessage() = %q, want %q", got, "plain error")
	}
}
