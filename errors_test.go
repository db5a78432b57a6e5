package qnty_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tn3wman/qnty-sub000"
)

func TestError_IsMatchesByCode(t *testing.T) {
	_, err := qnty.Default().Get("furlong")
	wrapped := fmt.Errorf("load: %w", err)
	if !errors.Is(wrapped, qnty.ErrUnknownUnit) {
		t.Errorf("wrapped error should match ErrUnknownUnit")
	}
	if errors.Is(wrapped, qnty.ErrDimensionMismatch) {
		t.Errorf("codes should not cross-match")
	}
	if qnty.CodeOf(wrapped) != qnty.CodeUnknownUnit {
		t.Errorf("want %s, got %s", qnty.CodeUnknownUnit, qnty.CodeOf(wrapped))
	}
	if qnty.CodeOf(errors.New("plain")) != qnty.CodeUnknown {
		t.Errorf("plain errors have no code")
	}
}

func TestError_UnwrapsCause(t *testing.T) {
	_, err := qnty.DecodeSystem(nil, []byte("variables: [{name: a, unit: furlong}]"))
	if !errors.Is(err, qnty.ErrInvalidDocument) || !errors.Is(err, qnty.ErrUnknownUnit) {
		t.Errorf("document error should carry its cause, got %v", err)
	}
}

func TestIsExpected(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{qnty.ErrUnknownVariable, true},
		{qnty.ErrEvaluation, true},
		{qnty.ErrDimensionMismatch, true},
		{qnty.ErrUnknownUnit, true},
		{qnty.ErrArithmeticGuard, false},
		{qnty.ErrUnsupportedEquationForm, false},
		{errors.New("boom"), false},
	}
	for _, tt := range tests {
		if got := qnty.IsExpected(tt.err); got != tt.want {
			t.Errorf("IsExpected(%v): want %v, got %v", tt.err, tt.want, got)
		}
	}
}
