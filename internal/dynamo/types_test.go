package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestVec2_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		v     Vec2
		valid bool
	}{
		{"zero", Vec2{}, true},
		{"normal", Vec2{0.5, -1}, true},
		{"NaN x", Vec2{math.NaN(), 0}, false},
		{"+Inf y", Vec2{0, math.Inf(1)}, false},
		{"-Inf x", Vec2{math.Inf(-1), 0}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestVec2_Arithmetic(t *testing.T) {
	a := Vec2{1, 2}
	b := Vec2{3, 5}

	if got := a.Add(b); got != (Vec2{4, 7}) {
		t.Errorf("Add failed: got %v", got)
	}
	if got := b.Sub(a); got != (Vec2{2, 3}) {
		t.Errorf("Sub failed: got %v", got)
	}
	if got := a.Scale(-2); got != (Vec2{-2, -4}) {
		t.Errorf("Scale failed: got %v", got)
	}
	if got := (Vec2{3, 4}).Len(); math.Abs(got-5) > 1e-12 {
		t.Errorf("Len failed: got %v", got)
	}
}

func TestVec2_LenNoUnderflow(t *testing.T) {
	v := Vec2{1e-200, 0}
	if v.Len() == 0 {
		t.Error("Len underflowed to zero for a nonzero vector")
	}
}

func TestBodyError(t *testing.T) {
	err := &BodyError{Index: 2, Name: "red", Wrapped: ErrNegativeMass}

	if !errors.Is(err, ErrNegativeMass) {
		t.Error("BodyError does not unwrap to its sentinel")
	}
	expected := "body 2 (red): dynamo: negative mass"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}

	unnamed := &BodyError{Index: 0, Wrapped: ErrNonFinite}
	if unnamed.Error() != "body 0: dynamo: non-finite value (NaN or Inf)" {
		t.Errorf("unexpected message %q", unnamed.Error())
	}
}

func TestConstantError(t *testing.T) {
	err := &ConstantError{Name: "friction", Value: 2, Wrapped: ErrInvalidConstant}
	if !errors.Is(err, ErrInvalidConstant) {
		t.Error("ConstantError does not unwrap to its sentinel")
	}
}
