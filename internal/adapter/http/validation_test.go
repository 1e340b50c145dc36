package http

import (
	"errors"
	"strings"
	"testing"
)

func TestHex32Validation(t *testing.T) {
	type P struct {
		UserID string `validate:"hex32"`
	}
	cv := NewValidator()

	// valid: 32-char lowercase hex
	ok := P{UserID: strings.Repeat("a", 32)}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}

	// invalid samples
	for _, s := range []string{
		"",                                  // empty
		strings.Repeat("A", 32),             // uppercase
		"deadbeef",                          // too short
		strings.Repeat("g", 32),             // non-hex char
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c8",   // 31 chars
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x", // 33 with extra
	} {
		bad := P{UserID: s}
		err := cv.Validate(bad)
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "UserID", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestDec2Validation(t *testing.T) {
	type P struct {
		Amount float64 `validate:"dec2"`
	}
	cv := NewValidator()

	for _, v := range []float64{1.29, 2.00, 0.9, 1.2, 10000} {
		if err := cv.Validate(P{Amount: v}); err != nil {
			t.Fatalf("expected dec2 OK for %v, got %v", v, err)
		}
	}
	for _, v := range []float64{1.234, 2.9999, -0.001} {
		err := cv.Validate(P{Amount: v})
		if err == nil {
			t.Fatalf("expected dec2 error for %v", v)
		}
		fe := ToFieldErrors(err)
		if !containsFieldMsg(fe, "Amount", "at most 2 decimal places") {
			t.Fatalf("expected 'at most 2 decimal places' for %v, got %+v", v, fe)
		}
	}
}

func TestRequiredAndBoundsMapping(t *testing.T) {
	type P struct {
		Purpose string  `validate:"required"`
		Term    int     `validate:"gte=1"`
		Score   int     `validate:"lte=850"`
		Amount  float64 `validate:"dec2,gt=0"`
	}
	cv := NewValidator()

	// Intentionally violate all
	err := cv.Validate(P{
		Purpose: "",    // required
		Term:    0,     // gte=1
		Score:   900,   // lte=850
		Amount:  0.001, // dec2 triggers before gt
	})
	if err == nil {
		t.Fatalf("expected validation errors")
	}
	fe := ToFieldErrors(err)

	if !containsFieldMsg(fe, "Purpose", "is required") {
		t.Fatalf("missing 'is required' for Purpose: %+v", fe)
	}
	if !containsFieldMsg(fe, "Term", "greater than or equal to 1") {
		t.Fatalf("missing gte message for Term: %+v", fe)
	}
	if !containsFieldMsg(fe, "Score", "less than or equal to 850") {
		t.Fatalf("missing lte message for Score: %+v", fe)
	}
	if !containsFieldMsg(fe, "Amount", "at most 2 decimal places") {
		t.Fatalf("missing dec2 message for Amount: %+v", fe)
	}
}

func TestOneofMapping(t *testing.T) {
	type P struct {
		Decision string `validate:"required,oneof=approve reject"`
	}
	cv := NewValidator()

	for _, d := range []string{"approve", "reject"} {
		if err := cv.Validate(P{Decision: d}); err != nil {
			t.Fatalf("expected oneof OK for %q, got %v", d, err)
		}
	}
	err := cv.Validate(P{Decision: "maybe"})
	if err == nil {
		t.Fatal("expected oneof error")
	}
	fe := ToFieldErrors(err)
	if !containsFieldMsg(fe, "Decision", "must be one of: approve reject") {
		t.Fatalf("missing oneof message: %+v", fe)
	}
}

func TestToFieldErrors_NonValidation(t *testing.T) {
	err := errors.New("boom")
	fe := ToFieldErrors(err)
	if len(fe) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(fe))
	}
	if fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected mapping: %+v", fe[0])
	}
}
