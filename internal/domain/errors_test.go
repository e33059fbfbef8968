package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	cases := []struct {
		err  ValidationError
		want string
	}{
		{ValidationError{}, "validation error"},
		{ValidationError{Field: "slot"}, "invalid slot"},
		{ValidationError{Msg: "wajib diisi"}, "wajib diisi"},
		{ValidationError{Fields: []string{"address", "dateOfBirth"}, Msg: "required"}, "address, dateOfBirth: required"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("got %q want %q", got, tc.want)
		}
	}
}

func TestIsHelpersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("go online: %w", NotVerifiedError{DriverID: 7})
	if !IsNotVerified(wrapped) {
		t.Fatalf("expected wrapped NotVerifiedError to match")
	}
	if IsValidation(wrapped) {
		t.Fatalf("NotVerifiedError must not match validation")
	}

	corrupt := CorruptRecordError{Record: "progress", Version: 9, Err: errors.New("bad json")}
	if !IsCorruptRecord(fmt.Errorf("load: %w", corrupt)) {
		t.Fatalf("expected corrupt record to match")
	}
}
