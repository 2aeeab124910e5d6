package protocol

import "testing"

func TestIsKnownCode(t *testing.T) {
	for _, code := range []string{
		ErrProtoBadRequest,
		ErrBadRequest,
		ErrEraNotFound,
		ErrTravelBusy,
		ErrTravelCancelled,
		ErrInternal,
	} {
		if !IsKnownCode(code) {
			t.Fatalf("code %q should be known", code)
		}
	}
	if !IsKnownCode("") {
		t.Fatalf("empty code means accepted, should be known")
	}
	if IsKnownCode("E_MADE_UP") {
		t.Fatalf("unknown code accepted")
	}
}
