package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFromStatus_Categories(t *testing.T) {
	t.Parallel()
	cases := []struct {
		status int
		want   Category
	}{
		{400, Irrecoverable},
		{401, Irrecoverable},
		{404, Irrecoverable},
		{408, Recoverable},
		{429, Recoverable},
		{500, Recoverable},
		{503, Recoverable},
		{302, Recoverable},
	}
	for _, tc := range cases {
		ce := FromStatus("list journal entries", tc.status, "")
		if ce.Category != tc.want {
			t.Fatalf("status %d: got %v want %v", tc.status, ce.Category, tc.want)
		}
		if ce.StatusCode != tc.status {
			t.Fatalf("status %d not carried: %+v", tc.status, ce)
		}
	}
}

func TestNetwork_AlwaysRecoverable(t *testing.T) {
	t.Parallel()
	base := fmt.Errorf("connection refused")
	ce := Network("get settings", base)
	if ce.Category != Recoverable {
		t.Fatalf("network error should be recoverable: %v", ce)
	}
	if !errors.Is(ce, base) {
		t.Fatalf("underlying error not wrapped")
	}
}

func TestIsIrrecoverable(t *testing.T) {
	t.Parallel()
	if !IsIrrecoverable(FromStatus("op", 404, "")) {
		t.Fatal("404 should be irrecoverable")
	}
	if IsIrrecoverable(FromStatus("op", 500, "")) {
		t.Fatal("500 should be recoverable")
	}
	if IsIrrecoverable(fmt.Errorf("plain")) {
		t.Fatal("plain errors default to recoverable")
	}
}
