package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfWrappedErrors(t *testing.T) {
	testCases := []struct {
		name         string
		err          error
		expectedKind ErrorKind
	}{
		{name: "validation", err: ValidationError("bad %s", "url"), expectedKind: KindValidation},
		{name: "storage_wrapped", err: fmt.Errorf("save: %w", StorageError("write failed", errors.New("disk full"))), expectedKind: KindStorage},
		{name: "extraction", err: ExtractionError(ReasonTimeout, "timed out", nil), expectedKind: KindExtraction},
		{name: "plain", err: errors.New("boom"), expectedKind: 0},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if kind := KindOf(testCase.err); kind != testCase.expectedKind {
				t.Fatalf("expected kind %v, got %v", testCase.expectedKind, kind)
			}
		})
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("permission denied")
	err := StorageError("Failed to create directory /tmp/x", cause)
	if err.Error() != "Failed to create directory /tmp/x: permission denied" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to be unwrappable")
	}
}

func TestExtractionErrorDefaultsToGenericReason(t *testing.T) {
	err := ExtractionError("", "GitIngest error: boom", nil)
	if ReasonOf(err) != ReasonGeneric {
		t.Fatalf("expected generic reason, got %q", ReasonOf(err))
	}
}
