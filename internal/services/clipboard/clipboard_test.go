package clipboard

import (
	"errors"
	"testing"
)

func TestServiceCopy(t *testing.T) {
	writeFailure := errors.New("xclip exited with status 1")
	testCases := []struct {
		name        string
		unsupported bool
		writeErr    error
		expectedErr error
		expectWrite bool
	}{
		{name: "writes_text", expectWrite: true},
		{name: "unsupported_platform", unsupported: true, expectedErr: ErrUnavailable},
		{name: "write_failure_is_wrapped", writeErr: writeFailure, expectedErr: writeFailure, expectWrite: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			var written []string
			service := &Service{
				unsupported: testCase.unsupported,
				write: func(text string) error {
					written = append(written, text)
					return testCase.writeErr
				},
			}
			err := service.Copy("tree")
			if testCase.expectedErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if testCase.expectedErr != nil && !errors.Is(err, testCase.expectedErr) {
				t.Fatalf("expected %v, got %v", testCase.expectedErr, err)
			}
			if testCase.expectWrite != (len(written) == 1) {
				t.Fatalf("unexpected writes %v", written)
			}
		})
	}
}
