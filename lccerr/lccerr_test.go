package lccerr

import (
	"errors"
	"testing"
)

func TestErrorKindMatching(t *testing.T) {
	err := Format("bad header", errors.New("short read"))
	if !errors.Is(err, KindInvalidFormat) {
		t.Errorf("expected err to match InvalidFormat kind")
	}
	if errors.Is(err, KindIoFailure) {
		t.Errorf("did not expect err to match IoFailure kind")
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := IO("write failed", cause)
	if !errors.Is(err, cause) {
		t.Errorf("expected Unwrap to expose the cause")
	}
}

func TestMissingMessage(t *testing.T) {
	err := Missing("/tmp/point_cloud.ply")
	if err.Kind != InputMissing {
		t.Errorf("expected InputMissing kind, got %v", err.Kind)
	}
}
