package progressrpc

import "testing"

func TestServerLastEventInitiallyZero(t *testing.T) {
	s := NewServer("localhost:0", nil, nil)
	if s.LastEvent() != (Event{}) {
		t.Errorf("expected zero-value event before any report")
	}
}

func TestDefaultAddressUsedWhenEmpty(t *testing.T) {
	s := NewServer("", nil, nil)
	if s.addr != DefaultAddress {
		t.Errorf("expected default address, got %s", s.addr)
	}
	if s.Address() != DefaultAddress {
		t.Errorf("Address() = %s, want %s", s.Address(), DefaultAddress)
	}
}

func TestReportProgressUpdatesLastEventAndCallback(t *testing.T) {
	var got Event
	s := NewServer("localhost:0", func(e Event) { got = e }, nil)

	s.ReportProgress(42, "halfway")

	if want := (Event{Percent: 42, Message: "halfway"}); s.LastEvent() != want {
		t.Errorf("LastEvent() = %+v, want %+v", s.LastEvent(), want)
	}
	if got != s.LastEvent() {
		t.Errorf("onProgress callback got %+v, want %+v", got, s.LastEvent())
	}
}
