package appointment

import "testing"

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StatusScheduled, StatusConfirmed, true},
		{StatusScheduled, StatusCancelled, true},
		{StatusScheduled, StatusInProgress, false},
		{StatusScheduled, StatusCompleted, false},
		{StatusConfirmed, StatusInProgress, true},
		{StatusConfirmed, StatusNoShow, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusScheduled, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusScheduled, false},
		{StatusNoShow, StatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false", s)
		}
	}
	if ValidStatus("booked") {
		t.Error("ValidStatus(booked) = true")
	}
}

func TestQueueStatusFor(t *testing.T) {
	cases := map[string]string{
		StatusInProgress: QueueCalled,
		StatusCompleted:  QueueCompleted,
		StatusCancelled:  QueueCancelled,
		StatusNoShow:     QueueSkipped,
		StatusConfirmed:  "",
		StatusScheduled:  "",
	}
	for from, want := range cases {
		if got := QueueStatusFor(from); got != want {
			t.Errorf("QueueStatusFor(%s) = %q, want %q", from, got, want)
		}
	}
}
