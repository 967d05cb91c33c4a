package billing

import "testing"

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		year, seq int
		want      string
	}{
		{2026, 1, "INV-2026-0001"},
		{2026, 42, "INV-2026-0042"},
		{2026, 9999, "INV-2026-9999"},
		{2026, 10000, "INV-2026-10000"},
		{2027, 1, "INV-2027-0001"},
	}
	for _, tc := range cases {
		if got := FormatNumber(tc.year, tc.seq); got != tc.want {
			t.Errorf("FormatNumber(%d, %d) = %q, want %q", tc.year, tc.seq, got, tc.want)
		}
	}
}

func TestPaymentStatusFor(t *testing.T) {
	cases := []struct {
		paid, total float64
		want        string
	}{
		{0, 100, PaymentPending},
		{50, 100, PaymentPartial},
		{100, 100, PaymentPaid},
		{120, 100, PaymentPaid},
		{0, 0, PaymentPending},
	}
	for _, tc := range cases {
		if got := PaymentStatusFor(tc.paid, tc.total); got != tc.want {
			t.Errorf("PaymentStatusFor(%v, %v) = %q, want %q", tc.paid, tc.total, got, tc.want)
		}
	}
}
