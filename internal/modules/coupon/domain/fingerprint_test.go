package domain

import "testing"

func TestFingerprint(t *testing.T) {
	t.Parallel()

	base := Fingerprint("promodeals", 42, "use PROMO20 today", "PROMO20")

	if len(base) != 64 {
		t.Fatalf("fingerprint length = %d, want 64 hex chars", len(base))
	}
	if got := Fingerprint("promodeals", 42, "use PROMO20 today", "PROMO20"); got != base {
		t.Error("same inputs should give the same fingerprint")
	}
	if got := Fingerprint("promodeals", 43, "use PROMO20 today", "PROMO20"); got == base {
		t.Error("different message id should give a different fingerprint")
	}
	if got := Fingerprint("promodeals", 42, "use PROMO20 today", "DESC180"); got == base {
		t.Error("different code in the same message should give a different fingerprint")
	}
	if got := Fingerprint("otherchannel", 42, "use PROMO20 today", "PROMO20"); got == base {
		t.Error("different channel should give a different fingerprint")
	}
}
