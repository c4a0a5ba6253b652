package match

import (
	"testing"
	"time"
)

func TestIdentityDeterministic(t *testing.T) {
	date := time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC)
	a := Identity("Edgbaston", date)
	b := Identity("Edgbaston", date)
	if a != b {
		t.Fatalf("identity not deterministic: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Fatalf("unexpected identity length %d", len(a))
	}

	// Time-of-day must not affect the identity.
	c := Identity("Edgbaston", time.Date(2023, 6, 16, 15, 30, 0, 0, time.UTC))
	if a != c {
		t.Fatalf("identity changed with time of day: %s vs %s", a, c)
	}
}

func TestIdentityDistinguishesVenueAndDate(t *testing.T) {
	date := time.Date(2023, 6, 16, 0, 0, 0, 0, time.UTC)
	if Identity("Edgbaston", date) == Identity("Lord's", date) {
		t.Fatal("different venues produced the same identity")
	}
	if Identity("Edgbaston", date) == Identity("Edgbaston", date.AddDate(0, 0, 1)) {
		t.Fatal("different dates produced the same identity")
	}
}

func TestIndexOrdinals(t *testing.T) {
	ix := NewIndex()
	if got := ix.Ordinal("m1"); got != 0 {
		t.Fatalf("first ordinal = %d, want 0", got)
	}
	if got := ix.Ordinal("m2"); got != 1 {
		t.Fatalf("second ordinal = %d, want 1", got)
	}
	if got := ix.Ordinal("m1"); got != 0 {
		t.Fatalf("repeat ordinal = %d, want 0", got)
	}
	if ids := ix.IDs(); len(ids) != 2 || ids[0] != "m1" || ids[1] != "m2" {
		t.Fatalf("unexpected IDs order: %v", ids)
	}
}
