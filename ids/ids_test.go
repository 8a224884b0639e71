package ids

import "testing"

func TestMonotonic(t *testing.T) {
	ResetForTesting()

	for i := 0; i < 5; i++ {
		if got, want := NextUSID(), USID(i); got != want {
			t.Errorf("NextUSID() call %d = %d; want %d", i, got, want)
		}
	}
	for i := 0; i < 3; i++ {
		if got, want := NextUVID(), UVID(i); got != want {
			t.Errorf("NextUVID() call %d = %d; want %d", i, got, want)
		}
	}
}

func TestDistinctCounters(t *testing.T) {
	ResetForTesting()

	u := NextUSID()
	v := NextUVID()
	f := NextUFID()
	c := NextUCID()
	ty := NextUTID()

	if u != 0 || v != 0 || f != 0 || c != 0 || ty != 0 {
		t.Errorf("first id of each kind should be 0, got USID=%d UVID=%d UFID=%d UCID=%d UTID=%d", u, v, f, c, ty)
	}
}
