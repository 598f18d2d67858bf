package bitset

import "testing"

func TestSetTestClear(t *testing.T) {
	b := New(10)
	if b.Test(3) {
		t.Fatalf("expected bit 3 clear initially")
	}
	b.Set(3)
	if !b.Test(3) {
		t.Fatalf("expected bit 3 set")
	}
	b.Clear(3)
	if b.Test(3) {
		t.Fatalf("expected bit 3 clear after Clear")
	}
}

func TestUnionInPlace(t *testing.T) {
	a := New(130)
	b := New(130)
	a.Set(1)
	a.Set(64)
	b.Set(65)
	b.Set(129)
	a.UnionInPlace(b)
	for _, i := range []int{1, 64, 65, 129} {
		if !a.Test(i) {
			t.Fatalf("expected bit %d set after union", i)
		}
	}
}

func TestIntersectsNonEmpty(t *testing.T) {
	a := New(70)
	b := New(70)
	a.Set(5)
	b.Set(69)
	if a.IntersectsNonEmpty(b) {
		t.Fatalf("disjoint sets should not intersect")
	}
	b.Set(5)
	if !a.IntersectsNonEmpty(b) {
		t.Fatalf("expected intersection on shared bit 5")
	}
}

func TestCopyIsIndependent(t *testing.T) {
	a := New(10)
	a.Set(2)
	b := a.Copy()
	b.Set(3)
	if a.Test(3) {
		t.Fatalf("mutating the copy should not affect the original")
	}
	if !b.Test(2) {
		t.Fatalf("copy should preserve original bits")
	}
}

func TestIsEmpty(t *testing.T) {
	a := New(100)
	if !a.IsEmpty() {
		t.Fatalf("fresh bitset should be empty")
	}
	a.Set(99)
	if a.IsEmpty() {
		t.Fatalf("bitset with a set bit should not be empty")
	}
}

func TestIterVisitsAllSetBits(t *testing.T) {
	a := New(200)
	want := map[int]bool{0: true, 63: true, 64: true, 127: true, 199: true}
	for i := range want {
		a.Set(i)
	}
	got := map[int]bool{}
	a.Iter(func(i int) { got[i] = true })
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if !got[i] {
			t.Fatalf("Iter missed index %d", i)
		}
	}
}

func TestCount(t *testing.T) {
	a := New(200)
	for _, i := range []int{0, 1, 63, 64, 65, 199} {
		a.Set(i)
	}
	if got := a.Count(); got != 6 {
		t.Fatalf("Count() = %d, want 6", got)
	}
}

func TestMismatchedSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on size mismatch")
		}
	}()
	New(10).UnionInPlace(New(20))
}
