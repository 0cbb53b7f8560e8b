package ovc

import (
	"testing"

	"github.com/grailbio/testutil/expect"
)

func names(reads []*Read) []string {
	var s []string
	for _, r := range reads {
		s = append(s, r.Name)
	}
	return s
}

func TestWindowEvictFront(t *testing.T) {
	w := NewWindow()
	w.Append(mkRead(0, 0, 60, "a", "AAAAAAAAAA", 30))  // [0, 9]
	w.Append(mkRead(0, 5, 60, "b", "AAAAAAAAAA", 30))  // [5, 14]
	w.Append(mkRead(0, 12, 60, "c", "AAAAAAAAAA", 30)) // [12, 21]
	expect.EQ(t, w.Len(), 3)
	expect.EQ(t, w.Last().Name, "c")

	w.EvictBefore(9)
	expect.EQ(t, names(w.Snapshot()), []string{"a", "b", "c"})
	w.EvictBefore(10)
	expect.EQ(t, names(w.Snapshot()), []string{"b", "c"})
	w.EvictBefore(21)
	expect.EQ(t, names(w.Snapshot()), []string{"c"})
	w.EvictBefore(22)
	expect.EQ(t, w.Len(), 0)
	expect.True(t, w.Last() == nil)

	w.Append(mkRead(0, 30, 60, "d", "AA", 30))
	expect.EQ(t, names(w.Snapshot()), []string{"d"})
}

func TestWindowEvictInterior(t *testing.T) {
	w := NewWindow()
	w.Append(mkRead(0, 0, 60, "long", "AAAAAAAAAAAAAAAAAAAA", 30)) // [0, 19]
	w.Append(mkRead(0, 2, 60, "short", "AAA", 30))                 // [2, 4]
	w.Append(mkRead(0, 3, 60, "mid", "AAAAAAAA", 30))              // [3, 10]
	w.EvictBefore(5)
	expect.EQ(t, names(w.Snapshot()), []string{"long", "mid"})
	w.EvictBefore(11)
	expect.EQ(t, names(w.Snapshot()), []string{"long"})
	for _, r := range w.Snapshot() {
		expect.True(t, r.End() >= 11)
	}
}

func TestWindowManyEvictions(t *testing.T) {
	w := NewWindow()
	for i := 0; i < 1000; i++ {
		w.Append(mkRead(0, PosType(i), 60, "r", "ACGTA", 30))
		w.EvictBefore(PosType(i))
		for _, r := range w.Snapshot() {
			expect.True(t, r.End() >= PosType(i))
		}
		expect.LE(t, w.Len(), 5)
	}
	w.Reset()
	expect.EQ(t, w.Len(), 0)
}

func TestWindowInvalidateIdempotent(t *testing.T) {
	w := NewWindow()
	for _, r := range scenarioReads() {
		w.Append(r)
	}
	w.InvalidateLowQuality(25)
	valid := func() []bool {
		var v []bool
		for _, r := range w.Snapshot() {
			v = append(v, r.Valid)
		}
		return v
	}
	want := []bool{false, true, true}
	expect.EQ(t, valid(), want)
	w.InvalidateLowQuality(25)
	expect.EQ(t, valid(), want)
	// A lower cutoff doesn't revive reads.
	w.InvalidateLowQuality(0)
	expect.EQ(t, valid(), want)
	expect.EQ(t, w.Len(), 3)
}
