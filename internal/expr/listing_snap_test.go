package expr

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// Listing snapshots pin the emitted instruction stream for a handful of
// representative expressions; any codegen drift shows up as a snapshot
// diff.
func TestListing_Snapshots(t *testing.T) {
	t.Run("ArithmeticOverVariables", func(t *testing.T) {
		s := newSession(t)
		s.intVar(t, "a")
		s.intVar(t, "b")
		s.mustCompile(t, "a * a + b / 2")
		snaps.MatchSnapshot(t, s.asm.Listing())
	})

	t.Run("Ternary", func(t *testing.T) {
		s := newSession(t)
		s.typedVar(t, "b", s.tab.BolTypIndex)
		s.intVar(t, "x")
		s.intVar(t, "y")
		s.mustCompile(t, "(b ? x : y)")
		snaps.MatchSnapshot(t, s.asm.Listing())
	})

	t.Run("ForLoop", func(t *testing.T) {
		s := newSession(t)
		s.mustCompile(t, "for(int n = 0 if n < 10 do n++ return n)")
		snaps.MatchSnapshot(t, s.asm.Listing())
	})

	t.Run("StringReplication", func(t *testing.T) {
		s := newSession(t)
		s.typedVar(t, "s1", s.tab.StrTypIndex)
		s.typedVar(t, "s2", s.tab.StrTypIndex)
		s.mustCompile(t, "s1 = s2")
		snaps.MatchSnapshot(t, s.asm.Listing())
	})
}
