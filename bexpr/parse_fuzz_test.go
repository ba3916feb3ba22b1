package bexpr

import (
	"errors"
	"testing"
)

func FuzzParse(f *testing.F) {
	seeds := []string{
		"A",
		"out = A and B",
		"~~A or ~B or ~~~C",
		"(A xor B) <-> not (C nand D)",
		`A /\ (B \/ C) -> D`,
		"A and (",
		"",
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, s string) {
		e, err := Parse(s)
		if err != nil {
			if !IsInputError(err) {
				t.Fatalf("non-input error for %q: %v", s, err)
			}
			var ge *GrammarError
			if errors.As(err, &ge) && (ge.Pos() < 0 || ge.Pos() > len([]rune(s))) {
				t.Fatalf("position %d out of range for %q", ge.Pos(), s)
			}
			return
		}
		again, err := Parse(e.String())
		if err != nil {
			t.Fatalf("rendered %q does not parse: %v", e.String(), err)
		}
		if !e.Equal(again) {
			t.Fatalf("round trip changed %q into %q", s, again.String())
		}
		if e.Root().Size() > 40 {
			// distribution grows exponentially with chain count
			return
		}
		for _, name := range Passes() {
			if _, err := Transform(name, e); err != nil {
				t.Fatalf("%s(%q): %v", name, s, err)
			}
		}
	})
}
