package normalize

import "testing"

func TestNormalizeIdempotent(t *testing.T) {
	t.Parallel()

	n := New()
	cases := []string{
		"kaucja szkło",
		"  BUTELKA   0,5L  ",
		"opakowanie\tzwrotne",
		"",
	}
	for _, in := range cases {
		once := n.Normalize(in)
		twice := n.Normalize(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q vs %q", in, once, twice)
		}
	}
}

func TestNormalizeMergesEncodings(t *testing.T) {
	t.Parallel()

	n := New()

	// o followed by combining acute composes to the single code point form
	precomposed := "kaucja skóp"
	decomposed := "kaucja skóp"

	if n.Normalize(precomposed) != n.Normalize(decomposed) {
		t.Fatalf("encoding variants did not merge: %q vs %q",
			n.Normalize(precomposed), n.Normalize(decomposed))
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	t.Parallel()

	n := New()
	got := n.Normalize("  kaucja   szkło \t 0,5L \n")
	want := "kaucja szkło 0,5L"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestNormalizePreservesCase(t *testing.T) {
	t.Parallel()

	n := New()
	if got := n.Normalize("KAUCJA Szkło"); got != "KAUCJA Szkło" {
		t.Fatalf("case was not preserved: %q", got)
	}
}
