package raw

import "testing"

func TestGetDefaults(t *testing.T) {
	c := New().Prefix("RAWTEST_")
	if got := c.Get("MISSING", "fallback"); got != "fallback" {
		t.Fatalf("Get default = %q", got)
	}
	t.Setenv("RAWTEST_SET", "  value  ")
	if got := c.Get("SET", "x"); got != "value" {
		t.Fatalf("Get trimmed = %q", got)
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("RAWTEST_")
	cases := map[string]bool{"1": true, "true": true, "YES": true, "0": false, "no": false}
	for in, want := range cases {
		t.Setenv("RAWTEST_B", in)
		if got := c.GetBool("B", !want); got != want {
			t.Fatalf("GetBool(%q) = %v, want %v", in, got, want)
		}
	}
	if !c.GetBool("B_MISSING", true) {
		t.Fatal("GetBool missing should return default")
	}
}

func TestGetInt(t *testing.T) {
	c := New().Prefix("RAWTEST_")
	t.Setenv("RAWTEST_N", "42")
	if got := c.GetInt("N", 7); got != 42 {
		t.Fatalf("GetInt = %d", got)
	}
	t.Setenv("RAWTEST_N", "4x2")
	if got := c.GetInt("N", 7); got != 7 {
		t.Fatalf("GetInt invalid = %d, want default", got)
	}
}
