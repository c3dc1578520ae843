package raw

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("RAWTEST_NAME", "  tokyo  ")
	c := New().Prefix("RAWTEST_")
	if got := c.Get("NAME", "x"); got != "tokyo" {
		t.Fatalf("Get trimmed = %q, want %q", got, "tokyo")
	}
	if got := c.Get("MISSING", "fallback"); got != "fallback" {
		t.Fatalf("Get default = %q, want %q", got, "fallback")
	}
}

func TestGetBool(t *testing.T) {
	tests := []struct {
		val  string
		def  bool
		want bool
	}{
		{"1", false, true},
		{"true", false, true},
		{"YES", false, true},
		{"no", true, false},
		{"", true, true},
		{"", false, false},
	}
	for _, tc := range tests {
		t.Setenv("RAWTEST_FLAG", tc.val)
		c := New().Prefix("RAWTEST_")
		if got := c.GetBool("FLAG", tc.def); got != tc.want {
			t.Fatalf("GetBool(%q, %v) = %v, want %v", tc.val, tc.def, got, tc.want)
		}
	}
}

func TestGetInt(t *testing.T) {
	tests := []struct {
		val  string
		def  int
		want int
	}{
		{"42", 0, 42},
		{"", 7, 7},
		{"-3", 7, 7},
		{"12ab", 7, 7},
	}
	for _, tc := range tests {
		t.Setenv("RAWTEST_N", tc.val)
		c := New().Prefix("RAWTEST_")
		if got := c.GetInt("N", tc.def); got != tc.want {
			t.Fatalf("GetInt(%q, %d) = %d, want %d", tc.val, tc.def, got, tc.want)
		}
	}
}
