package normalize

import (
	"testing"
)

// Test table covers each stage and combined pipelines.
func TestNormalize_Table(t *testing.T) {
	n := New()

	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "identity ascii",
			in:   "kanagawa",
			out:  "kanagawa",
		},
		{
			name: "identity japanese",
			in:   "相模原市緑区",
			out:  "相模原市緑区",
		},
		{
			name: "utf8 repair drops invalid bytes",
			in:   string([]byte{0xff, 'f', 'o', 'o', 0x80, ' ', 'b', 'a', 'r'}),
			out:  "foo bar",
		},
		{
			name: "case fold",
			in:   "YoKoHaMa",
			out:  "yokohama",
		},
		{
			name: "fullwidth latin and digits",
			in:   "ＡＲＥＡ１２３",
			out:  "area123",
		},
		{
			name: "halfwidth katakana recomposed",
			in:   "ﾌｼﾞｻﾜ",
			out:  "フジサワ",
		},
		{
			name: "ideographic space",
			in:   "横浜市　港北区",
			out:  "横浜市 港北区",
		},
		{
			name: "remove zero-widths",
			in:   "藤​沢‍市",
			out:  "藤沢市",
		},
		{
			name: "remove combining marks",
			in:   "café",
			out:  "cafe",
		},
		{
			name: "collapse whitespace",
			in:   "a\t\tb\nc   d",
			out:  "a b c d",
		},
		{
			name: "trims edges",
			in:   "  相模原市  \t\n",
			out:  "相模原市",
		},
		{
			name: "idempotent",
			in:   n.Normalize("Ｓａｇａｍｉ　ﾊﾗ\ufeff  "),
			out:  "sagami ハラ",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := n.Normalize(tc.in)
			if got != tc.out {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.out)
			}
		})
	}
}

func TestSanitize_ControlsAndInvalid(t *testing.T) {
	in := "a\x00b\x07c\x7fde"
	got := Sanitize(in)
	if got != "abcde" {
		t.Fatalf("Sanitize(%q) = %q, want %q", in, got, "abcde")
	}

	keep := "line1\nline2\tend"
	if got := Sanitize(keep); got != keep {
		t.Fatalf("Sanitize(%q) = %q, want unchanged", keep, got)
	}
}
