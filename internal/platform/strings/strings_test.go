package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	if got := IfEmpty(nil, []string{"a"}); len(got) != 1 || got[0] != "a" {
		t.Fatalf("IfEmpty(nil) = %v", got)
	}
	if got := IfEmpty([]string{"b"}, []string{"a"}); got[0] != "b" {
		t.Fatalf("IfEmpty(non-empty) = %v", got)
	}
}

func TestMustPrefix(t *testing.T) {
	if got := MustPrefix(" areas/ "); got != "/areas" {
		t.Fatalf("MustPrefix = %q", got)
	}
	if got := MustPrefix("  / "); got != "/" {
		t.Fatalf("MustPrefix(root) = %q, want /", got)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on empty prefix")
		}
	}()
	MustPrefix("   ")
}

func TestPtrDeref(t *testing.T) {
	if Ptr("") != nil {
		t.Fatal("Ptr of empty should be nil")
	}
	p := Ptr("藤沢")
	if Deref(p) != "藤沢" {
		t.Fatalf("Deref = %q", Deref(p))
	}
	if Deref(nil) != "" {
		t.Fatal("Deref(nil) should be empty")
	}
}
