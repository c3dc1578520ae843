package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestWrapAndRoot(t *testing.T) {
	cause := stderrs.New("bad ring")
	err := Wrapf(cause, ErrorCodeGeometryParse, "kanagawa record 12")
	if Root(err) != cause {
		t.Fatal("Root should return the deepest cause")
	}
	if CodeOf(err) != ErrorCodeGeometryParse {
		t.Fatalf("CodeOf = %v", CodeOf(err))
	}
	if !IsCode(err, ErrorCodeGeometryParse) {
		t.Fatal("IsCode mismatch")
	}
}

func TestWithRefCopyOnWrite(t *testing.T) {
	base := MissingIdentifierf("no usable key")
	withRef := WithRef(base, "feature#42")
	e1, _ := As(base)
	e2, _ := As(withRef)
	if e1.Ref() != "" {
		t.Fatal("original mutated")
	}
	if e2.Ref() != "feature#42" {
		t.Fatalf("Ref = %q", e2.Ref())
	}
}

func TestFatalSplit(t *testing.T) {
	warnings := []ErrorCode{
		ErrorCodeMissingIdentifier,
		ErrorCodeGeometryParse,
		ErrorCodeUnknownDepotLabel,
		ErrorCodeAmbiguousBaseline,
	}
	for _, c := range warnings {
		if Fatal(c) {
			t.Fatalf("code %d should be non-fatal", c)
		}
	}
	if !Fatal(ErrorCodeDuplicateAreaID) || !Fatal(ErrorCodeCoverageGap) {
		t.Fatal("structural conditions must be fatal")
	}
}

func TestHTTPMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NotFoundf("area %s", "x"), http.StatusNotFound},
		{ImmutableAreaf("frozen"), http.StatusForbidden},
		{Validationf("bad depot_code"), http.StatusBadRequest},
		{DuplicateAreaIDf("dup"), http.StatusConflict},
		{stderrs.New("plain"), http.StatusInternalServerError},
	}
	for _, tc := range tests {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Fatalf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWireFrom(t *testing.T) {
	w := WireFrom(WithRef(UnknownDepotf("label %q", "川崎"), "baseline row 9"))
	if w.Code != ErrorCodeUnknownDepotLabel || w.Ref != "baseline row 9" {
		t.Fatalf("WireFrom = %+v", w)
	}
	if WireFrom(nil) != (Wire{}) {
		t.Fatal("nil should map to zero Wire")
	}
}
