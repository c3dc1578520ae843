package bind

import (
	"net/http/httptest"
	"strings"
	"testing"

	perr "depotmap/internal/platform/errors"
	"depotmap/internal/platform/testkit"
)

type patchBody struct {
	DepotCode string `json:"depot_code" validate:"required,min=3,max=3"`
}

func TestParseJSONValid(t *testing.T) {
	r := httptest.NewRequest("PATCH", "/areas/14133/depot", strings.NewReader(`{"depot_code":"SGM"}`))
	got, err := ParseJSON[patchBody](r)
	testkit.MustNoErr(t, err)
	if got.DepotCode != "SGM" {
		t.Fatalf("DepotCode = %q", got.DepotCode)
	}
}

func TestParseJSONEmptyBody(t *testing.T) {
	r := httptest.NewRequest("PATCH", "/areas/14133/depot", strings.NewReader(""))
	_, err := ParseJSON[patchBody](r)
	testkit.MustCode(t, err, perr.ErrorCodeJSON)
}

func TestParseJSONUnknownField(t *testing.T) {
	r := httptest.NewRequest("PATCH", "/x", strings.NewReader(`{"depot_code":"SGM","bogus":1}`))
	_, err := ParseJSON[patchBody](r)
	testkit.MustCode(t, err, perr.ErrorCodeJSON)
}

func TestParseJSONValidation(t *testing.T) {
	r := httptest.NewRequest("PATCH", "/x", strings.NewReader(`{"depot_code":"SAGAMIHARA"}`))
	_, err := ParseJSON[patchBody](r)
	testkit.MustCode(t, err, perr.ErrorCodeValidation)
	e, _ := perr.As(err)
	if e.Ref() != "depot_code" {
		t.Fatalf("validation ref = %q, want json tag name", e.Ref())
	}
}

func TestParseJSONTrailingData(t *testing.T) {
	r := httptest.NewRequest("PATCH", "/x", strings.NewReader(`{"depot_code":"SGM"}{"depot_code":"YOK"}`))
	_, err := ParseJSON[patchBody](r)
	testkit.MustCode(t, err, perr.ErrorCodeJSON)
}
