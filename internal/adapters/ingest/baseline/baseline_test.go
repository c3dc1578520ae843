package baseline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"depotmap/internal/platform/testkit"
)

func write(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "baseline.csv")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return p
}

func TestRead_Rows(t *testing.T) {
	p := write(t, "key,depot_label\n14151,相模原\n141510010,藤沢\n2520186, 横浜港北(第2)\n")
	recs, err := Read(p)
	testkit.MustNoErr(t, err)

	if len(recs) != 3 {
		t.Fatalf("got %d rows, want 3", len(recs))
	}
	if recs[0].Key != "14151" || recs[0].DepotLabel != "相模原" || recs[0].Line != 2 {
		t.Fatalf("row 0 = %+v", recs[0])
	}
	if recs[2].DepotLabel != "横浜港北(第2)" {
		t.Fatalf("row 2 label = %q, want trimmed raw label", recs[2].DepotLabel)
	}
}

func TestRead_NoHeader(t *testing.T) {
	p := write(t, "14151,相模原\n")
	recs, err := Read(p)
	testkit.MustNoErr(t, err)
	if len(recs) != 1 || recs[0].Line != 1 {
		t.Fatalf("rows = %+v", recs)
	}
}

func TestRead_MissingFileFatalWithPath(t *testing.T) {
	p := filepath.Join(t.TempDir(), "absent.csv")
	_, err := Read(p)
	if err == nil || !strings.Contains(err.Error(), p) {
		t.Fatalf("expected error naming %q, got %v", p, err)
	}
}

func TestRead_BadRowNamesLine(t *testing.T) {
	p := write(t, "14151,相模原\nonly-one-column\n")
	_, err := Read(p)
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line 2 error, got %v", err)
	}
}

func TestRead_EmptyKeyRejected(t *testing.T) {
	p := write(t, ",相模原\n")
	_, err := Read(p)
	if err == nil || !strings.Contains(err.Error(), "empty key") {
		t.Fatalf("expected empty key error, got %v", err)
	}
}
