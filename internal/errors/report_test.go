package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapAndAsReport(t *testing.T) {
	rep := TypeMismatch("Nat", "Atom")
	err := WrapReport(rep)

	got, ok := AsReport(err)
	if !ok {
		t.Fatalf("AsReport() did not find a report in %v", err)
	}
	if got.Code != CHK005 {
		t.Errorf("Code = %s, want %s", got.Code, CHK005)
	}
	if !strings.Contains(err.Error(), "CHK005") {
		t.Errorf("Error() = %q, want it to mention the code", err.Error())
	}
}

func TestAsReportMissesPlainErrors(t *testing.T) {
	_, ok := AsReport(errors.New("boom"))
	if ok {
		t.Errorf("AsReport() should not find a report in a plain error")
	}
}

func TestReportToJSON(t *testing.T) {
	rep := NonExhaustiveMatch([]string{"false"})
	js, err := rep.ToJSON(true)
	if err != nil {
		t.Fatalf("ToJSON() error: %v", err)
	}
	for _, want := range []string{`"schema"`, `"code":"MAT002"`, `"phase":"match"`} {
		if !strings.Contains(js, want) {
			t.Errorf("ToJSON() = %s, want it to contain %s", js, want)
		}
	}
}
