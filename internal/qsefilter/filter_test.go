package qsefilter

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracking.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestLoadCSV(t *testing.T) {
	path := writeTempCSV(t, "SHORT NAME,LONG NAME\nQABCD,Alpha Trading\nQXYZ1,Xyz Power\n , \nQABCD,duplicate row\n")

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Len() != 2 {
		t.Errorf("Len() = %d, want 2", f.Len())
	}
	if got := f.Names(); !reflect.DeepEqual(got, []string{"QABCD", "QXYZ1"}) {
		t.Errorf("Names() = %v", got)
	}
	if !f.Match("QABCD") || f.Match("QOTHER") {
		t.Error("Match behaves incorrectly")
	}
}

func TestLoadCSVMissingColumn(t *testing.T) {
	path := writeTempCSV(t, "NAME,CITY\nFoo,Austin\n")

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (unrestricted)", f.Len())
	}
	if !f.Match("ANYTHING") {
		t.Error("empty filter must match everything")
	}
}

func TestLoadMissingFile(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Len() != 0 || !f.Match("QANY") {
		t.Error("missing file must yield an unrestricted filter")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	f, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !f.Match("QANY") {
		t.Error("empty path must yield an unrestricted filter")
	}
}

// TestLoadXLSX: a workbook tracking list must produce the same set as the
// equivalent CSV.
func TestLoadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracking.xlsx")

	wb := excelize.NewFile()
	sheet := wb.GetSheetName(0)
	rows := [][]any{
		{"SHORT NAME", "LONG NAME"},
		{"QABCD", "Alpha Trading"},
		{"QXYZ1", "Xyz Power"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := wb.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	wb.Close()

	xf, err := Load(path)
	if err != nil {
		t.Fatalf("Load xlsx failed: %v", err)
	}

	cf, err := Load(writeTempCSV(t, "SHORT NAME,LONG NAME\nQABCD,Alpha Trading\nQXYZ1,Xyz Power\n"))
	if err != nil {
		t.Fatalf("Load csv failed: %v", err)
	}

	if !reflect.DeepEqual(xf.Names(), cf.Names()) {
		t.Errorf("xlsx names %v != csv names %v", xf.Names(), cf.Names())
	}
}

func TestQueryParam(t *testing.T) {
	f := New("QXYZ1", "QABCD", "NOTQSE")
	if got := f.QueryParam(); got != "QABCD,QXYZ1" {
		t.Errorf("QueryParam() = %q, want %q", got, "QABCD,QXYZ1")
	}
}
