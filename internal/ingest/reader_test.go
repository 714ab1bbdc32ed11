package ingest

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestParseCSV(t *testing.T) {
	csvData := "REMARK BY,STATUS,ACCOUNT\nJCAYNO,NEGATIVE - WRONG NUMBER,A1\nGCUENCA,POSITIVE - ICP ACTIVE,A2\n"

	up, err := Parse(strings.NewReader(csvData), "masterlist.csv")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := up.Table.Columns; len(got) != 3 || got[0] != "REMARK BY" {
		t.Errorf("columns = %v", got)
	}
	if len(up.Table.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(up.Table.Rows))
	}
	if up.Ref != nil {
		t.Error("CSV upload should carry no reference ranges")
	}
}

func TestParseCSVRaggedRows(t *testing.T) {
	csvData := "REMARK BY,STATUS,ACCOUNT\nJCAYNO,X\nGCUENCA,Y,A2,extra\n"

	up, err := Parse(strings.NewReader(csvData), "ragged.csv")
	if err != nil {
		t.Fatalf("ragged CSV should parse: %v", err)
	}
	if len(up.Table.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(up.Table.Rows))
	}
	if got := up.Table.Cell(0, 2); got != "" {
		t.Errorf("missing cell should read empty, got %q", got)
	}
}

func TestParseXLSXWithRefSheet(t *testing.T) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", "DATA")
	f.SetSheetRow("DATA", "A1", &[]interface{}{"REMARK BY", "STATUS"})
	f.SetSheetRow("DATA", "A2", &[]interface{}{"JCAYNO", "PTP - NEW PARTIAL PAYMENT"})

	f.NewSheet("REF")
	for i := 1; i <= 44; i++ {
		f.SetCellValue("REF", fmt.Sprintf("B%d", i), "")
	}
	f.SetCellValue("REF", "B33", "PTP - NEW PARTIAL PAYMENT")
	f.SetCellValue("REF", "B39", "PAID - PARTIAL")
	f.SetCellValue("REF", "B42", "PTP - NEW SETTLEMENT INSTALLMENT")
	f.SetCellValue("REF", "B44", "PAID - SETTLEMENT")

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}

	up, err := Parse(&buf, "upload.xlsx")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(up.Table.Columns) != 2 || up.Table.Columns[0] != "REMARK BY" {
		t.Errorf("columns = %v", up.Table.Columns)
	}
	if len(up.Table.Rows) != 1 {
		t.Errorf("rows = %d, want 1", len(up.Table.Rows))
	}
	if up.Ref == nil {
		t.Fatal("expected reference ranges from REF sheet")
	}
	if len(up.Ref.PTPPartial) != 1 || up.Ref.PTPPartial[0] != "PTP - NEW PARTIAL PAYMENT" {
		t.Errorf("PTPPartial = %v", up.Ref.PTPPartial)
	}
}

func TestParseXLSXWithoutRefSheet(t *testing.T) {
	f := excelize.NewFile()
	f.SetSheetRow("Sheet1", "A1", &[]interface{}{"REMARK BY", "STATUS"})
	f.SetSheetRow("Sheet1", "A2", &[]interface{}{"JCAYNO", "X"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("failed to build workbook: %v", err)
	}

	up, err := Parse(&buf, "plain.xlsx")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if up.Ref != nil {
		t.Error("expected no reference ranges without a REF sheet")
	}
}

func TestParseUnsupportedExtension(t *testing.T) {
	if _, err := Parse(strings.NewReader("data"), "notes.txt"); err == nil {
		t.Error("expected error for unsupported file type")
	}
}

func TestParseHeaderOnly(t *testing.T) {
	if _, err := Parse(strings.NewReader("REMARK BY,STATUS\n"), "empty.csv"); err == nil {
		t.Error("expected error for a file without data rows")
	}
}
