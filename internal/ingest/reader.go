package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/collectops/agentboard/backend/internal/types"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// Upload is one parsed input file: the main data table plus the reference
// ranges when the workbook carried a REF sheet.
type Upload struct {
	Table    *types.Table
	Ref      *types.ReferenceRanges
	Warnings []string
}

// Parse reads an uploaded masterlist file into an Upload. CSV is a single
// table; for workbooks a sheet named REF (case-insensitive) feeds the
// reference ranges and the first other sheet is the data table. Any error
// here is an upload-level failure: the caller reports it and leaves the
// working set untouched.
func Parse(r io.Reader, filename string) (*Upload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(data)
	case ".xlsx":
		return parseXLSX(data)
	case ".xls":
		return parseXLS(data)
	default:
		return nil, errors.New("unsupported file type")
	}
}

func parseCSV(data []byte) (*Upload, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return uploadFromRows(rows, nil)
}

func parseXLSX(data []byte) (*Upload, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var mainSheet, refSheet string
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(strings.TrimSpace(name), refSheetName) {
			if refSheet == "" {
				refSheet = name
			}
			continue
		}
		if mainSheet == "" {
			mainSheet = name
		}
	}
	if mainSheet == "" {
		// Workbook holds only a REF sheet; fall back to the first sheet
		mainSheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(mainSheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", mainSheet, err)
	}

	var refRows [][]string
	if refSheet != "" {
		refRows, err = f.GetRows(refSheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", refSheet, err)
		}
	}
	return uploadFromRows(rows, refRows)
}

// parseXLS handles legacy BIFF workbooks. The xls reader wants a file on
// disk, so the payload goes through a temp file. REF sheets are an xlsx
// convention; legacy exports carry only the data table.
func parseXLS(data []byte) (*Upload, error) {
	tmp, err := os.CreateTemp("", "upload-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	book, err := xls.OpenFile(tmp.Name())
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, errors.New("no sheets found")
	}

	var rows [][]string
	for _, xlsRow := range sheet.GetRows() {
		var rowData []string
		for _, col := range xlsRow.GetCols() {
			rowData = append(rowData, col.GetString())
		}
		rows = append(rows, rowData)
	}
	return uploadFromRows(rows, nil)
}

func uploadFromRows(rows [][]string, refRows [][]string) (*Upload, error) {
	if len(rows) < 2 {
		return nil, errors.New("file must have a header row and at least one data row")
	}
	header := make([]string, len(rows[0]))
	for i, c := range rows[0] {
		header[i] = strings.TrimSpace(c)
	}
	up := &Upload{
		Table: &types.Table{Columns: header, Rows: rows[1:]},
	}
	if refRows != nil {
		ref, warnings := ExtractReferenceRanges(refRows)
		up.Ref = ref
		up.Warnings = append(up.Warnings, warnings...)
	}
	return up, nil
}
