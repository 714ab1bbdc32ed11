package ingest

import (
	"fmt"
	"strings"

	"github.com/collectops/agentboard/backend/internal/types"
)

const refSheetName = "REF"

// The REF sheet carries the Partial/Settlement vocabularies at fixed
// 1-indexed row offsets, four contiguous sub-ranges. The offsets come from
// the workbook formulas (B33:B38, B39:B41, B42:B43, B44); nothing in the
// sheet structure marks them, so they are validated here instead of trusted.
const (
	refRowsRequired = 44

	ptpPartialStart = 33
	ptpPartialEnd   = 38
	payPartialStart = 39
	payPartialEnd   = 41
	ptpSettleStart  = 42
	ptpSettleEnd    = 43
	paySettleStart  = 44
	paySettleEnd    = 44
)

// ExtractReferenceRanges pulls the four status lists out of a raw REF sheet.
// Values come from column B when present, column A otherwise. A sheet
// shorter than the expected ranges yields nil ranges and a warning rather
// than a silent misclassification.
func ExtractReferenceRanges(rows [][]string) (*types.ReferenceRanges, []string) {
	if len(rows) < refRowsRequired {
		return nil, []string{fmt.Sprintf(
			"REF sheet has %d rows, expected at least %d; reference ranges ignored",
			len(rows), refRowsRequired)}
	}

	col := 0
	for _, row := range rows {
		if len(row) > 1 {
			col = 1
			break
		}
	}

	ref := &types.ReferenceRanges{
		PTPPartial:        refSlice(rows, col, ptpPartialStart, ptpPartialEnd),
		PaymentPartial:    refSlice(rows, col, payPartialStart, payPartialEnd),
		PTPSettlement:     refSlice(rows, col, ptpSettleStart, ptpSettleEnd),
		PaymentSettlement: refSlice(rows, col, paySettleStart, paySettleEnd),
	}

	var warnings []string
	for _, r := range []struct {
		name string
		list []string
	}{
		{"PTP partial", ref.PTPPartial},
		{"payment partial", ref.PaymentPartial},
		{"PTP settlement", ref.PTPSettlement},
		{"payment settlement", ref.PaymentSettlement},
	} {
		if len(r.list) == 0 {
			warnings = append(warnings, fmt.Sprintf("REF sheet %s range is empty", r.name))
		}
	}
	return ref, warnings
}

// refSlice collects the non-empty, uppercased values of 1-indexed rows
// [start, end] in the given column
func refSlice(rows [][]string, col, start, end int) []string {
	var out []string
	for i := start - 1; i <= end-1 && i < len(rows); i++ {
		row := rows[i]
		c := col
		if c >= len(row) {
			c = 0
		}
		if c >= len(row) {
			continue
		}
		v := strings.ToUpper(strings.TrimSpace(row[c]))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
