package workingset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/collectops/agentboard/backend/internal/types"
)

// exportHeader is the canonical column order of grid exports. It mirrors the
// working-set sheet layout the team shares with the client.
var exportHeader = []string{
	"AGENT_NAME",
	"AGENT_USER",
	"TOTAL_WOA (5PM)",
	"TOTAL_WOA (9PM)",
	"TOTAL_WOA",
	"NEGATIVE",
	"RPC",
	"POSITIVE",
	"TOTAL_PTP_COUNT",
	"TOTAL_PTP_AMOUNT",
	"TOTAL_SETTLEMENT_COUNT",
	"TOTAL_SETTLEMENT_AMOUNT",
	"TOTAL_PAYMENT_COUNT",
	"TOTAL_TALK_TIME",
	"NEW_RPC",
	"NEW_IDP_ACTIVE",
	"PTP_PERCENTAGE",
	"GRACE_PERCENTAGE",
	"START_DATE",
}

// ExportCSV renders the client's working set as a CSV document in the
// canonical column order. System and administrative rows are excluded.
func (s *Store) ExportCSV(client types.Client, at time.Time, filter DateFilter) ([]byte, error) {
	records := s.Records(client, at, filter)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("write export header: %w", err)
	}
	for i := range records {
		rec := &records[i]
		if _, skip := exportExcluded[rec.AgentUser]; skip {
			continue
		}
		row := []string{
			rec.AgentName,
			rec.AgentUser,
			strconv.Itoa(rec.WOAAfternoon),
			strconv.Itoa(rec.WOAEvening),
			strconv.Itoa(rec.TotalWOA),
			strconv.Itoa(rec.Negative),
			strconv.Itoa(rec.RPC),
			strconv.Itoa(rec.Positive),
			strconv.Itoa(rec.PartialCount()),
			formatAmount(rec.PartialAmount()),
			strconv.Itoa(rec.SettlementCount()),
			formatAmount(rec.SettlementAmount()),
			strconv.Itoa(rec.TotalPaymentCount),
			formatAmount(rec.TotalTalkTime),
			strconv.Itoa(rec.NewRPC),
			strconv.Itoa(rec.NewIDPActive),
			rec.PTPPercentage,
			rec.GracePercentage,
			rec.PeriodStart.Format("2006-01-02"),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write export row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
