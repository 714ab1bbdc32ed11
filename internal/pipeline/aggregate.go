package pipeline

import (
	"fmt"
	"strings"

	"github.com/collectops/agentboard/backend/internal/roster"
	"github.com/collectops/agentboard/backend/internal/types"
)

// Canonical masterlist metric headers. Uploads missing any of these get the
// column auto-created as 0 (or "0%" for percentage columns) before
// aggregation, so a thin export still yields complete rows.
var masterlistNumericColumns = []string{
	"TOTAL_WOA", "NEGATIVE", "RPC", "POSITIVE",
	"TOTAL_PTP_COUNT", "TOTAL_PAYMENT_COUNT", "TOTAL_TALK_TIME",
	"NEW_RPC", "NEW_IDP_ACTIVE",
}

var masterlistPercentColumns = []string{"PTP_PERCENTAGE", "GRACE_PERCENTAGE"}

// MasterlistStats holds per-agent sums of the masterlist metric columns
type MasterlistStats struct {
	Sums     map[string]float64
	Percents map[string]string
}

// AccountStatusStats holds per-agent unique-account counts by category
type AccountStatusStats struct {
	TotalWOA int
	Positive int
	RPC      int
	Negative int
}

// WOAStats holds per-agent deduplicated touch counts by shift window
type WOAStats struct {
	Afternoon int
	Evening   int
}

// PTPPaymentStats holds the four-cell Partial/Settlement split for one agent
type PTPPaymentStats struct {
	PTPPartialCount         int
	PTPPartialAmount        float64
	PaymentPartialCount     int
	PaymentPartialAmount    float64
	PTPSettlementCount      int
	PTPSettlementAmount     float64
	PaymentSettlementCount  int
	PaymentSettlementAmount float64
}

// AggregateMasterlist sums the canonical metric columns grouped by agent.
// Percentage columns take the first non-empty value per agent instead of
// summing. Rows whose agent code is not in the registry are skipped.
func AggregateMasterlist(table *types.Table) (map[string]*MasterlistStats, []string) {
	if table.Empty() {
		return nil, nil
	}
	agentCol, ok := Resolve(table.Columns, FieldAgent)
	if !ok {
		return nil, []string{"masterlist aggregation skipped: no REMARK BY column"}
	}
	agentIdx := table.ColumnIndex(agentCol)

	numericIdx := make(map[string]int, len(masterlistNumericColumns))
	percentIdx := make(map[string]int, len(masterlistPercentColumns))
	for i, c := range table.Columns {
		cu := normalizeHeader(c)
		for _, m := range masterlistNumericColumns {
			if cu == m {
				numericIdx[m] = i
			}
		}
		for _, p := range masterlistPercentColumns {
			if cu == p {
				percentIdx[p] = i
			}
		}
	}

	stats := make(map[string]*MasterlistStats)
	for i := range table.Rows {
		agent, known := roster.Lookup(table.Cell(i, agentIdx))
		if !known {
			continue
		}
		st := stats[agent.UserCode]
		if st == nil {
			st = &MasterlistStats{
				Sums:     make(map[string]float64, len(masterlistNumericColumns)),
				Percents: make(map[string]string, len(masterlistPercentColumns)),
			}
			stats[agent.UserCode] = st
		}
		for name, idx := range numericIdx {
			st.Sums[name] += Sanitize(table.Cell(i, idx))
		}
		for name, idx := range percentIdx {
			if st.Percents[name] == "" {
				if v := strings.TrimSpace(table.Cell(i, idx)); v != "" {
					st.Percents[name] = v
				}
			}
		}
	}
	// Absent columns contribute zeros / "0%"
	for _, st := range stats {
		for _, m := range masterlistNumericColumns {
			if _, ok := numericIdx[m]; !ok {
				st.Sums[m] = 0
			}
		}
		for _, p := range masterlistPercentColumns {
			if st.Percents[p] == "" {
				st.Percents[p] = "0%"
			}
		}
	}
	return stats, nil
}

// AggregateAccountStatus counts unique accounts per agent per category.
// Positive is additionally gated on a sanitized amount <= 1: a fully
// resolved account with a negligible balance. TotalWOA counts every unique
// account the agent touched regardless of category.
func AggregateAccountStatus(table *types.Table) (map[string]*AccountStatusStats, []string) {
	if table.Empty() {
		return nil, nil
	}
	agentCol, okAgent := Resolve(table.Columns, FieldAgent)
	statusCol, okStatus := Resolve(table.Columns, FieldStatus)
	accountCol, okAccount := Resolve(table.Columns, FieldAccount)
	if !okAgent || !okStatus || !okAccount {
		return nil, []string{"account-status aggregation skipped: agent, status or account column not found"}
	}
	agentIdx := table.ColumnIndex(agentCol)
	statusIdx := table.ColumnIndex(statusCol)
	accountIdx := table.ColumnIndex(accountCol)

	amountIdx := -1
	if amountCol, ok := Resolve(table.Columns, FieldAmount); ok {
		amountIdx = table.ColumnIndex(amountCol)
	}

	type acctSets struct {
		all, positive, rpc, negative map[string]struct{}
	}
	sets := make(map[string]*acctSets)
	for i := range table.Rows {
		agent, known := roster.Lookup(table.Cell(i, agentIdx))
		if !known {
			continue
		}
		account := strings.TrimSpace(table.Cell(i, accountIdx))
		if account == "" {
			continue
		}
		s := sets[agent.UserCode]
		if s == nil {
			s = &acctSets{
				all:      make(map[string]struct{}),
				positive: make(map[string]struct{}),
				rpc:      make(map[string]struct{}),
				negative: make(map[string]struct{}),
			}
			sets[agent.UserCode] = s
		}
		s.all[account] = struct{}{}

		amount := 0.0
		if amountIdx >= 0 {
			amount = Sanitize(table.Cell(i, amountIdx))
		}
		switch AccountCategory(table.Cell(i, statusIdx)) {
		case types.CategoryPositive:
			if amount <= 1 {
				s.positive[account] = struct{}{}
			}
		case types.CategoryRPC:
			s.rpc[account] = struct{}{}
		case types.CategoryNegative:
			s.negative[account] = struct{}{}
		}
	}

	stats := make(map[string]*AccountStatusStats, len(sets))
	for user, s := range sets {
		stats[user] = &AccountStatusStats{
			TotalWOA: len(s.all),
			Positive: len(s.positive),
			RPC:      len(s.rpc),
			Negative: len(s.negative),
		}
	}
	return stats, nil
}

// AggregateWOA deduplicates touches to the latest record per (account,
// agent), then counts per agent how many fall into each shift window.
// A client column, when present, restricts rows to the known portfolios.
func AggregateWOA(table *types.Table) (map[string]*WOAStats, []string) {
	if table.Empty() {
		return nil, nil
	}
	timeCol, okTime := Resolve(table.Columns, FieldTimestamp)
	agentCol, okAgent := Resolve(table.Columns, FieldAgent)
	accountCol, okAccount := Resolve(table.Columns, FieldAccount)
	if !okTime || !okAgent || !okAccount {
		return nil, []string{"WOA aggregation skipped: timestamp, agent or account column not found"}
	}
	timeIdx := table.ColumnIndex(timeCol)
	agentIdx := table.ColumnIndex(agentCol)
	accountIdx := table.ColumnIndex(accountCol)

	clientIdx := -1
	if clientCol, ok := Resolve(table.Columns, FieldClient); ok {
		clientIdx = table.ColumnIndex(clientCol)
	}

	var touches []Touch
	for i := range table.Rows {
		if clientIdx >= 0 {
			tag := types.Client(strings.ToUpper(strings.TrimSpace(table.Cell(i, clientIdx))))
			if !tag.Valid() {
				continue
			}
		}
		agent, known := roster.Lookup(table.Cell(i, agentIdx))
		if !known {
			continue
		}
		account := strings.TrimSpace(table.Cell(i, accountIdx))
		if account == "" {
			continue
		}
		at, ok := ParseTimestamp(strings.TrimSpace(table.Cell(i, timeIdx)))
		if !ok {
			continue
		}
		touches = append(touches, Touch{Account: account, Agent: agent.UserCode, At: at})
	}

	stats := make(map[string]*WOAStats)
	for _, t := range LatestTouches(touches) {
		st := stats[t.Agent]
		if st == nil {
			st = &WOAStats{}
			stats[t.Agent] = st
		}
		switch ClassifyClock(t.At) {
		case types.WindowAfternoon:
			st.Afternoon++
		case types.WindowEvening:
			st.Evening++
		}
	}
	return stats, nil
}

// AggregatePTPPayment sums PTP/Payment amounts and unique-account counts per
// agent, split into the four Partial/Settlement cells. The split comes from
// the reference ranges; without them qualifying rows are recognized (prefix
// match) but the four cells stay zero, matching the source sheets where the
// split formulas reference the REF ranges directly.
func AggregatePTPPayment(table *types.Table, ref *types.ReferenceRanges) (map[string]*PTPPaymentStats, []string) {
	if table.Empty() {
		return nil, nil
	}
	statusCol, okStatus := Resolve(table.Columns, FieldStatus)
	agentCol, okAgent := Resolve(table.Columns, FieldAgent)
	if !okStatus || !okAgent {
		return nil, []string{"PTP/Payment aggregation skipped: status or REMARK BY column not found"}
	}
	statusIdx := table.ColumnIndex(statusCol)
	agentIdx := table.ColumnIndex(agentCol)

	amountCols := ResolveAmounts(table.Columns)
	ptpAmtIdx, payAmtIdx := -1, -1
	if len(amountCols) >= 1 {
		ptpAmtIdx = table.ColumnIndex(amountCols[0])
		payAmtIdx = ptpAmtIdx
	}
	if len(amountCols) >= 2 {
		payAmtIdx = table.ColumnIndex(amountCols[1])
	}

	accountIdx := -1
	if accountCol, ok := Resolve(table.Columns, FieldAccount); ok {
		accountIdx = table.ColumnIndex(accountCol)
	}

	type cellSets struct {
		stats                                        *PTPPaymentStats
		ptpPartial, payPartial, ptpSettle, paySettle map[string]struct{}
	}
	agents := make(map[string]*cellSets)

	for i := range table.Rows {
		status := table.Cell(i, statusIdx)
		if !IsPTPPayment(status, ref) {
			continue
		}
		// Two zero-valued amount columns signal a non-monetary status update
		if ptpAmtIdx >= 0 && payAmtIdx >= 0 && payAmtIdx != ptpAmtIdx {
			if Sanitize(table.Cell(i, ptpAmtIdx)) == 0 && Sanitize(table.Cell(i, payAmtIdx)) == 0 {
				continue
			}
		}
		agent, known := roster.Lookup(table.Cell(i, agentIdx))
		if !known {
			continue
		}
		cs := agents[agent.UserCode]
		if cs == nil {
			cs = &cellSets{
				stats:      &PTPPaymentStats{},
				ptpPartial: make(map[string]struct{}),
				payPartial: make(map[string]struct{}),
				ptpSettle:  make(map[string]struct{}),
				paySettle:  make(map[string]struct{}),
			}
			agents[agent.UserCode] = cs
		}

		category, ok := RefCategory(status, ref)
		if !ok {
			continue
		}
		account := ""
		if accountIdx >= 0 {
			account = strings.TrimSpace(table.Cell(i, accountIdx))
		}
		switch category {
		case types.CategoryPTPPartial:
			if ptpAmtIdx >= 0 {
				cs.stats.PTPPartialAmount += Sanitize(table.Cell(i, ptpAmtIdx))
			}
			cs.stats.PTPPartialCount = bumpCell(cs.ptpPartial, account, cs.stats.PTPPartialCount)
		case types.CategoryPaymentPartial:
			if payAmtIdx >= 0 {
				cs.stats.PaymentPartialAmount += Sanitize(table.Cell(i, payAmtIdx))
			}
			cs.stats.PaymentPartialCount = bumpCell(cs.payPartial, account, cs.stats.PaymentPartialCount)
		case types.CategoryPTPSettlement:
			if ptpAmtIdx >= 0 {
				cs.stats.PTPSettlementAmount += Sanitize(table.Cell(i, ptpAmtIdx))
			}
			cs.stats.PTPSettlementCount = bumpCell(cs.ptpSettle, account, cs.stats.PTPSettlementCount)
		case types.CategoryPaymentSettlement:
			if payAmtIdx >= 0 {
				cs.stats.PaymentSettlementAmount += Sanitize(table.Cell(i, payAmtIdx))
			}
			cs.stats.PaymentSettlementCount = bumpCell(cs.paySettle, account, cs.stats.PaymentSettlementCount)
		}
	}

	stats := make(map[string]*PTPPaymentStats, len(agents))
	for user, cs := range agents {
		stats[user] = cs.stats
	}
	return stats, nil
}

// bumpCell counts unique accounts when an account column exists, otherwise
// plain matching rows
func bumpCell(set map[string]struct{}, account string, rowCount int) int {
	if account == "" {
		return rowCount + 1
	}
	set[account] = struct{}{}
	return len(set)
}

// CountUnknownAgents counts rows whose agent code has no registry entry, so
// the silent drop surfaces as an explicit number instead of a side effect.
func CountUnknownAgents(table *types.Table) int {
	if table.Empty() {
		return 0
	}
	agentCol, ok := Resolve(table.Columns, FieldAgent)
	if !ok {
		return 0
	}
	agentIdx := table.ColumnIndex(agentCol)
	n := 0
	for i := range table.Rows {
		if raw := strings.TrimSpace(table.Cell(i, agentIdx)); raw != "" && !roster.Known(raw) {
			n++
		}
	}
	return n
}

// excludedNotice formats the unknown-agent drop count for the upload notices
func excludedNotice(n int) string {
	return fmt.Sprintf("%d rows excluded: unknown agent", n)
}
