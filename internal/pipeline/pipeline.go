package pipeline

import (
	"sort"
	"time"

	"github.com/collectops/agentboard/backend/internal/metrics"
	"github.com/collectops/agentboard/backend/internal/types"
	"github.com/rs/zerolog"
)

// Runner executes the full normalization and aggregation pass over one
// uploaded table. It owns no state between runs; the working set is updated
// separately, after the caller confirms the upload.
type Runner struct {
	logger zerolog.Logger
}

// NewRunner creates a pipeline runner
func NewRunner(logger zerolog.Logger) *Runner {
	return &Runner{logger: logger.With().Str("component", "pipeline").Logger()}
}

// Run feeds the table through all four aggregators and folds their outputs
// into one MetricPatch per known agent. Per-row and per-column problems are
// absorbed as notices; only the caller's file-level parsing can fail an
// upload.
func (r *Runner) Run(table *types.Table, ref *types.ReferenceRanges, client types.Client, periodStart time.Time) *types.UploadResult {
	result := &types.UploadResult{
		Client:           client,
		PeriodStart:      periodStart,
		RefRangesApplied: !ref.Empty(),
	}
	if table != nil {
		result.RowsTotal = len(table.Rows)
	}

	master, notices := AggregateMasterlist(table)
	result.Notices = append(result.Notices, notices...)

	accounts, notices := AggregateAccountStatus(table)
	result.Notices = append(result.Notices, notices...)

	woa, notices := AggregateWOA(table)
	result.Notices = append(result.Notices, notices...)

	ptp, notices := AggregatePTPPayment(table, ref)
	result.Notices = append(result.Notices, notices...)

	if n := CountUnknownAgents(table); n > 0 {
		result.RowsUnknownAgent = n
		result.Notices = append(result.Notices, excludedNotice(n))
		metrics.Get().RecordRowsExcluded(int64(n))
	}

	for _, user := range unionAgents(master, accounts, woa, ptp) {
		patch := types.MetricPatch{AgentUser: user}
		if m := master[user]; m != nil {
			applyMasterlist(&patch, m)
		}
		if a := accounts[user]; a != nil {
			patch.TotalWOA = intPtr(a.TotalWOA)
			patch.Positive = intPtr(a.Positive)
			patch.RPC = intPtr(a.RPC)
			patch.Negative = intPtr(a.Negative)
		}
		if w := woa[user]; w != nil {
			patch.WOAAfternoon = intPtr(w.Afternoon)
			patch.WOAEvening = intPtr(w.Evening)
		}
		if p := ptp[user]; p != nil {
			patch.PTPPartialCount = intPtr(p.PTPPartialCount)
			patch.PTPPartialAmount = floatPtr(p.PTPPartialAmount)
			patch.PaymentPartialCount = intPtr(p.PaymentPartialCount)
			patch.PaymentPartialAmount = floatPtr(p.PaymentPartialAmount)
			patch.PTPSettlementCount = intPtr(p.PTPSettlementCount)
			patch.PTPSettlementAmount = floatPtr(p.PTPSettlementAmount)
			patch.PaymentSettlementCount = intPtr(p.PaymentSettlementCount)
			patch.PaymentSettlementAmount = floatPtr(p.PaymentSettlementAmount)
		}
		result.Patches = append(result.Patches, patch)
	}
	result.AgentsAggregated = len(result.Patches)

	r.logger.Info().
		Str("client", string(client)).
		Int("rows", result.RowsTotal).
		Int("agents", result.AgentsAggregated).
		Int("excluded_unknown_agent", result.RowsUnknownAgent).
		Bool("ref_ranges", result.RefRangesApplied).
		Msg("upload aggregated")

	return result
}

// applyMasterlist copies the masterlist sums into the patch. The
// account-status aggregator overrides the four status counters afterwards
// when it produced data, mirroring how the summed placeholders in the source
// sheet give way to the unique-account formulas.
func applyMasterlist(patch *types.MetricPatch, m *MasterlistStats) {
	patch.TotalWOA = intPtr(int(m.Sums["TOTAL_WOA"]))
	patch.Negative = intPtr(int(m.Sums["NEGATIVE"]))
	patch.RPC = intPtr(int(m.Sums["RPC"]))
	patch.Positive = intPtr(int(m.Sums["POSITIVE"]))
	patch.TotalPTPCount = intPtr(int(m.Sums["TOTAL_PTP_COUNT"]))
	patch.TotalPaymentCount = intPtr(int(m.Sums["TOTAL_PAYMENT_COUNT"]))
	patch.TotalTalkTime = floatPtr(m.Sums["TOTAL_TALK_TIME"])
	patch.NewRPC = intPtr(int(m.Sums["NEW_RPC"]))
	patch.NewIDPActive = intPtr(int(m.Sums["NEW_IDP_ACTIVE"]))
	patch.PTPPercentage = strPtr(m.Percents["PTP_PERCENTAGE"])
	patch.GracePercentage = strPtr(m.Percents["GRACE_PERCENTAGE"])
}

func unionAgents(master map[string]*MasterlistStats, accounts map[string]*AccountStatusStats, woa map[string]*WOAStats, ptp map[string]*PTPPaymentStats) []string {
	set := make(map[string]struct{})
	for k := range master {
		set[k] = struct{}{}
	}
	for k := range accounts {
		set[k] = struct{}{}
	}
	for k := range woa {
		set[k] = struct{}{}
	}
	for k := range ptp {
		set[k] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
