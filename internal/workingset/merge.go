package workingset

import "github.com/collectops/agentboard/backend/internal/types"

// applyPatch copies the patch's non-nil fields onto the record. Every field
// assignment is a replacement; nothing here adds to a prior value.
func applyPatch(rec *types.AgentMetricRecord, patch *types.MetricPatch) {
	if patch.TotalWOA != nil {
		rec.TotalWOA = *patch.TotalWOA
	}
	if patch.Positive != nil {
		rec.Positive = *patch.Positive
	}
	if patch.RPC != nil {
		rec.RPC = *patch.RPC
	}
	if patch.Negative != nil {
		rec.Negative = *patch.Negative
	}
	if patch.WOAAfternoon != nil {
		rec.WOAAfternoon = *patch.WOAAfternoon
	}
	if patch.WOAEvening != nil {
		rec.WOAEvening = *patch.WOAEvening
	}
	if patch.TotalPTPCount != nil {
		rec.TotalPTPCount = *patch.TotalPTPCount
	}
	if patch.TotalPaymentCount != nil {
		rec.TotalPaymentCount = *patch.TotalPaymentCount
	}
	if patch.TotalTalkTime != nil {
		rec.TotalTalkTime = *patch.TotalTalkTime
	}
	if patch.NewRPC != nil {
		rec.NewRPC = *patch.NewRPC
	}
	if patch.NewIDPActive != nil {
		rec.NewIDPActive = *patch.NewIDPActive
	}
	if patch.PTPPercentage != nil {
		rec.PTPPercentage = *patch.PTPPercentage
	}
	if patch.GracePercentage != nil {
		rec.GracePercentage = *patch.GracePercentage
	}
	if patch.PTPPartialCount != nil {
		rec.PTPPartialCount = *patch.PTPPartialCount
	}
	if patch.PTPPartialAmount != nil {
		rec.PTPPartialAmount = *patch.PTPPartialAmount
	}
	if patch.PaymentPartialCount != nil {
		rec.PaymentPartialCount = *patch.PaymentPartialCount
	}
	if patch.PaymentPartialAmount != nil {
		rec.PaymentPartialAmount = *patch.PaymentPartialAmount
	}
	if patch.PTPSettlementCount != nil {
		rec.PTPSettlementCount = *patch.PTPSettlementCount
	}
	if patch.PTPSettlementAmount != nil {
		rec.PTPSettlementAmount = *patch.PTPSettlementAmount
	}
	if patch.PaymentSettlementCount != nil {
		rec.PaymentSettlementCount = *patch.PaymentSettlementCount
	}
	if patch.PaymentSettlementAmount != nil {
		rec.PaymentSettlementAmount = *patch.PaymentSettlementAmount
	}
}
