package pipeline

import (
	"testing"

	"github.com/collectops/agentboard/backend/internal/types"
)

func TestAccountCategory(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   types.StatusCategory
	}{
		{"rpc member", "POSITIVE CONTACT - DISPUTE", types.CategoryRPC},
		{"rpc lowercase", "positive contact - dispute", types.CategoryRPC},
		{"rpc padded", "  BP - PARTIAL PAYMENT  ", types.CategoryRPC},
		{"positive member", "POSITIVE - ICP ACTIVE", types.CategoryPositive},
		{"negative member", "NEGATIVE - WRONG NUMBER", types.CategoryNegative},
		{"junk is negative", "JUNK - FULLY EXHAUSTED", types.CategoryNegative},
		{"unknown", "SOMETHING ELSE", types.CategoryUnclassified},
		{"empty", "", types.CategoryUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AccountCategory(tt.status); got != tt.want {
				t.Errorf("AccountCategory(%q) = %s, want %s", tt.status, got, tt.want)
			}
		})
	}
}

func TestIsPTPPayment(t *testing.T) {
	ref := &types.ReferenceRanges{
		PTPPartial:     []string{"BP - PARTIAL PAYMENT"},
		PaymentPartial: []string{"PAID - PARTIAL"},
	}

	tests := []struct {
		name   string
		status string
		ref    *types.ReferenceRanges
		want   bool
	}{
		{"ptp prefix", "PTP - NEW PARTIAL PAYMENT", nil, true},
		{"payment prefix", "PAYMENT RECEIVED", nil, true},
		{"lowercase prefix", "ptp - down payment", nil, true},
		{"follow up excluded", "PTP - FOLLOW UP", nil, false},
		{"claim paid excluded", "PAYMENT - CLAIM PAID", nil, false},
		{"fully paid excluded", "PTP CLAIMING FULLY PAID", nil, false},
		{"ref member without prefix", "BP - PARTIAL PAYMENT", ref, true},
		{"ref member needs ranges", "BP - PARTIAL PAYMENT", nil, false},
		{"non-qualifying", "NEGATIVE - WRONG NUMBER", ref, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPTPPayment(tt.status, tt.ref); got != tt.want {
				t.Errorf("IsPTPPayment(%q) = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestRefCategory(t *testing.T) {
	ref := &types.ReferenceRanges{
		PTPPartial:        []string{"PTP - NEW PARTIAL PAYMENT"},
		PaymentPartial:    []string{"PAID - PARTIAL"},
		PTPSettlement:     []string{"PTP - NEW SETTLEMENT INSTALLMENT"},
		PaymentSettlement: []string{"PAID - SETTLEMENT"},
	}

	tests := []struct {
		status string
		want   types.StatusCategory
		wantOK bool
	}{
		{"PTP - NEW PARTIAL PAYMENT", types.CategoryPTPPartial, true},
		{"paid - partial", types.CategoryPaymentPartial, true},
		{"PTP - NEW SETTLEMENT INSTALLMENT", types.CategoryPTPSettlement, true},
		{"PAID - SETTLEMENT", types.CategoryPaymentSettlement, true},
		{"UNLISTED", types.CategoryUnclassified, false},
	}

	for _, tt := range tests {
		got, ok := RefCategory(tt.status, ref)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("RefCategory(%q) = (%s, %v), want (%s, %v)", tt.status, got, ok, tt.want, tt.wantOK)
		}
	}

	if _, ok := RefCategory("PTP - NEW PARTIAL PAYMENT", nil); ok {
		t.Error("expected no category without reference ranges")
	}
}
