package pipeline

import (
	"strings"

	"github.com/collectops/agentboard/backend/internal/types"
)

// Static status vocabularies from the client reference sheet. Membership is
// tested on uppercased, trimmed status text.
var statusRPC = []string{
	"POSITIVE CONTACT - EMAIL RESPONSIVE",
	"POSITIVE CONTACT - RETURNED IN PH_JOBLESS",
	"POSITIVE CONTACT - CLAIMING FULLY PAID",
	"POSITIVE CONTACT - TFIP",
	"POSITIVE CONTACT - UNDER MEDICATION",
	"POSITIVE CONTACT - NO INTENTION OF PAYING",
	"POSITIVE CONTACT - DISPUTE",
	"POSITIVE CONTACT - REQUEST SPP OTP",
	"POSITIVE CONTACT - REQUEST SPP IN INSALLMENT",
	"POSITIVE CONTACT - REQUEST PARTIAL PAYMENT",
	"POSITIVE CONTACT - REGISTERED NUMBER",
	"POSITIVE CONTACT - UNREGISTERED NUMBER",
	"POSITIVE CONTACT - REGISTERED EMAIL",
	"POSITIVE CONTACT - UNREGISTERED EMAIL",
	"BP - SETTLEMENT_INSTALLMENT",
	"BP - PARTIAL PAYMENT",
	"BP - ONE TIME PAYMENT",
	"BP - DOWN_PAYMENT",
	"BP - FOLLOW UP",
	"PTP - FOLLOW UP",
	"POSITIVE CONTACT - NEW RPC",
}

var statusPositive = []string{
	"POSITIVE - SKIP_OVER STAY",
	"POSITIVE - RESPONSIVE VIA DEMAND LETTER",
	"POSITIVE - EMPLOYER POSITIVE",
	"POSITIVE - OTHER SMEDIA POSITIVE",
	"POSITIVE - ICP ACTIVE",
	"POSITIVE - MOHRE ACTIVE",
	"POSITIVE - FAILED PID VERIFICATION",
	"POSITIVE - EMPLOYMENT NO LONGER CONNECTED",
	"POSITIVE - REGISTERED NUMBER",
	"POSITIVE - UNREGISTERED NUMBER",
	"POSITIVE - REGISTERED EMAIL",
	"POSITIVE - UNREGISTERED EMAIL",
	"POSITIVE - NEW ACTIVE VISA",
	"PTP - NEW PARTIAL PAYMENT",
	"PTP - NEW ONE TIME PAYMENT",
	"PTP - NEW DOWN PAYMENT",
	"PTP - NEW SETTLEMENT INSTALLMENT",
}

var statusNegative = []string{
	"NEGATIVE - SENT EMPLOYEE VERIFICATION",
	"NEGATIVE - NO SMEDIA ACCOUNTS",
	"NEGATIVE - NO EMPLOYER RECORD",
	"NEGATIVE - WRONG NUMBER",
	"NEGATIVE - SENT DEMAND LETTER",
	"NEGATIVE - PROMO LETTER SENT",
	"NEGATIVE - CANCELLED VISA",
	"NEGATIVE - UNREGISTERED NUMBER",
	"NEGATIVE - REGISTERED NUMBER",
	"NEGATIVE - DEMAND LETTER",
	"NEGATIVE - UNREGISTERED EMAIL",
	"NEGATIVE - REGISTERED EMAIL",
	"NEGATIVE - EMPLOYMENT NO LONGER CONNECTED",
	"JUNK - FULLY EXHAUSTED",
	"DO NOT CALL - PENDING COMPLAINT",
	"DO NOT CALL - DECEASED",
	"RETURNS - PULLOUT",
	"RETURNS - FULLYPAID",
}

// Keywords that disqualify a status from PTP/Payment classification even when
// the prefix matches: these mark follow-ups and already-settled accounts.
var ptpExcludeKeywords = []string{"FOLLOW UP", "CLAIM PAID", "FULLY PAID"}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, s := range list {
		m[strings.ToUpper(strings.TrimSpace(s))] = struct{}{}
	}
	return m
}

var (
	rpcSet      = toSet(statusRPC)
	positiveSet = toSet(statusPositive)
	negativeSet = toSet(statusNegative)
)

// NormalizeStatus uppercases and trims raw status text
func NormalizeStatus(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// AccountCategory classifies a status string for account-status counting.
// The Positive amount gate (sanitized amount <= 1) lives in the aggregator,
// not here: the same status text classifies identically regardless of amount.
func AccountCategory(raw string) types.StatusCategory {
	s := NormalizeStatus(raw)
	if _, ok := rpcSet[s]; ok {
		return types.CategoryRPC
	}
	if _, ok := positiveSet[s]; ok {
		return types.CategoryPositive
	}
	if _, ok := negativeSet[s]; ok {
		return types.CategoryNegative
	}
	return types.CategoryUnclassified
}

// IsPTPPayment reports whether a status qualifies for PTP/Payment
// aggregation: a PTP/PAYMENT prefix or membership in the reference ranges
// (unioned, not exclusive), minus the exclusion keywords. The both-amounts-
// zero exclusion is a row-level condition applied by the aggregator.
func IsPTPPayment(raw string, ref *types.ReferenceRanges) bool {
	s := NormalizeStatus(raw)
	for _, kw := range ptpExcludeKeywords {
		if strings.Contains(s, kw) {
			return false
		}
	}
	if strings.HasPrefix(s, "PTP") || strings.HasPrefix(s, "PAYMENT") {
		return true
	}
	if !ref.Empty() {
		if _, ok := RefCategory(raw, ref); ok {
			return true
		}
	}
	return false
}

// RefCategory resolves a status against the four reference-range lists.
// Returns false when no reference ranges are loaded or nothing matches;
// without ranges the Partial/Settlement split cannot be determined.
func RefCategory(raw string, ref *types.ReferenceRanges) (types.StatusCategory, bool) {
	if ref.Empty() {
		return types.CategoryUnclassified, false
	}
	s := NormalizeStatus(raw)
	if containsStatus(ref.PTPPartial, s) {
		return types.CategoryPTPPartial, true
	}
	if containsStatus(ref.PaymentPartial, s) {
		return types.CategoryPaymentPartial, true
	}
	if containsStatus(ref.PTPSettlement, s) {
		return types.CategoryPTPSettlement, true
	}
	if containsStatus(ref.PaymentSettlement, s) {
		return types.CategoryPaymentSettlement, true
	}
	return types.CategoryUnclassified, false
}

func containsStatus(list []string, normalized string) bool {
	for _, s := range list {
		if strings.ToUpper(strings.TrimSpace(s)) == normalized {
			return true
		}
	}
	return false
}
