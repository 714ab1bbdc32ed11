package pipeline

import "strings"

// SemanticField names the logical columns the pipeline needs to locate in an
// uploaded sheet, whatever the file happens to call them.
type SemanticField string

const (
	FieldAgent     SemanticField = "agent"
	FieldStatus    SemanticField = "status"
	FieldAccount   SemanticField = "account"
	FieldAmount    SemanticField = "amount"
	FieldTimestamp SemanticField = "timestamp"
	FieldClient    SemanticField = "client"
)

// fieldSpec drives resolution: exact (normalized) aliases win over substring
// keywords, so "REMARK BY" beats any column merely containing "AGENT".
type fieldSpec struct {
	aliases  []string
	keywords []string
}

var fieldSpecs = map[SemanticField]fieldSpec{
	FieldAgent: {
		aliases:  []string{"REMARK BY", "REMARKBY"},
		keywords: []string{"AGENT"},
	},
	FieldStatus: {
		keywords: []string{"STATUS"},
	},
	FieldAccount: {
		aliases:  []string{"ACCOUNT", "DEBIT NUMBER", "DEBIT NO", "ACCT NO", "ACCOUNT NO."},
		keywords: []string{"ACCT", "ACCOUNT"},
	},
	FieldAmount: {
		keywords: []string{"PTP AMOUNT", "AMOUNT", "AMT", "PAYMENT"},
	},
	FieldTimestamp: {
		keywords: []string{"TIMESTAMP", "TIME"},
	},
	FieldClient: {
		keywords: []string{"CLIENT"},
	},
}

func normalizeHeader(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

// Resolve maps a semantic field to the best-matching actual column name.
// The second return is false when no column qualifies; callers treat that as
// "this aggregation yields an empty result", never as an upload failure.
func Resolve(columns []string, field SemanticField) (string, bool) {
	spec, ok := fieldSpecs[field]
	if !ok {
		return "", false
	}
	for _, alias := range spec.aliases {
		for _, c := range columns {
			if normalizeHeader(c) == alias {
				return c, true
			}
		}
	}
	for _, c := range columns {
		cu := normalizeHeader(c)
		for _, kw := range spec.keywords {
			if strings.Contains(cu, kw) {
				return c, true
			}
		}
	}
	return "", false
}

// ResolveAmounts returns every amount-bearing column in file column order.
// When an upload carries two, the first is the PTP amount and the second the
// Payment amount; that positional convention comes from the source sheets.
func ResolveAmounts(columns []string) []string {
	var out []string
	for _, c := range columns {
		cu := normalizeHeader(c)
		if strings.Contains(cu, "PTP AMOUNT") ||
			strings.Contains(cu, "AMT") ||
			strings.Contains(cu, "PAYMENT") {
			out = append(out, c)
		}
	}
	return out
}
