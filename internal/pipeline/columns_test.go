package pipeline

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		field   SemanticField
		want    string
		wantOK  bool
	}{
		{
			name:    "remark by beats agent keyword",
			columns: []string{"OFFICIAL AGENT", "REMARK BY", "STATUS"},
			field:   FieldAgent,
			want:    "REMARK BY",
			wantOK:  true,
		},
		{
			name:    "remarkby without space",
			columns: []string{"REMARKBY", "STATUS"},
			field:   FieldAgent,
			want:    "REMARKBY",
			wantOK:  true,
		},
		{
			name:    "agent keyword fallback",
			columns: []string{"AGENT NAME", "STATUS"},
			field:   FieldAgent,
			want:    "AGENT NAME",
			wantOK:  true,
		},
		{
			name:    "mixed case header",
			columns: []string{"Remark By", "Status"},
			field:   FieldAgent,
			want:    "Remark By",
			wantOK:  true,
		},
		{
			name:    "account aliases",
			columns: []string{"DEBIT NUMBER", "STATUS"},
			field:   FieldAccount,
			want:    "DEBIT NUMBER",
			wantOK:  true,
		},
		{
			name:    "timestamp keyword",
			columns: []string{"REMARK TIME", "STATUS"},
			field:   FieldTimestamp,
			want:    "REMARK TIME",
			wantOK:  true,
		},
		{
			name:    "missing field",
			columns: []string{"FOO", "BAR"},
			field:   FieldAgent,
			want:    "",
			wantOK:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(tt.columns, tt.field)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Resolve(%v, %s) = (%q, %v), want (%q, %v)",
					tt.columns, tt.field, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveAmountsOrder(t *testing.T) {
	columns := []string{"ACCOUNT", "PTP AMOUNT", "STATUS", "PAYMENT AMOUNT"}
	got := ResolveAmounts(columns)
	want := []string{"PTP AMOUNT", "PAYMENT AMOUNT"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ResolveAmounts(%v) = %v, want %v", columns, got, want)
	}
}

func TestResolveAmountsNone(t *testing.T) {
	if got := ResolveAmounts([]string{"ACCOUNT", "STATUS"}); len(got) != 0 {
		t.Errorf("expected no amount columns, got %v", got)
	}
}
