package types

import "time"

// Client identifies which bank portfolio a record or working set belongs to.
type Client string

const (
	ClientENBD Client = "ENBD"
	ClientEIB  Client = "EIB"
)

// AllClients returns all defined clients
var AllClients = []Client{ClientENBD, ClientEIB}

// Valid reports whether the client tag is one of the known portfolios
func (c Client) Valid() bool {
	return c == ClientENBD || c == ClientEIB
}

// StatusCategory is the classification bucket for a raw status string
type StatusCategory string

const (
	CategoryRPC               StatusCategory = "rpc"
	CategoryPositive          StatusCategory = "positive"
	CategoryNegative          StatusCategory = "negative"
	CategoryPTPPartial        StatusCategory = "ptp_partial"
	CategoryPTPSettlement     StatusCategory = "ptp_settlement"
	CategoryPaymentPartial    StatusCategory = "payment_partial"
	CategoryPaymentSettlement StatusCategory = "payment_settlement"
	CategoryUnclassified      StatusCategory = "unclassified"
)

// ShiftWindow is the time-of-day bucket for a work-on-account touch
type ShiftWindow string

const (
	// WindowAfternoon covers 12:00:00 through 17:00:00 inclusive
	WindowAfternoon ShiftWindow = "afternoon"
	// WindowEvening covers 17:00:01 through 23:59:59
	WindowEvening ShiftWindow = "evening"
	// WindowNone marks timestamps outside both shift windows
	WindowNone ShiftWindow = "none"
)

// Table is one uploaded data sheet: the header row plus raw string cells.
// Rows may be ragged; missing cells read as empty strings.
type Table struct {
	Columns []string
	Rows    [][]string
}

// ColumnIndex returns the position of the named column, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Cell returns the raw cell value at (row, col), empty when out of range
func (t *Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 {
		return ""
	}
	r := t.Rows[row]
	if col >= len(r) {
		return ""
	}
	return r[col]
}

// Empty reports whether the table has no data rows
func (t *Table) Empty() bool {
	return t == nil || len(t.Rows) == 0
}

// ReferenceRanges holds the PTP/Payment membership lists extracted from a
// REF sheet. Valid for a single upload only; a nil value means no override.
type ReferenceRanges struct {
	PTPPartial        []string
	PaymentPartial    []string
	PTPSettlement     []string
	PaymentSettlement []string
}

// Empty reports whether no list carries any entries
func (r *ReferenceRanges) Empty() bool {
	if r == nil {
		return true
	}
	return len(r.PTPPartial) == 0 && len(r.PaymentPartial) == 0 &&
		len(r.PTPSettlement) == 0 && len(r.PaymentSettlement) == 0
}

// AgentMetricRecord is the canonical per-agent, per-period aggregate held in
// the working set. Percentage fields are display strings ("0%") because the
// source sheets carry them pre-formatted and summing them is meaningless.
type AgentMetricRecord struct {
	AgentUser string `json:"agentUser"`
	AgentName string `json:"agentName"`

	TotalWOA int `json:"totalWoa"`
	Positive int `json:"positive"`
	RPC      int `json:"rpc"`
	Negative int `json:"negative"`

	WOAAfternoon int `json:"woaAfternoon"`
	WOAEvening   int `json:"woaEvening"`

	TotalPTPCount     int     `json:"totalPtpCount"`
	TotalPaymentCount int     `json:"totalPaymentCount"`
	TotalTalkTime     float64 `json:"totalTalkTime"`
	NewRPC            int     `json:"newRpc"`
	NewIDPActive      int     `json:"newIdpActive"`

	PTPPercentage   string `json:"ptpPercentage"`
	GracePercentage string `json:"gracePercentage"`

	PTPPartialCount         int     `json:"ptpPartialCount"`
	PTPPartialAmount        float64 `json:"ptpPartialAmount"`
	PaymentPartialCount     int     `json:"paymentPartialCount"`
	PaymentPartialAmount    float64 `json:"paymentPartialAmount"`
	PTPSettlementCount      int     `json:"ptpSettlementCount"`
	PTPSettlementAmount     float64 `json:"ptpSettlementAmount"`
	PaymentSettlementCount  int     `json:"paymentSettlementCount"`
	PaymentSettlementAmount float64 `json:"paymentSettlementAmount"`

	PeriodStart time.Time `json:"periodStart"`
}

// PartialAmount returns the combined PTP + Payment partial amount.
// Derived at read time, never stored.
func (r *AgentMetricRecord) PartialAmount() float64 {
	return r.PTPPartialAmount + r.PaymentPartialAmount
}

// SettlementAmount returns the combined PTP + Payment settlement amount
func (r *AgentMetricRecord) SettlementAmount() float64 {
	return r.PTPSettlementAmount + r.PaymentSettlementAmount
}

// PartialCount returns the combined PTP + Payment partial account count
func (r *AgentMetricRecord) PartialCount() int {
	return r.PTPPartialCount + r.PaymentPartialCount
}

// SettlementCount returns the combined PTP + Payment settlement account count
func (r *AgentMetricRecord) SettlementCount() int {
	return r.PTPSettlementCount + r.PaymentSettlementCount
}

// MetricPatch carries the metric fields one upload actually produced for one
// agent. Nil pointers mark fields the upload did not touch; the merge engine
// applies only non-nil fields so prior values survive partial uploads.
type MetricPatch struct {
	AgentUser string `json:"agentUser"`
	AgentName string `json:"agentName,omitempty"`

	TotalWOA *int `json:"totalWoa,omitempty"`
	Positive *int `json:"positive,omitempty"`
	RPC      *int `json:"rpc,omitempty"`
	Negative *int `json:"negative,omitempty"`

	WOAAfternoon *int `json:"woaAfternoon,omitempty"`
	WOAEvening   *int `json:"woaEvening,omitempty"`

	TotalPTPCount     *int     `json:"totalPtpCount,omitempty"`
	TotalPaymentCount *int     `json:"totalPaymentCount,omitempty"`
	TotalTalkTime     *float64 `json:"totalTalkTime,omitempty"`
	NewRPC            *int     `json:"newRpc,omitempty"`
	NewIDPActive      *int     `json:"newIdpActive,omitempty"`

	PTPPercentage   *string `json:"ptpPercentage,omitempty"`
	GracePercentage *string `json:"gracePercentage,omitempty"`

	PTPPartialCount         *int     `json:"ptpPartialCount,omitempty"`
	PTPPartialAmount        *float64 `json:"ptpPartialAmount,omitempty"`
	PaymentPartialCount     *int     `json:"paymentPartialCount,omitempty"`
	PaymentPartialAmount    *float64 `json:"paymentPartialAmount,omitempty"`
	PTPSettlementCount      *int     `json:"ptpSettlementCount,omitempty"`
	PTPSettlementAmount     *float64 `json:"ptpSettlementAmount,omitempty"`
	PaymentSettlementCount  *int     `json:"paymentSettlementCount,omitempty"`
	PaymentSettlementAmount *float64 `json:"paymentSettlementAmount,omitempty"`
}

// UploadResult is the outcome of one full pipeline pass over an upload.
// Patches hold one entry per known agent seen in the file; Notices carry the
// informational conditions absorbed along the way (missing columns, excluded
// rows). An upload that resolves no required columns still yields a valid,
// empty result.
type UploadResult struct {
	Client      Client        `json:"client"`
	PeriodStart time.Time     `json:"periodStart"`
	Patches     []MetricPatch `json:"-"`
	Notices     []string      `json:"notices"`

	RowsTotal        int  `json:"rowsTotal"`
	RowsUnknownAgent int  `json:"rowsUnknownAgent"`
	AgentsAggregated int  `json:"agentsAggregated"`
	RefRangesApplied bool `json:"refRangesApplied"`
}
