package sheets

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/collectops/agentboard/backend/internal/pipeline"
	"github.com/collectops/agentboard/backend/internal/types"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Kind names one of the two manually maintained side sheets
type Kind string

const (
	KindPayment Kind = "payment"
	KindPTP     Kind = "ptp"
)

// Valid reports whether the kind is one of the known sheets
func (k Kind) Valid() bool {
	return k == KindPayment || k == KindPTP
}

// Fixed column layouts of the two side sheets. These match the shared
// workbook tabs, so exports line up with what the team already uses.
var paymentColumns = []string{
	"AGREEMENT NO",
	"AGREEMENT ID",
	"CIF NO",
	"RELATIONSHIP NO",
	"TOUCHED POINTS",
	"OFFICIAL AGENT",
	"CM NAME",
	"PRODUCTS CAT",
	"VINTAGE",
	"PAYMENT STATUS",
	"DATE",
	"POSTED AED",
	"POSTED PH",
	"CF %",
	"CF AMT",
	"MONTH",
}

var ptpColumns = []string{
	"AGREEMENT NO",
	"AGREEMENT ID",
	"CUSTOMER NO",
	"RELATIONSHIP NO",
	"AGENT",
	"CM NAME",
	"PRODUCTS CAT",
	"VINTAGE",
	"STATUS",
	"DATE",
	"MONTH",
	"PTP AMOUNT",
	"STATUS TODAY",
	"BROKEN AMOUNT",
}

// amountColumn is the cell each sheet's totals and dashboard series sum over
var amountColumn = map[Kind]string{
	KindPayment: "POSTED AED",
	KindPTP:     "PTP AMOUNT",
}

// Columns returns the fixed header of a sheet kind
func Columns(kind Kind) []string {
	if kind == KindPayment {
		return paymentColumns
	}
	return ptpColumns
}

// Row is one manually entered sheet record. Cells are aligned with the
// sheet's fixed column order.
type Row struct {
	ID    string   `json:"id"`
	Cells []string `json:"cells"`
}

// Totals summarizes one client sheet
type Totals struct {
	Records int     `json:"records"`
	Amount  float64 `json:"amount"`
}

// Store holds the per-client payment-monitoring and PTP-list sheets. Rows
// only ever enter through Add and leave through Delete; uploads never write
// here.
type Store struct {
	rows   map[types.Client]map[Kind][]Row
	logger zerolog.Logger
	mu     sync.RWMutex
}

// NewStore creates an empty sheet store for all clients
func NewStore(logger zerolog.Logger) *Store {
	s := &Store{
		rows:   make(map[types.Client]map[Kind][]Row),
		logger: logger.With().Str("component", "sheets").Logger(),
	}
	for _, client := range types.AllClients {
		s.rows[client] = map[Kind][]Row{
			KindPayment: nil,
			KindPTP:     nil,
		}
	}
	return s
}

// Add appends one record built from the given column values. Unknown keys
// are rejected; a missing MONTH defaults to the record's DATE month or the
// current month.
func (s *Store) Add(client types.Client, kind Kind, values map[string]string) (Row, error) {
	cols := Columns(kind)
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[c] = i
	}
	for k := range values {
		if _, ok := index[k]; !ok {
			return Row{}, fmt.Errorf("unknown column %q", k)
		}
	}

	cells := make([]string, len(cols))
	for k, v := range values {
		cells[index[k]] = v
	}
	if mi, ok := index["MONTH"]; ok && cells[mi] == "" {
		if t, ok := parseSheetDate(cells[index["DATE"]]); ok {
			cells[mi] = t.Format("2006-01")
		} else {
			cells[mi] = time.Now().Format("2006-01")
		}
	}

	row := Row{ID: uuid.New().String(), Cells: cells}

	s.mu.Lock()
	s.rows[client][kind] = append(s.rows[client][kind], row)
	s.mu.Unlock()

	s.logger.Info().
		Str("client", string(client)).
		Str("sheet", string(kind)).
		Str("row_id", row.ID).
		Msg("sheet row added")
	return row, nil
}

// Delete removes one row by ID
func (s *Store) Delete(client types.Client, kind Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.rows[client][kind]
	for i, r := range rows {
		if r.ID == id {
			s.rows[client][kind] = append(rows[:i], rows[i+1:]...)
			return nil
		}
	}
	return errors.New("row not found")
}

// Rows returns copies of a client sheet's records
func (s *Store) Rows(client types.Client, kind Kind) []Row {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.rows[client][kind]
	out := make([]Row, len(rows))
	for i, r := range rows {
		cells := make([]string, len(r.Cells))
		copy(cells, r.Cells)
		out[i] = Row{ID: r.ID, Cells: cells}
	}
	return out
}

// Totals returns the record count and the summed amount column of one sheet
func (s *Store) Totals(client types.Client, kind Kind) Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	amountIdx := columnIndex(kind, amountColumn[kind])
	t := Totals{Records: len(s.rows[client][kind])}
	for _, r := range s.rows[client][kind] {
		t.Amount += pipeline.Sanitize(cell(r, amountIdx))
	}
	return t
}

// AmountSeries sums the sheet's amount column over rows whose DATE cell
// falls inside the given period, and counts the rows carrying an amount.
// This feeds the dashboard's posted-AED and PTP-projection figures.
func (s *Store) AmountSeries(client types.Client, kind Kind, at time.Time, filter PeriodFilter) Totals {
	s.mu.RLock()
	defer s.mu.RUnlock()

	dateIdx := columnIndex(kind, "DATE")
	amountIdx := columnIndex(kind, amountColumn[kind])

	var t Totals
	for _, r := range s.rows[client][kind] {
		d, ok := parseSheetDate(cell(r, dateIdx))
		if !ok || !inPeriod(d, at, filter) {
			continue
		}
		if raw := cell(r, amountIdx); raw != "" {
			t.Records++
			t.Amount += pipeline.Sanitize(raw)
		}
	}
	return t
}

// ExportCSV renders one client sheet with its fixed header
func (s *Store) ExportCSV(client types.Client, kind Kind) ([]byte, error) {
	rows := s.Rows(client, kind)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(Columns(kind)); err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := w.Write(r.Cells); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func columnIndex(kind Kind, name string) int {
	for i, c := range Columns(kind) {
		if c == name {
			return i
		}
	}
	return -1
}

func cell(r Row, idx int) string {
	if idx < 0 || idx >= len(r.Cells) {
		return ""
	}
	return r.Cells[idx]
}
