package sheets

import "time"

// PeriodFilter selects how dashboard figures window their rows by DATE
type PeriodFilter string

const (
	PeriodAll   PeriodFilter = ""
	PeriodDate  PeriodFilter = "date"
	PeriodMonth PeriodFilter = "month"
	PeriodYear  PeriodFilter = "year"
)

// Date layouts the side sheets carry; entries are hand-typed so both ISO
// and slash forms show up.
var sheetDateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2006/01/02",
}

func parseSheetDate(raw string) (time.Time, bool) {
	for _, layout := range sheetDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func inPeriod(d, at time.Time, filter PeriodFilter) bool {
	switch filter {
	case PeriodDate:
		dy, dm, dd := d.Date()
		ay, am, ad := at.Date()
		return dy == ay && dm == am && dd == ad
	case PeriodMonth:
		return d.Year() == at.Year() && d.Month() == at.Month()
	case PeriodYear:
		return d.Year() == at.Year()
	default:
		return true
	}
}
