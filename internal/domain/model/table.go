package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/okian/painel/internal/domain/dedupe"
	"github.com/okian/painel/internal/domain/types"
)

// Row is one indicator reading.
type Row struct {
	Indicator   string
	Responsible string
	Value       types.Num
	// UpdatedAt is zero when the cell was blank or unparseable.
	UpdatedAt time.Time
}

// HasTimestamp reports whether the row carries a parsed update time.
func (r Row) HasTimestamp() bool { return !r.UpdatedAt.IsZero() }

// Table is an ordered list of rows.
type Table []Row

// NullValues counts rows whose value could not be parsed.
func (t Table) NullValues() int {
	n := 0
	for _, r := range t {
		if !r.Value.Valid() {
			n++
		}
	}
	return n
}

var timeLayouts = []string{ //nolint:gochecknoglobals // accepted timestamp layouts
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ToTable converts payload rows into a table. Text columns are normalized,
// values and timestamps that fail to parse become null. A payload without
// rows yields an empty table.
func ToTable(p Payload) Table {
	if len(p.Rows) == 0 {
		return Table{}
	}
	t := make(Table, 0, len(p.Rows))
	for _, raw := range p.Rows {
		t = append(t, Row{
			Indicator:   NormText(cellText(raw[ColIndicator])),
			Responsible: NormText(cellText(raw[ColResponsible])),
			Value:       ParseValue(raw[ColValue]),
			UpdatedAt:   ParseTime(raw[ColUpdatedAt]),
		})
	}
	return t
}

type rowKey struct {
	responsible string
	indicator   string
}

// Latest keeps one row per (responsible, indicator). When any row carries a
// timestamp the rows are first ordered by it; rows without a timestamp sort
// before every timestamped row and ties keep payload order. Without any
// timestamp the last row in payload order wins.
func Latest(t Table) Table {
	if len(t) == 0 {
		return Table{}
	}
	rows := slices.Clone(t)
	if slices.ContainsFunc(rows, Row.HasTimestamp) {
		slices.SortStableFunc(rows, func(a, b Row) int {
			switch {
			case !a.HasTimestamp() && !b.HasTimestamp():
				return 0
			case !a.HasTimestamp():
				return -1
			case !b.HasTimestamp():
				return 1
			}
			return a.UpdatedAt.Compare(b.UpdatedAt)
		})
	}
	return dedupe.KeepLast(rows, func(r Row) rowKey {
		return rowKey{responsible: r.Responsible, indicator: r.Indicator}
	})
}

// ParseValue coerces a cell to a number. Unparseable cells become null.
func ParseValue(v any) types.Num {
	switch x := v.(type) {
	case float64:
		return types.Some(x)
	case int:
		return types.Some(float64(x))
	case int64:
		return types.Some(float64(x))
	case string:
		s := strings.TrimSpace(StripInvisible(x))
		if s == "" {
			return types.None()
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return types.None()
		}
		return types.Some(f)
	default:
		return types.None()
	}
}

// ParseTime parses a timestamp cell into UTC. Naive timestamps are read as UTC.
// Unparseable cells yield the zero time.
func ParseTime(v any) time.Time {
	s, ok := v.(string)
	if !ok {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts.UTC()
		}
	}
	return time.Time{}
}

func cellText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
