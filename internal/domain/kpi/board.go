package kpi

import (
	"cmp"
	"slices"

	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/domain/types"
)

// Goal compares an actual against its target.
type Goal struct {
	Actual types.Num `json:"actual"`
	Target types.Num `json:"target"`
	// Ratio is actual/target as a fraction, read from the sheet when present.
	Ratio types.Num `json:"ratio"`
	Gap   types.Num `json:"gap"`
}

// Funnel is the leads -> meetings -> contracts pipeline with stage conversions in percent.
type Funnel struct {
	Leads               types.Num `json:"leads"`
	Meetings            types.Num `json:"meetings"`
	Contracts           types.Num `json:"contracts"`
	LeadsToMeetings     float64   `json:"leads_to_meetings"`
	MeetingsToContracts float64   `json:"meetings_to_contracts"`
}

// Closer is one closer's contract and revenue figures.
type Closer struct {
	Name        string    `json:"name"`
	Contracts   types.Num `json:"contracts"`
	Signed      types.Num `json:"signed"`
	Paid        types.Num `json:"paid"`
	PaidPercent types.Num `json:"paid_percent"`
}

// Board is everything one screen shows.
type Board struct {
	Meetings           Goal         `json:"meetings"`
	Revenue            Goal         `json:"revenue"`
	Leads              types.Num    `json:"leads"`
	Conversion         types.Num    `json:"conversion"`
	Contracts          types.Num    `json:"contracts"`
	RevenueSigned      types.Num    `json:"revenue_signed"`
	RevenuePaid        types.Num    `json:"revenue_paid"`
	Funnel             Funnel       `json:"funnel"`
	MeetingsByPerson   []types.Item `json:"meetings_by_person"`
	ConversionByPerson []types.Item `json:"conversion_by_person"`
	Closers            []Closer     `json:"closers"`
	SignedSeries       []float64    `json:"signed_series,omitempty"`
	PaidSeries         []float64    `json:"paid_series,omitempty"`
}

// BoardOptions tunes BuildBoard.
type BoardOptions struct {
	Policy      Policy
	TopPeople   int
	OthersLabel string
}

// DefaultBoardOptions shows the top five people and reads rates with the default policy.
func DefaultBoardOptions() BoardOptions {
	return BoardOptions{Policy: DefaultPolicy(), TopPeople: 5, OthersLabel: DefaultOthersLabel}
}

func goal(t model.Table, p Policy, team, actual, target, percent, gap string) Goal {
	g := Goal{
		Actual: ValueOf(t, actual, team),
		Target: ValueOf(t, target, team),
		Ratio:  p.AsRatio(ValueOf(t, percent, team)),
		Gap:    ValueOf(t, gap, team),
	}
	if !g.Ratio.Valid() {
		g.Ratio = Ratio(g.Actual, g.Target)
	}
	return g
}

func stage(num, den types.Num) float64 {
	d := den.Or(0)
	if d <= 0 {
		return 0
	}
	return num.Or(0) / d * 100
}

// BuildBoard computes every card's figures from a latest-value table. An
// empty table yields a board of None values and empty lists.
func BuildBoard(t model.Table, opts BoardOptions) Board {
	p := opts.Policy
	teams := Teams()

	b := Board{
		Meetings: goal(t, p, TeamSDR, MeetingsActual, MeetingsGoal, MeetingsPercent, MeetingsGap),
		Revenue:  goal(t, p, TeamCloser, RevenuePaid, RevenueGoal, RevenuePercent, RevenueGap),
	}
	if !b.Revenue.Actual.Valid() {
		b.Revenue.Actual = ValueOf(t, Revenue, TeamCloser)
		if !b.Revenue.Ratio.Valid() {
			b.Revenue.Ratio = Ratio(b.Revenue.Actual, b.Revenue.Target)
		}
	}

	b.Leads = Total(t, Leads, TeamSDR, TeamCloser)
	b.Contracts = Total(t, ContractsSigned, TeamCloser, TeamSDR)
	b.RevenueSigned = Total(t, RevenueSigned, TeamCloser, TeamSDR)
	b.RevenuePaid = Total(t, RevenuePaid, TeamCloser, TeamSDR)
	if !b.RevenuePaid.Valid() {
		b.RevenuePaid = b.Revenue.Actual
	}

	meetings := b.Meetings.Actual
	if !meetings.Valid() {
		meetings = Total(t, MeetingsActual, TeamSDR, TeamCloser)
	}

	b.Conversion = conversion(t, p)
	if !b.Conversion.Valid() {
		if r := Ratio(b.Contracts, b.Leads); r.Valid() {
			b.Conversion = types.Some(PercentOfRatio(r))
		}
	}

	b.Funnel = Funnel{
		Leads:               b.Leads,
		Meetings:            meetings,
		Contracts:           b.Contracts,
		LeadsToMeetings:     stage(meetings, b.Leads),
		MeetingsToContracts: stage(b.Contracts, meetings),
	}

	opts.OthersLabel = cmp.Or(opts.OthersLabel, DefaultOthersLabel)
	b.MeetingsByPerson = TopNWithOthers(SharesOf(PerPerson(t, MeetingsActual, teams...)), opts.TopPeople, opts.OthersLabel)

	rates := PerPerson(t, ConversionRate, teams...)
	for i := range rates {
		pct := p.RatioToPercent(types.Some(rates[i].Value))
		rates[i].Value, rates[i].Percent = pct, pct
	}
	slices.SortStableFunc(rates, byValueDesc)
	b.ConversionByPerson = rates

	b.Closers = closers(t, p)
	return b
}

func conversion(t model.Table, p Policy) types.Num {
	for _, team := range []string{TeamCloser, TeamSDR, ""} {
		if v := ValueOf(t, ConversionRate, team); v.Valid() {
			return types.Some(p.RatioToPercent(v))
		}
	}
	return types.None()
}

// closers lists everyone with closer figures, highest paid revenue first.
func closers(t model.Table, p Policy) []Closer {
	var names []string
	seen := map[string]struct{}{}
	for _, ind := range []string{RevenuePaid, RevenueSigned, ContractsSigned} {
		for _, it := range PerPerson(t, ind, Teams()...) {
			if _, ok := seen[it.Name]; ok {
				continue
			}
			seen[it.Name] = struct{}{}
			names = append(names, it.Name)
		}
	}

	out := make([]Closer, 0, len(names))
	for _, n := range names {
		c := Closer{
			Name:      n,
			Contracts: ValueOf(t, ContractsSigned, n),
			Signed:    ValueOf(t, RevenueSigned, n),
			Paid:      ValueOf(t, RevenuePaid, n),
		}
		if v := ValueOf(t, RevenuePaidPerc, n); v.Valid() {
			c.PaidPercent = types.Some(p.RatioToPercent(v))
		}
		out = append(out, c)
	}
	slices.SortStableFunc(out, func(a, b Closer) int {
		return cmp.Compare(b.Paid.Or(0), a.Paid.Or(0))
	})
	return out
}
