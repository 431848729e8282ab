// Package stub serves a fake spreadsheet endpoint with the same wire shape
// as the real one, for local development of the dashboard.
package stub

import (
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/painel/internal/domain/kpi"
	"github.com/okian/painel/internal/domain/model"
)

// Default people of the generated sheet.
var (
	DefaultSDRs    = []string{"Ana Souza", "Bruno Lima", "Carla Dias", "Diego Alves"} //nolint:gochecknoglobals // fixture names
	DefaultClosers = []string{"Eduarda Melo", "Felipe Rocha", "Gabi Nunes"}            //nolint:gochecknoglobals // fixture names
)

// Document is the JSON body served by the stub.
type Document struct {
	Rows      []model.RawRow `json:"rows"`
	UpdatedAt string         `json:"updatedAt"`
	Sheet     string         `json:"sheet"`
	Revision  string         `json:"revision"`
}

// Generator builds plausible KPI rows. The same seed yields the same values.
type Generator struct {
	rng     *rand.Rand
	sdrs    []string
	closers []string
	sheet   string
	now     func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithPeople sets the SDR and closer names.
func WithPeople(sdrs, closers []string) GeneratorOption {
	return func(g *Generator) {
		if len(sdrs) > 0 {
			g.sdrs = sdrs
		}
		if len(closers) > 0 {
			g.closers = closers
		}
	}
}

// WithSheet sets the sheet name reported in the document.
func WithSheet(name string) GeneratorOption {
	return func(g *Generator) {
		if name != "" {
			g.sheet = name
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator creates a generator seeded with seed.
func NewGenerator(seed uint64, opts ...GeneratorOption) *Generator {
	g := &Generator{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // fake data
		sdrs:    DefaultSDRs,
		closers: DefaultClosers,
		sheet:   "Comercial",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) between(lo, hi int) int { return lo + g.rng.IntN(hi-lo+1) }

// Document generates one snapshot of the sheet. Team rows carry totals; a
// stale copy of the team meetings row is included first so readers must
// keep the latest one. Per-person conversion rates are ratios while the team
// rate is a percent, as real sheets mix both.
func (g *Generator) Document() Document {
	now := g.now().UTC()
	at := now.Format(time.RFC3339)
	stale := now.Add(-time.Hour).Format(time.RFC3339)

	var rows []model.RawRow
	add := func(ind, resp string, v float64, ts string) {
		rows = append(rows, model.RawRow{
			model.ColIndicator:   ind,
			model.ColResponsible: resp,
			model.ColValue:       strconv.FormatFloat(v, 'f', -1, 64),
			model.ColUpdatedAt:   ts,
		})
	}

	meetings, leads := 0, 0
	for _, name := range g.sdrs {
		m := g.between(4, 30)
		meetings += m
		leads += m * g.between(3, 6)
		add(kpi.MeetingsActual, name, float64(m), at)
	}
	meetingsGoal := float64(len(g.sdrs) * 25)
	add(kpi.MeetingsActual, kpi.TeamSDR, float64(max(0, meetings-3)), stale)
	add(kpi.MeetingsActual, kpi.TeamSDR, float64(meetings), at)
	add(kpi.MeetingsGoal, kpi.TeamSDR, meetingsGoal, at)
	add(kpi.MeetingsPercent, kpi.TeamSDR, round(float64(meetings)/meetingsGoal, 4), at)
	add(kpi.MeetingsGap, kpi.TeamSDR, meetingsGoal-float64(meetings), at)
	add(kpi.Leads, kpi.TeamSDR, float64(leads), at)

	contracts := 0
	var signed, paid float64
	for _, name := range g.closers {
		c := g.between(1, 8)
		s := float64(c * g.between(2_000, 6_000))
		p := round(s*float64(g.between(40, 100))/100, 2)
		contracts += c
		signed += s
		paid += p
		add(kpi.ContractsSigned, name, float64(c), at)
		add(kpi.RevenueSigned, name, s, at)
		add(kpi.RevenuePaid, name, p, at)
		add(kpi.RevenuePaidPerc, name, round(p/s, 4), at)
		add(kpi.ConversionRate, name, round(min(1, float64(c)/float64(max(1, meetings/len(g.closers)))), 4), at)
	}
	revenueGoal := float64(len(g.closers) * 30_000)
	add(kpi.ContractsSigned, kpi.TeamCloser, float64(contracts), at)
	add(kpi.RevenueSigned, kpi.TeamCloser, signed, at)
	add(kpi.RevenuePaid, kpi.TeamCloser, round(paid, 2), at)
	add(kpi.RevenueGoal, kpi.TeamCloser, revenueGoal, at)
	add(kpi.RevenuePercent, kpi.TeamCloser, round(paid/revenueGoal, 4), at)
	add(kpi.RevenueGap, kpi.TeamCloser, round(revenueGoal-paid, 2), at)
	add(kpi.ConversionRate, kpi.TeamCloser, round(float64(contracts)/float64(meetings)*100, 2), at)

	return Document{Rows: rows, UpdatedAt: at, Sheet: g.sheet, Revision: uuid.NewString()}
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
