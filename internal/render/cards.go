package render

import (
	"html/template"
	"math"
	"strconv"

	"github.com/okian/painel/internal/domain/kpi"
	"github.com/okian/painel/internal/domain/people"
	"github.com/okian/painel/internal/domain/types"
	"github.com/okian/painel/pkg/brfmt"
)

// KPI is a goal card: a pill gauge over the percent reached plus actual,
// target and a qualitative band.
type KPI struct {
	Title     string
	Subtitle  string
	Percent   float64
	LeftLabel []string
	LeftValue string
	LeftBadge string
	MidLabel  []string
	MidValue  string
	Band      brfmt.Band
}

type kpiView struct {
	KPI
	Pills       []Pill
	PercentText string
	BandLines   []string
	BandClass   string
}

// KPI renders a goal card.
func (r *Renderer) KPI(k KPI) (template.HTML, error) {
	pct := max(0, min(100, k.Percent))
	return r.exec("kpi", kpiView{
		KPI:         k,
		Pills:       GaugePills(pct, gaugeSegments),
		PercentText: brfmt.Percent(pct),
		BandLines:   k.Band.Lines(),
		BandClass:   k.Band.Class(),
	})
}

// GoalCard builds the KPI card for a goal. money selects currency formatting.
func GoalCard(title, subtitle string, left, mid []string, g kpi.Goal, money bool) KPI {
	format := brfmt.Int
	if money {
		format = brfmt.Money
	}
	return KPI{
		Title:     title,
		Subtitle:  subtitle,
		Percent:   kpi.PercentOfRatio(g.Ratio),
		LeftLabel: left,
		LeftValue: format(g.Actual),
		LeftBadge: "Atual",
		MidLabel:  mid,
		MidValue:  format(g.Target),
		Band:      brfmt.BandOf(g.Ratio),
	}
}

// Avatar is a round photo, or initials when there is no photo.
type Avatar struct {
	HasPhoto bool
	Src      template.URL
	Initials string
	Title    string
	Size     int
	Ring     int
	FontPx   int
}

func (r *Renderer) avatar(name string, size, ring int) Avatar {
	a := Avatar{
		Title:    people.PrettyName(name),
		Initials: people.Initials(name),
		Size:     size,
		Ring:     ring,
		FontPx:   max(12, int(float64(size)*0.35)),
	}
	if src, ok := r.photos.Photo(name); ok {
		a.HasPhoto = true
		a.Src = template.URL(src) //nolint:gosec // photo sources come from operator config
	}
	return a
}

// RankEntry is one line of a ranking card, already formatted.
type RankEntry struct {
	Name  string
	Value string
	Sub   string
}

type rankRow struct {
	Rank   int
	Name   string
	Value  string
	Sub    string
	Avatar Avatar
}

// Ranking renders numbered pills with avatars. The first place gets a thicker ring.
func (r *Renderer) Ranking(title string, entries []RankEntry) (template.HTML, error) {
	if len(entries) == 0 {
		return r.exec("empty", "Sem dados de "+title)
	}
	rows := make([]rankRow, len(entries))
	for i, e := range entries {
		ring := 2
		if i == 0 {
			ring = 4
		}
		rows[i] = rankRow{
			Rank:   i + 1,
			Name:   people.PrettyName(e.Name),
			Value:  e.Value,
			Sub:    e.Sub,
			Avatar: r.avatar(e.Name, 70, ring),
		}
	}
	return r.exec("ranking", struct {
		Title string
		Rows  []rankRow
	}{title, rows})
}

type legendRow struct {
	Color string
	Name  string
	Value string
	Sub   string
}

// Donut renders shares as a ring with a legend. unit names what the values count.
func (r *Renderer) Donut(title string, items []types.Item, unit string) (template.HTML, error) {
	if len(items) == 0 {
		return r.exec("empty", "Sem dados de "+title)
	}
	pcts := make([]float64, len(items))
	legend := make([]legendRow, len(items))
	for i, it := range items {
		pcts[i] = it.Percent
		legend[i] = legendRow{
			Color: donutPalette[i%len(donutPalette)],
			Name:  people.PrettyName(it.Name),
			Value: brfmt.Percent(it.Percent),
			Sub:   brfmt.Int(types.Some(it.Value)) + " " + unit,
		}
	}
	return r.exec("donut", struct {
		Title  string
		Donut  Donut
		Legend []legendRow
	}{title, DonutRings(pcts, 210, 18), legend})
}

type podiumPlace struct {
	RankText    string
	Name        string
	Avatar      Avatar
	Contracts   string
	Signed      string
	Paid        string
	PaidPercent string
}

// Podium renders the two closers with the highest paid revenue.
func (r *Renderer) Podium(title string, closers []kpi.Closer) (template.HTML, error) {
	if len(closers) == 0 {
		return r.Placeholder([]string{title}, "Sem dados")
	}
	places := make([]podiumPlace, 0, 2)
	for i, c := range closers[:min(2, len(closers))] {
		p := podiumPlace{
			RankText:  strconv.Itoa(i+1) + "º",
			Name:      people.PrettyName(c.Name),
			Avatar:    r.avatar(c.Name, 112, 5),
			Contracts: brfmt.Int(c.Contracts),
			Signed:    compactMoney(c.Signed),
			Paid:      compactMoney(c.Paid),
		}
		if c.PaidPercent.Valid() {
			p.PaidPercent = brfmt.PercentNum(c.PaidPercent)
		}
		places = append(places, p)
	}
	return r.exec("podium", struct {
		Title  string
		Places []podiumPlace
	}{title, places})
}

// compactMoney drops ",00" and shows missing values as zero.
func compactMoney(n types.Num) string {
	if !n.Valid() {
		return "0"
	}
	return brfmt.CompactMoney(n)
}

// funnelPercent clamps to [0, 999.99] and prints a fixed number of decimals.
func funnelPercent(v float64, decimals int) string {
	if math.IsNaN(v) {
		v = 0
	}
	return brfmt.Fixed(max(0, min(999.99, v)), decimals) + "%"
}

// Funnel renders leads -> meetings -> contracts. The first stage prints one
// decimal, the second two.
func (r *Renderer) Funnel(title string, f kpi.Funnel) (template.HTML, error) {
	if title == "" {
		title = "Funil de Vendas"
	}
	count := func(n types.Num) string { return brfmt.Count(types.Some(n.Or(0))) }
	return r.exec("funnel", struct {
		Title       string
		Leads       string
		Meetings    string
		Contracts   string
		FirstStage  string
		SecondStage string
	}{
		Title:       title,
		Leads:       count(f.Leads),
		Meetings:    count(f.Meetings),
		Contracts:   count(f.Contracts),
		FirstStage:  funnelPercent(f.LeadsToMeetings, 1),
		SecondStage: funnelPercent(f.MeetingsToContracts, 2),
	})
}

// Revenue compares signed and paid revenue, with a sparkline when history exists.
func (r *Renderer) Revenue(title string, signed, paid types.Num, signedSeries, paidSeries []float64) (template.HTML, error) {
	ratio := brfmt.Placeholder
	if q := kpi.Ratio(types.Some(paid.Or(0)), signed); q.Valid() {
		ratio = brfmt.Percent(q.Or(0) * 100)
	}
	var spark *Spark
	if len(signedSeries) == len(paidSeries) {
		spark = Sparkline(signedSeries, paidSeries)
	}
	return r.exec("revenue", struct {
		Title  string
		Signed string
		Paid   string
		Ratio  string
		Spark  *Spark
	}{title, brfmt.Money(signed), brfmt.Money(paid), ratio, spark})
}

// LeadsConversion shows total leads next to the general conversion rate (0..100).
func (r *Renderer) LeadsConversion(title string, leads, conversion types.Num) (template.HTML, error) {
	return r.exec("leads", struct {
		Title      string
		Leads      string
		Conversion string
	}{title, brfmt.Int(leads), brfmt.PercentNum(conversion)})
}

// SimpleTotal shows one big integer. An empty subtitle repeats the title.
func (r *Renderer) SimpleTotal(title string, v types.Num, subtitle string) (template.HTML, error) {
	if subtitle == "" {
		subtitle = title
	}
	return r.exec("big", struct {
		Title    string
		Value    string
		Subtitle string
	}{title, brfmt.Int(v), subtitle})
}

// ConversionGeneral shows the general conversion rate in large type. A
// missing rate shows the placeholder.
func (r *Renderer) ConversionGeneral(title string, percent types.Num) (template.HTML, error) {
	return r.exec("big", struct {
		Title    string
		Value    string
		Subtitle string
	}{title, brfmt.PercentNum(percent), "Taxa de conversão (geral)"})
}

// Placeholder renders a card with only a title, one line per entry, and an optional note.
func (r *Renderer) Placeholder(lines []string, note string) (template.HTML, error) {
	return r.exec("placeholder", struct {
		Lines []string
		Note  string
	}{lines, note})
}
