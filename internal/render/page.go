package render

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/okian/painel/internal/domain/kpi"
	"github.com/okian/painel/pkg/brfmt"
)

// PageOptions controls the page shell.
type PageOptions struct {
	Title          string
	RefreshSeconds int
	FrameHeight    int
	UpdatedAt      string
	Sheet          string
}

func (o PageOptions) slots(css string) map[string]template.HTML {
	title := o.Title
	if title == "" {
		title = "Comercial | Indicadores"
	}
	height := o.FrameHeight
	if height <= 0 {
		height = 1080
	}
	refresh := max(1, o.RefreshSeconds)
	var meta []string
	if o.Sheet != "" {
		meta = append(meta, o.Sheet)
	}
	if o.UpdatedAt != "" {
		meta = append(meta, "Atualizado em "+o.UpdatedAt)
	}
	return map[string]template.HTML{
		"TITLE":           template.HTML(template.HTMLEscapeString(title)),                     //nolint:gosec // escaped
		"META":            template.HTML(template.HTMLEscapeString(strings.Join(meta, " · "))), //nolint:gosec // escaped
		"REFRESH_SECONDS": template.HTML(strconv.Itoa(refresh)),                               //nolint:gosec // integer
		"FRAME_HEIGHT":    template.HTML(strconv.Itoa(height)),                                //nolint:gosec // integer
		"DASHBOARD_CSS":   template.HTML(css),                                                 //nolint:gosec // embedded asset
	}
}

// Cards renders every card of the board in screen order.
func (r *Renderer) Cards(b kpi.Board) (template.HTML, error) {
	var parts []template.HTML
	add := func(h template.HTML, err error) error {
		if err != nil {
			return err
		}
		parts = append(parts, h)
		return nil
	}

	steps := []func() error{
		func() error {
			return add(r.KPI(GoalCard("Reuniões", "Reuniões Ocorridas",
				[]string{"Reuniões", "Realizadas"}, []string{"Meta de", "Reuniões"}, b.Meetings, false)))
		},
		func() error {
			return add(r.KPI(GoalCard("Faturamento", "Faturamento alcançado",
				[]string{"Faturamento", "Pago"}, []string{"Meta de", "Faturamento"}, b.Revenue, true)))
		},
		func() error { return add(r.Funnel("Funil de Vendas", b.Funnel)) },
		func() error { return add(r.Donut("Reuniões por pessoa", b.MeetingsByPerson, "reuniões")) },
		func() error {
			if len(b.ConversionByPerson) == 0 {
				return add(r.ConversionGeneral("Conversão", b.Conversion))
			}
			entries := make([]RankEntry, len(b.ConversionByPerson))
			for i, it := range b.ConversionByPerson {
				entries[i] = RankEntry{Name: it.Name, Value: brfmt.Percent(it.Percent)}
			}
			return add(r.Ranking("Conversão por pessoa", entries))
		},
		func() error { return add(r.Podium("Ranking Closer", b.Closers)) },
		func() error {
			return add(r.Revenue("Faturamento ass x pago", b.RevenueSigned, b.RevenuePaid, b.SignedSeries, b.PaidSeries))
		},
		func() error { return add(r.LeadsConversion("Leads | Taxa de Conversão (Geral)", b.Leads, b.Conversion)) },
		func() error { return add(r.SimpleTotal("Contratos", b.Contracts, "Contratos assinados")) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return "", err
		}
	}
	return template.HTML(strings.Join(htmlStrings(parts), "\n")), nil //nolint:gosec // joined safe fragments
}

// Dashboard renders the full kiosk page for a board.
func (r *Renderer) Dashboard(b kpi.Board, opts PageOptions) ([]byte, error) {
	cards, err := r.Cards(b)
	if err != nil {
		return nil, err
	}
	slots := opts.slots(r.css)
	slots["CARDS_HTML"] = cards
	slots["BODY_CLASS"] = "board"
	return []byte(Assemble(r.page, slots)), nil
}

// ErrorPage renders the on-screen message shown when a cycle fails. The page
// keeps refreshing so the next cycle can recover.
func (r *Renderer) ErrorPage(message string, opts PageOptions) ([]byte, error) {
	body, err := r.exec("error", message)
	if err != nil {
		return nil, err
	}
	slots := opts.slots(r.css)
	slots["CARDS_HTML"] = body
	slots["BODY_CLASS"] = "failed"
	return []byte(Assemble(r.page, slots)), nil
}

func htmlStrings(parts []template.HTML) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = string(p)
	}
	return out
}
