// Package kpi derives dashboard metrics from the latest-value table.
package kpi

// Team rows carry the authoritative totals for their indicators.
const (
	TeamSDR    = "SDR"
	TeamCloser = "CLOSER"
)

// Indicator names as they appear, normalized, in the sheet.
const (
	MeetingsActual  = "REUNIÕES OCORRIDAS"
	MeetingsGoal    = "REUNIÕES OCORRIDAS - META"
	MeetingsPercent = "PERC META REUNIÕES OCORRIDAS"
	MeetingsGap     = "DIF META REUNIÕES OCORRIDAS"

	RevenuePaid     = "FATURAMENTO PAGO"
	Revenue         = "FATURAMENTO"
	RevenueGoal     = "FATURAMENTO - META"
	RevenuePercent  = "PERC META FATURAMENTO"
	RevenueGap      = "DIF META FATURAMENTO"
	RevenueSigned   = "FATURAMENTO ASSINADO"
	RevenuePaidPerc = "PERC FATURAMENTO PAGO"

	Leads           = "LEADS"
	ConversionRate  = "TAXA DE CONVERSÃO"
	ContractsSigned = "CONTRATOS ASSINADOS"
)

// DefaultOthersLabel names the bucket that aggregates everyone outside the top N.
const DefaultOthersLabel = "OUTROS"

// Teams lists the team rows excluded from per-person breakdowns.
func Teams() []string { return []string{TeamSDR, TeamCloser} }
