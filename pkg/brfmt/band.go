package brfmt

import (
	"strings"

	"github.com/okian/painel/internal/domain/types"
)

// Band is a qualitative reading of how far a ratio is from its goal.
type Band int

// Bands from worst to best.
const (
	BandNoData Band = iota
	BandAttention
	BandInProgress
	BandAlmost
	BandMet
)

// Band thresholds over a 0..1 ratio.
const (
	ThresholdMet        = 1.0
	ThresholdAlmost     = 0.85
	ThresholdInProgress = 0.6
)

// BandOf classifies a goal ratio.
func BandOf(ratio types.Num) Band {
	r, ok := ratio.Get()
	switch {
	case !ok:
		return BandNoData
	case r >= ThresholdMet:
		return BandMet
	case r >= ThresholdAlmost:
		return BandAlmost
	case r >= ThresholdInProgress:
		return BandInProgress
	default:
		return BandAttention
	}
}

// Text is the pill label; a newline marks where the pill breaks the line.
func (b Band) Text() string {
	switch b {
	case BandMet:
		return "Meta\nbatida"
	case BandAlmost:
		return "Falta\npouco"
	case BandInProgress:
		return "Em\nandamento"
	case BandAttention:
		return "Atenção"
	case BandNoData:
		return "Sem\ndados"
	}
	return "Sem\ndados"
}

// Lines splits Text at its line breaks.
func (b Band) Lines() []string {
	return strings.Split(b.Text(), "\n")
}

// Class is a CSS modifier for the band.
func (b Band) Class() string {
	switch b {
	case BandMet:
		return "met"
	case BandAlmost:
		return "almost"
	case BandInProgress:
		return "progress"
	case BandAttention:
		return "attention"
	case BandNoData:
		return "nodata"
	}
	return "nodata"
}
