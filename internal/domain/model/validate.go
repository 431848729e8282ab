package model

import (
	"fmt"
	"strings"
)

// Validate checks the payload shape. It returns a human message for the
// screen and a non-nil error when the cycle cannot go on. Missing columns
// are not fatal: they are read as nulls.
func Validate(p Payload) (string, error) {
	if p.notObject {
		return "Payload inválido: resposta não é um objeto JSON.", ErrNotObject
	}
	if p.hasError && p.rows == rowsAbsent {
		return fmt.Sprintf("Endpoint retornou erro: %s", p.Error), ErrEndpoint
	}
	switch p.rows {
	case rowsAbsent:
		return "Payload inválido: campo 'rows' ausente.", ErrRowsMissing
	case rowsNotList:
		return "Payload inválido: campo 'rows' não é uma lista.", ErrRowsInvalid
	case rowsNotObjects:
		return "Payload inválido: items de 'rows' não são objetos.", ErrRowsInvalid
	case rowsList:
	}

	if len(p.Rows) == 0 {
		return "Payload OK (rows vazio).", nil
	}
	var missing []string
	for _, col := range ExpectedColumns {
		if _, ok := p.Rows[0][col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return "Payload OK (colunas ausentes serão preenchidas): " + strings.Join(missing, ", "), nil
	}
	return "Payload OK.", nil
}
