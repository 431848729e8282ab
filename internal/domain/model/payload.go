// Package model contains the spreadsheet payload, its rows and the latest-value table.
package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Column names of a spreadsheet row.
const (
	ColIndicator   = "INDICADORES"
	ColResponsible = "RESPONSÁVEL"
	ColValue       = "VALOR"
	ColUpdatedAt   = "DATA_ATUALIZAÇÃO"
)

// ExpectedColumns lists the columns every row should carry.
var ExpectedColumns = []string{ColIndicator, ColResponsible, ColValue, ColUpdatedAt} //nolint:gochecknoglobals // fixed column set

// SoftFailMessage is the error marker of a payload whose body was not JSON.
const SoftFailMessage = "Resposta não-JSON do endpoint"

// RawRow is one row object exactly as it came over the wire.
type RawRow map[string]any

type rowsState int

const (
	rowsAbsent rowsState = iota
	rowsList
	rowsNotList
	rowsNotObjects
)

// Payload is the top-level fetch result.
type Payload struct {
	Rows       []RawRow
	UpdatedAt  string
	Sheet      string
	Error      string
	StatusCode int
	Text       string

	notObject bool
	hasError  bool
	rows      rowsState
}

// SoftFailure builds the payload returned when the endpoint answered with a non-JSON body.
func SoftFailure(msg string, statusCode int, text string) Payload {
	return Payload{Error: msg, StatusCode: statusCode, Text: text, hasError: true}
}

// NewPayload builds a usable payload from rows.
func NewPayload(rows []RawRow) Payload {
	if rows == nil {
		rows = []RawRow{}
	}
	return Payload{Rows: rows, rows: rowsList}
}

// HasRows reports whether the payload carried a list of row objects.
func (p Payload) HasRows() bool { return p.rows == rowsList }

// HasError reports whether the payload carried an error marker.
func (p Payload) HasError() bool { return p.hasError }

// Usable reports whether the rows can be turned into a table. Rows win over
// an error marker: warnings may travel next to data.
func (p Payload) Usable() bool { return !p.notObject && p.HasRows() }

// UnmarshalJSON decodes the endpoint body. Shape problems are recorded and
// reported by Validate instead of failing the decode.
func (p *Payload) UnmarshalJSON(b []byte) error {
	*p = Payload{}
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		p.notObject = true
		return nil
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &top); err != nil {
		return err
	}

	if raw, ok := top["error"]; ok {
		p.hasError = true
		p.Error = scalarText(raw)
	}
	if raw, ok := top["updatedAt"]; ok {
		p.UpdatedAt = scalarText(raw)
	}
	if raw, ok := top["sheet"]; ok {
		p.Sheet = scalarText(raw)
	}
	if raw, ok := top["status_code"]; ok {
		_ = json.Unmarshal(raw, &p.StatusCode)
	}
	if raw, ok := top["text"]; ok {
		p.Text = scalarText(raw)
	}

	raw, ok := top["rows"]
	if !ok || string(bytes.TrimSpace(raw)) == "null" {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		p.rows = rowsNotList
		return nil //nolint:nilerr // recorded as a shape problem
	}
	p.rows = rowsList
	p.Rows = make([]RawRow, 0, len(items))
	for _, it := range items {
		var row RawRow
		if err := json.Unmarshal(it, &row); err != nil || row == nil {
			p.rows = rowsNotObjects
			p.Rows = nil
			return nil //nolint:nilerr // recorded as a shape problem
		}
		p.Rows = append(p.Rows, row)
	}
	return nil
}

// MarshalJSON writes the wire shape back out.
func (p Payload) MarshalJSON() ([]byte, error) {
	out := map[string]any{}
	if p.HasRows() {
		out["rows"] = p.Rows
	}
	if p.UpdatedAt != "" {
		out["updatedAt"] = p.UpdatedAt
	}
	if p.Sheet != "" {
		out["sheet"] = p.Sheet
	}
	if p.hasError {
		out["error"] = p.Error
		if p.StatusCode != 0 {
			out["status_code"] = p.StatusCode
		}
		if p.Text != "" {
			out["text"] = p.Text
		}
	}
	return json.Marshal(out)
}

// scalarText renders a JSON value as text: strings unquoted, null empty, anything else verbatim.
func scalarText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	t := strings.TrimSpace(string(raw))
	if t == "null" {
		return ""
	}
	return t
}
