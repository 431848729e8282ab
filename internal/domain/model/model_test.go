package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/okian/painel/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func decode(body string) Payload {
	var p Payload
	So(json.Unmarshal([]byte(body), &p), ShouldBeNil)
	return p
}

func TestPayloadDecode(t *testing.T) {
	Convey("Given endpoint bodies", t, func() {
		Convey("When the body carries rows and metadata", func() {
			p := decode(`{"rows":[{"INDICADORES":"x","VALOR":1}],"updatedAt":"2024-01-02","sheet":"KPIs"}`)

			Convey("Then rows and metadata are kept", func() {
				So(p.Usable(), ShouldBeTrue)
				So(p.HasError(), ShouldBeFalse)
				So(len(p.Rows), ShouldEqual, 1)
				So(p.UpdatedAt, ShouldEqual, "2024-01-02")
				So(p.Sheet, ShouldEqual, "KPIs")
			})
		})

		Convey("When rows and an error marker coexist", func() {
			p := decode(`{"rows":[],"error":"stale cache"}`)

			Convey("Then the payload is still usable", func() {
				So(p.HasError(), ShouldBeTrue)
				So(p.Usable(), ShouldBeTrue)
				msg, err := Validate(p)
				So(err, ShouldBeNil)
				So(msg, ShouldEqual, "Payload OK (rows vazio).")
			})
		})

		Convey("When the error marker is not a string", func() {
			p := decode(`{"error":{"code":3}}`)

			Convey("Then it is kept as text", func() {
				So(p.Error, ShouldEqual, `{"code":3}`)
				_, err := Validate(p)
				So(errors.Is(err, ErrEndpoint), ShouldBeTrue)
			})
		})

		Convey("When the body is a JSON array", func() {
			p := decode(`[1,2]`)

			Convey("Then validation rejects it", func() {
				So(p.Usable(), ShouldBeFalse)
				_, err := Validate(p)
				So(errors.Is(err, ErrNotObject), ShouldBeTrue)
			})
		})

		Convey("When the payload is re-encoded", func() {
			b, err := json.Marshal(SoftFailure(SoftFailMessage, 200, "<html>"))

			Convey("Then the soft-fail fields are written", func() {
				So(err, ShouldBeNil)
				So(string(b), ShouldContainSubstring, `"status_code":200`)
				So(string(b), ShouldContainSubstring, `"text":"<html>"`)
			})
		})
	})
}

func TestValidate(t *testing.T) {
	Convey("Given payload shapes", t, func() {
		cases := []struct {
			body string
			msg  string
			err  error
		}{
			{`{"error":"boom"}`, "Endpoint retornou erro: boom", ErrEndpoint},
			{`{}`, "Payload inválido: campo 'rows' ausente.", ErrRowsMissing},
			{`{"rows":null}`, "Payload inválido: campo 'rows' ausente.", ErrRowsMissing},
			{`{"rows":"x"}`, "Payload inválido: campo 'rows' não é uma lista.", ErrRowsInvalid},
			{`{"rows":[1]}`, "Payload inválido: items de 'rows' não são objetos.", ErrRowsInvalid},
			{`{"rows":[{"INDICADORES":"a","RESPONSÁVEL":"b"}]}`, "Payload OK (colunas ausentes serão preenchidas): VALOR, DATA_ATUALIZAÇÃO", nil},
			{`{"rows":[{"INDICADORES":"a","RESPONSÁVEL":"b","VALOR":1,"DATA_ATUALIZAÇÃO":null}]}`, "Payload OK.", nil},
		}

		for _, c := range cases {
			msg, err := Validate(decode(c.body))
			So(msg, ShouldEqual, c.msg)
			if c.err == nil {
				So(err, ShouldBeNil)
			} else {
				So(errors.Is(err, c.err), ShouldBeTrue)
			}
		}

		Convey("And a soft failure reads as an endpoint error", func() {
			msg, err := Validate(SoftFailure(SoftFailMessage, 200, "oops"))
			So(errors.Is(err, ErrEndpoint), ShouldBeTrue)
			So(msg, ShouldEqual, "Endpoint retornou erro: "+SoftFailMessage)
		})
	})
}

func TestNormText(t *testing.T) {
	Convey("Given messy spreadsheet text", t, func() {
		Convey("Then invisible characters go and whitespace collapses", func() {
			So(NormText("  reuni\u200bões \u00a0ocorridas\ufeff "), ShouldEqual, "REUNIÕES OCORRIDAS")
			So(NormText("sdr\u00ad"), ShouldEqual, "SDR")
			So(NormText(""), ShouldEqual, "")
		})
	})
}

func TestToTable(t *testing.T) {
	Convey("Given raw rows", t, func() {
		p := NewPayload([]RawRow{
			{ColIndicator: " reuniões ocorridas ", ColResponsible: "sdr", ColValue: "10", ColUpdatedAt: "2024-01-01T00:00:00Z"},
			{ColIndicator: "FATURAMENTO", ColResponsible: "ana", ColValue: "n/a", ColUpdatedAt: "ontem"},
			{ColIndicator: "FATURAMENTO", ColResponsible: "bia", ColValue: 7.5, ColUpdatedAt: "2024-01-01 12:00:00"},
			{ColIndicator: "LEADS"},
		})

		Convey("When converted", func() {
			tbl := ToTable(p)

			Convey("Then text is normalized and bad cells become null", func() {
				So(len(tbl), ShouldEqual, 4)
				So(tbl[0].Indicator, ShouldEqual, "REUNIÕES OCORRIDAS")
				So(tbl[0].Responsible, ShouldEqual, "SDR")
				So(tbl[0].Value.Or(-1), ShouldEqual, 10)
				So(tbl[0].UpdatedAt.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)), ShouldBeTrue)
				So(tbl[1].Value.Valid(), ShouldBeFalse)
				So(tbl[1].HasTimestamp(), ShouldBeFalse)
				So(tbl[2].Value.Or(-1), ShouldEqual, 7.5)
				So(tbl[2].UpdatedAt.Hour(), ShouldEqual, 12)
				So(tbl[3].Responsible, ShouldEqual, "")
				So(tbl.NullValues(), ShouldEqual, 2)
			})
		})

		Convey("When the payload has no rows", func() {
			Convey("Then the table is empty", func() {
				So(ToTable(NewPayload(nil)), ShouldBeEmpty)
				So(Latest(ToTable(NewPayload(nil))), ShouldBeEmpty)
			})
		})

		Convey("When a timestamp carries an offset", func() {
			ts := ParseTime("2024-01-01T03:00:00-03:00")

			Convey("Then it is converted to UTC", func() {
				So(ts.Location(), ShouldEqual, time.UTC)
				So(ts.Hour(), ShouldEqual, 6)
			})
		})
	})
}

func TestLatest(t *testing.T) {
	Convey("Given duplicated readings", t, func() {
		body := `{"rows":[
			{"INDICADORES":"REUNIÕES OCORRIDAS","RESPONSÁVEL":"SDR","VALOR":"12","DATA_ATUALIZAÇÃO":"2024-01-02T00:00:00Z"},
			{"INDICADORES":"REUNIÕES OCORRIDAS","RESPONSÁVEL":"SDR","VALOR":"10","DATA_ATUALIZAÇÃO":"2024-01-01T00:00:00Z"}
		]}`

		Convey("When reducing to the latest", func() {
			tbl := Latest(ToTable(decode(body)))

			Convey("Then the later timestamp wins regardless of payload order", func() {
				So(len(tbl), ShouldEqual, 1)
				So(tbl[0].Value.Or(0), ShouldEqual, 12)
			})
		})

		Convey("When some timestamps are null", func() {
			tbl := Latest(Table{
				{Indicator: "A", Responsible: "X", Value: someNum(1), UpdatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
				{Indicator: "A", Responsible: "X", Value: someNum(2)},
			})

			Convey("Then null timestamps sort first and lose", func() {
				So(tbl[0].Value.Or(0), ShouldEqual, 1)
			})
		})

		Convey("When no row has a timestamp", func() {
			tbl := Latest(Table{
				{Indicator: "A", Responsible: "X", Value: someNum(1)},
				{Indicator: "B", Responsible: "X", Value: someNum(5)},
				{Indicator: "A", Responsible: "X", Value: someNum(2)},
			})

			Convey("Then payload order decides", func() {
				So(len(tbl), ShouldEqual, 2)
				So(tbl[1].Indicator, ShouldEqual, "A")
				So(tbl[1].Value.Or(0), ShouldEqual, 2)
			})

			Convey("And reducing again changes nothing", func() {
				So(Latest(tbl), ShouldResemble, tbl)
			})
		})
	})
}

func someNum(v float64) types.Num { return types.Some(v) }
