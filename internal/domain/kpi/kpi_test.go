package kpi

import (
	"encoding/json"
	"testing"

	"github.com/okian/painel/internal/domain/model"
	"github.com/okian/painel/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func row(ind, resp string, v types.Num) model.Row {
	return model.Row{Indicator: ind, Responsible: resp, Value: v}
}

func num(v float64) types.Num { return types.Some(v) }

func TestValueOf(t *testing.T) {
	Convey("Given a latest table", t, func() {
		tbl := model.Table{
			row(MeetingsActual, "SDR", num(10)),
			row(MeetingsActual, "ANA", num(4)),
			row(RevenuePaid, "CLOSER", types.None()),
		}

		Convey("Then lookups match case-insensitively", func() {
			So(ValueOf(tbl, "reuniões ocorridas", "sdr").Or(-1), ShouldEqual, 10)
			So(ValueOf(tbl, MeetingsActual, "").Or(-1), ShouldEqual, 4)
		})

		Convey("Then misses and null cells are None", func() {
			So(ValueOf(tbl, Leads, "SDR").Valid(), ShouldBeFalse)
			So(ValueOf(tbl, RevenuePaid, "CLOSER").Valid(), ShouldBeFalse)
		})
	})
}

func TestTotal(t *testing.T) {
	Convey("Given team and per-person rows", t, func() {
		tbl := model.Table{
			row(Revenue, "ANA", num(100)),
			row(Revenue, "BIA", num(50)),
			row(Revenue, "CLOSER", num(1000)),
			row(Revenue, "CAIO", types.None()),
		}

		Convey("When a preferred responsible exists", func() {
			Convey("Then its row wins over the sum", func() {
				So(Total(tbl, Revenue, "CLOSER").Or(-1), ShouldEqual, 1000)
			})
		})

		Convey("When the preferred row is excluded or absent", func() {
			Convey("Then numeric rows are summed and nulls skipped", func() {
				So(Total(tbl, Revenue, "", "CLOSER").Or(-1), ShouldEqual, 150)
				So(Total(tbl, Revenue, "SDR", "closer").Or(-1), ShouldEqual, 150)
			})
		})

		Convey("When no row has a number", func() {
			Convey("Then the total is None", func() {
				So(Total(model.Table{row(Leads, "X", types.None())}, Leads, "").Valid(), ShouldBeFalse)
				So(Total(tbl, Leads, "").Valid(), ShouldBeFalse)
			})
		})
	})
}

func TestPerPersonAndShares(t *testing.T) {
	Convey("Given per-person rows", t, func() {
		tbl := model.Table{
			row(MeetingsActual, "SDR", num(9)),
			row(MeetingsActual, "ANA", num(2)),
			row(MeetingsActual, "BIA", num(6)),
			row(MeetingsActual, "CAIO", types.None()),
		}

		Convey("When listing per person", func() {
			items := PerPerson(tbl, MeetingsActual, Teams()...)

			Convey("Then null values are omitted", func() {
				So(items, ShouldResemble, []types.Item{{Name: "ANA", Value: 2}, {Name: "BIA", Value: 6}})
			})

			Convey("And shares are sorted and sum to 100", func() {
				shares := SharesOf(items)
				So(shares[0].Name, ShouldEqual, "BIA")
				So(shares[0].Percent, ShouldEqual, 75)
				So(shares[1].Percent, ShouldEqual, 25)
			})
		})

		Convey("When sharing edge inputs", func() {
			Convey("Then empty stays empty and one item is 100%", func() {
				So(SharesOf(nil), ShouldBeEmpty)
				So(SharesOf([]types.Item{{Name: "A", Value: 7}})[0].Percent, ShouldEqual, 100)
				So(SharesOf([]types.Item{{Name: "A", Value: 0}})[0].Percent, ShouldEqual, 0)
			})
		})
	})
}

func TestTopNWithOthers(t *testing.T) {
	Convey("Given ranked items", t, func() {
		items := SharesOf([]types.Item{{Name: "A", Value: 5}, {Name: "B", Value: 3}, {Name: "C", Value: 1}, {Name: "D", Value: 1}})

		Convey("When there are no more than n items", func() {
			Convey("Then items come back unchanged", func() {
				So(TopNWithOthers(items, 4, "OUTROS"), ShouldResemble, items)
				So(TopNWithOthers(items, 0, "OUTROS"), ShouldResemble, items)
			})
		})

		Convey("When the rest is folded", func() {
			out := TopNWithOthers(items, 2, "OUTROS")

			Convey("Then an others bucket carries the remainder", func() {
				So(len(out), ShouldEqual, 3)
				So(out[2].Name, ShouldEqual, "OUTROS")
				So(out[2].Value, ShouldEqual, 2)
				So(out[0].Percent, ShouldEqual, 50)
				So(out[2].Percent, ShouldEqual, 20)
			})
		})

		Convey("When the rest sums to zero", func() {
			out := TopNWithOthers([]types.Item{{Name: "A", Value: 3}, {Name: "B", Value: 1}, {Name: "C", Value: 0}}, 2, "")

			Convey("Then no bucket is added and percents cover the top", func() {
				So(len(out), ShouldEqual, 2)
				So(out[0].Percent, ShouldEqual, 75)
			})
		})
	})
}

func TestRatios(t *testing.T) {
	Convey("Given the rate policy", t, func() {
		Convey("Then ratio and percent inputs converge", func() {
			So(RatioToPercent(num(0.85)), ShouldAlmostEqual, 85, 1e-9)
			So(RatioToPercent(num(85)), ShouldEqual, 85)
			So(RatioToPercent(num(1.2)), ShouldEqual, 100)
			So(RatioToPercent(num(250)), ShouldEqual, 100)
			So(RatioToPercent(num(-3)), ShouldEqual, 0)
			So(RatioToPercent(types.None()), ShouldEqual, 0)
		})

		Convey("Then the ceiling is configurable", func() {
			p := Policy{RatioCeiling: 1}
			So(p.RatioToPercent(num(1.2)), ShouldAlmostEqual, 1.2, 1e-9)
			So(p.AsRatio(num(120)).Or(0), ShouldAlmostEqual, 1.2, 1e-9)
			So(DefaultPolicy().AsRatio(num(0.9)).Or(0), ShouldEqual, 0.9)
		})

		Convey("Then ratios and gauge percents handle missing data", func() {
			So(Ratio(num(3), num(4)).Or(0), ShouldEqual, 0.75)
			So(Ratio(num(3), num(0)).Valid(), ShouldBeFalse)
			So(Ratio(types.None(), num(2)).Valid(), ShouldBeFalse)
			So(PercentOfRatio(num(1.4)), ShouldEqual, 100)
			So(PercentOfRatio(types.None()), ShouldEqual, 0)
		})
	})
}

func TestEndToEnd(t *testing.T) {
	Convey("Given spreadsheet payloads", t, func() {
		Convey("When the same reading arrives twice", func() {
			var p model.Payload
			So(json.Unmarshal([]byte(`{"rows":[
				{"INDICADORES":"REUNIÕES OCORRIDAS","RESPONSÁVEL":"SDR","VALOR":"10","DATA_ATUALIZAÇÃO":"2024-01-01T00:00:00Z"},
				{"INDICADORES":"REUNIÕES OCORRIDAS","RESPONSÁVEL":"SDR","VALOR":"12","DATA_ATUALIZAÇÃO":"2024-01-02T00:00:00Z"}
			]}`), &p), ShouldBeNil)

			Convey("Then the later timestamp wins", func() {
				So(ValueOf(model.Latest(model.ToTable(p)), "REUNIÕES OCORRIDAS", "SDR").Or(0), ShouldEqual, 12)
			})
		})

		Convey("When rows are empty", func() {
			tbl := model.Latest(model.ToTable(model.NewPayload(nil)))
			b := BuildBoard(tbl, DefaultBoardOptions())

			Convey("Then every metric is None or empty", func() {
				So(ValueOf(tbl, MeetingsActual, "SDR").Valid(), ShouldBeFalse)
				So(Total(tbl, Revenue, "CLOSER").Valid(), ShouldBeFalse)
				So(PerPerson(tbl, Revenue), ShouldBeEmpty)
				So(b.Meetings.Actual.Valid(), ShouldBeFalse)
				So(b.Revenue.Ratio.Valid(), ShouldBeFalse)
				So(b.Conversion.Valid(), ShouldBeFalse)
				So(b.MeetingsByPerson, ShouldBeEmpty)
				So(b.Closers, ShouldBeEmpty)
				So(b.Funnel.LeadsToMeetings, ShouldEqual, 0)
			})
		})
	})
}

func TestBuildBoard(t *testing.T) {
	Convey("Given a full latest table", t, func() {
		tbl := model.Table{
			row(MeetingsActual, "SDR", num(40)),
			row(MeetingsGoal, "SDR", num(50)),
			row(MeetingsPercent, "SDR", num(0.8)),
			row(MeetingsGap, "SDR", num(10)),
			row(MeetingsActual, "ANA", num(30)),
			row(MeetingsActual, "BIA", num(10)),
			row(Revenue, "CLOSER", num(90000)),
			row(RevenueGoal, "CLOSER", num(100000)),
			row(Leads, "SDR", num(200)),
			row(ContractsSigned, "JOAO", num(3)),
			row(ContractsSigned, "NURY", num(5)),
			row(RevenueSigned, "JOAO", num(40000)),
			row(RevenueSigned, "NURY", num(60000)),
			row(RevenuePaid, "JOAO", num(35000)),
			row(RevenuePaid, "NURY", num(20000)),
			row(RevenuePaidPerc, "JOAO", num(0.875)),
			row(ConversionRate, "ANA", num(12.5)),
			row(ConversionRate, "BIA", num(0.2)),
		}

		Convey("When building the board", func() {
			b := BuildBoard(tbl, DefaultBoardOptions())

			Convey("Then goals come from team rows", func() {
				So(b.Meetings.Actual.Or(0), ShouldEqual, 40)
				So(b.Meetings.Ratio.Or(0), ShouldEqual, 0.8)
				So(b.Meetings.Gap.Or(0), ShouldEqual, 10)
			})

			Convey("Then revenue falls back to the plain indicator", func() {
				So(b.Revenue.Actual.Or(0), ShouldEqual, 90000)
				So(b.Revenue.Ratio.Or(0), ShouldEqual, 0.9)
			})

			Convey("Then totals sum people when no team row exists", func() {
				So(b.Contracts.Or(0), ShouldEqual, 8)
				So(b.RevenueSigned.Or(0), ShouldEqual, 100000)
				So(b.RevenuePaid.Or(0), ShouldEqual, 55000)
				So(b.Leads.Or(0), ShouldEqual, 200)
			})

			Convey("Then the funnel has stage conversions", func() {
				So(b.Funnel.LeadsToMeetings, ShouldEqual, 20)
				So(b.Funnel.MeetingsToContracts, ShouldEqual, 20)
			})

			Convey("Then conversion falls back to contracts over leads", func() {
				So(b.Conversion.Or(0), ShouldEqual, 4)
			})

			Convey("Then people rankings exclude team rows", func() {
				So(len(b.MeetingsByPerson), ShouldEqual, 2)
				So(b.MeetingsByPerson[0].Name, ShouldEqual, "ANA")
				So(b.MeetingsByPerson[0].Percent, ShouldEqual, 75)
				So(b.ConversionByPerson[0].Name, ShouldEqual, "BIA")
				So(b.ConversionByPerson[0].Percent, ShouldEqual, 20)
				So(b.ConversionByPerson[1].Percent, ShouldEqual, 12.5)
			})

			Convey("Then closers are ranked by paid revenue", func() {
				So(len(b.Closers), ShouldEqual, 2)
				So(b.Closers[0].Name, ShouldEqual, "JOAO")
				So(b.Closers[0].Contracts.Or(0), ShouldEqual, 3)
				So(b.Closers[0].PaidPercent.Or(0), ShouldEqual, 87.5)
				So(b.Closers[1].PaidPercent.Valid(), ShouldBeFalse)
			})
		})
	})
}
