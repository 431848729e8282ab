package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When it is initialized with defaults", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get returns a usable logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})
	})
}

func TestLoggerTextOutput(t *testing.T) {
	Convey("Given a text logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging at info", func() {
			Get().Info(ctx, "cycle finished", String("cycle_id", "abc"), Int("rows", 3))

			Convey("Then message, fields and source are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "cycle finished")
				So(out, ShouldContainSubstring, "cycle_id=abc")
				So(out, ShouldContainSubstring, "rows=3")
				So(out, ShouldContainSubstring, "source=")
			})
		})

		Convey("When debug is logged at the default level", func() {
			Get().Debug(ctx, "hidden")

			Convey("Then nothing is written", func() {
				So(buf.String(), ShouldBeEmpty)
			})
		})

		Convey("When the level is lowered to debug", func() {
			So(SetLevelString("DEBUG"), ShouldBeNil)
			Get().Debug(ctx, "visible")

			Convey("Then debug lines appear", func() {
				So(buf.String(), ShouldContainSubstring, "visible")
			})
		})
	})
}

func TestLoggerJSONOutput(t *testing.T) {
	Convey("Given a json logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithFormat(FormatJSON), WithOutput(&buf)), ShouldBeNil)

		Convey("When a named logger with fields logs an error", func() {
			Named("sheets").With(String("cycle_id", "c1")).Error(context.Background(), "fetch failed", Error(errors.New("boom")))

			Convey("Then the line is valid JSON with component and fields", func() {
				var line map[string]any
				So(json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "fetch failed")
				So(line["component"], ShouldEqual, "sheets")
				So(line["cycle_id"], ShouldEqual, "c1")
				So(line["error"], ShouldEqual, "boom")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level strings", t, func() {
		So(Init(), ShouldBeNil)

		Convey("Then known levels are accepted", func() {
			for _, l := range []string{"debug", "info", "", "warn", "warning", "error", " Info "} {
				So(SetLevelString(l), ShouldBeNil)
			}
		})

		Convey("And unknown levels are rejected", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})
	})
}
