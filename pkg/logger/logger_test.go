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

			Convey("Then Get returns a logger", func() {
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When it writes JSON to a buffer", func() {
			var buf bytes.Buffer
			So(Init(WithOutput(&buf), WithFormat("json")), ShouldBeNil)
			Get().Info(context.Background(), "evaluated", String("tier", "High"), Float64("composite", 0.56), Error(errors.New("boom")))

			Convey("Then the record carries fields and the caller source", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "evaluated")
				So(rec["tier"], ShouldEqual, "High")
				So(rec["composite"], ShouldEqual, 0.56)
				So(rec["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When a named logger writes text", func() {
			var buf bytes.Buffer
			So(Init(WithOutput(&buf), WithFormat("text")), ShouldBeNil)
			Named("engine").Warn(context.Background(), "slow")

			Convey("Then the name is attached", func() {
				So(buf.String(), ShouldContainSubstring, "logger=engine")
				So(buf.String(), ShouldContainSubstring, "level=WARN")
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When the level is raised to error", func() {
			So(SetLevelString("ERROR"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Error(ctx, "shown")

			Convey("Then lower levels are dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(strings.Count(buf.String(), "shown"), ShouldEqual, 1)
			})
		})

		Convey("When the level is debug", func() {
			So(SetLevelString(" debug "), ShouldBeNil)
			Get().Debug(ctx, "trace")
			So(buf.String(), ShouldContainSubstring, "trace")
		})

		Convey("When the level is unknown", func() {
			So(SetLevelString("verbose"), ShouldNotBeNil)
		})

		Reset(func() { _ = SetLevelString("info") })
	})
}
