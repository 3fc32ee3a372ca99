package main

import (
	"bytes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRunOnce(t *testing.T) {
	Convey("Given the dashboard in report mode", t, func() {
		var out bytes.Buffer

		Convey("With the default match", func() {
			err := run([]string{"-once"}, &out)

			Convey("Then a high-risk report is printed", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "High Risk")
				So(out.String(), ShouldContainSubstring, "Overall SPDI: 0.564")
				So(out.String(), ShouldContainSubstring, "Live Match")
			})
		})

		Convey("With counts that break the wicket cap", func() {
			err := run([]string{"-once", "-bowler1", "11", "-wickets", "12"}, &out)

			Convey("Then the rule message is printed", func() {
				So(err, ShouldBeNil)
				So(out.String(), ShouldContainSubstring, "A bowler cannot take more than 10 wickets.")
			})
		})

		Convey("With an unknown flag", func() {
			err := run([]string{"-bogus"}, &out)

			Convey("Then parsing fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}
