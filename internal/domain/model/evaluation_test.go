package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/spdi/internal/domain/model"
	"github.com/okian/spdi/internal/domain/spdi"
	"github.com/smartystreets/goconvey/convey"
)

func TestEvaluation(t *testing.T) {
	convey.Convey("Given an Evaluation struct", t, func() {
		convey.Convey("When it carries validation errors", func() {
			in := spdi.MatchInput{StarBatterRuns1: 100, StarBatterRuns2: 100, TeamTotalRuns: 150, TeamTotalWickets: 1}
			ev := model.Evaluation{ID: "ev-1", Input: in, Errors: spdi.Validate(in)}

			convey.Convey("Then it is invalid and exposes the messages", func() {
				convey.So(ev.Valid(), convey.ShouldBeFalse)
				convey.So(ev.Messages(), convey.ShouldResemble, []string{"Total runs by star batsmen cannot exceed team total!"})
			})

			convey.Convey("And the result is omitted from JSON", func() {
				b, err := json.Marshal(ev)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(b), convey.ShouldNotContainSubstring, `"result"`)
				convey.So(string(b), convey.ShouldContainSubstring, `"rule":"batting_sum_exceeds_total"`)
			})
		})

		convey.Convey("When it is created with zero values", func() {
			ev := model.Evaluation{}

			convey.Convey("Then it is valid with no messages", func() {
				convey.So(ev.Valid(), convey.ShouldBeTrue)
				convey.So(ev.Messages(), convey.ShouldBeEmpty)
				convey.So(ev.Result, convey.ShouldBeNil)
			})
		})
	})
}
