package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/types"
	"github.com/smartystreets/goconvey/convey"
)

func TestWindowKey(t *testing.T) {
	convey.Convey("Given a window over multiple seasons", t, func() {
		w := model.Window{Seasons: []int{2025, 2023, 2024}}

		convey.Convey("Then the key is deterministic regardless of season order", func() {
			other := model.Window{Seasons: []int{2023, 2024, 2025}}
			convey.So(w.Key(), convey.ShouldEqual, other.Key())
			convey.So(w.Key(), convey.ShouldEqual, "2023,2024,2025")
		})

		convey.Convey("Then different windows produce different keys", func() {
			other := model.Window{Seasons: []int{2023, 2024}}
			convey.So(w.Key(), convey.ShouldNotEqual, other.Key())
		})
	})
}

func TestMarketQuoteClosingLineValue(t *testing.T) {
	convey.Convey("Given a quote with an opening line", t, func() {
		q := model.MarketQuote{Line: 26.5, Price: -110, OpeningLine: model.Float(25.5)}

		convey.Convey("Then CLV is the move from open to current", func() {
			clv, ok := q.ClosingLineValue()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(clv, convey.ShouldAlmostEqual, 1.0, 1e-9)
		})
	})

	convey.Convey("Given a quote without an opening line", t, func() {
		q := model.MarketQuote{Line: 26.5, Price: -110}

		convey.Convey("Then CLV is not available", func() {
			_, ok := q.ClosingLineValue()
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestEdgeResultRoundTrip(t *testing.T) {
	convey.Convey("Given a fully populated edge result", t, func() {
		in := model.EdgeResult{
			HasEdge:        true,
			HitRate:        60.0,
			RequiredRate:   52.38,
			EdgePercent:    7.62,
			PublicSide:     true,
			SharpSide:      false,
			Warnings:       []string{"public side (75% of bets)", "small sample (8 games)"},
			Signals:        []string{"public/sharp divergence: public heavy, sharps fading"},
			Recommendation: types.Caution,
			Confidence:     types.Low,
		}

		convey.Convey("When serialized and deserialized", func() {
			raw, err := json.Marshal(in)
			convey.So(err, convey.ShouldBeNil)

			var out model.EdgeResult
			convey.So(json.Unmarshal(raw, &out), convey.ShouldBeNil)

			convey.Convey("Then every field survives, including ordered lists", func() {
				convey.So(out, convey.ShouldResemble, in)
				convey.So(out.Warnings[0], convey.ShouldEqual, in.Warnings[0])
				convey.So(out.Warnings[1], convey.ShouldEqual, in.Warnings[1])
				convey.So(out.Signals, convey.ShouldResemble, in.Signals)
			})
		})
	})
}
