package similarity_test

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/edgeline/internal/domain/model"
	"github.com/okian/edgeline/internal/domain/similarity"
	"github.com/okian/edgeline/internal/domain/types"
)

func teamProfile(id string, pace, pointsFor, pointsAgainst float64, sample int) model.Profile {
	return model.Profile{
		EntityID: id,
		Kind:     types.KindTeam,
		Metrics: map[string]float64{
			"pace":           pace,
			"points_for":     pointsFor,
			"points_against": pointsAgainst,
		},
		SampleSize: sample,
	}
}

func TestFindSimilarRanking(t *testing.T) {
	Convey("Given an index over team profiles", t, func() {
		idx := similarity.NewIndex(similarity.WithTopN(3), similarity.WithMinSampleSize(10))
		target := teamProfile("den_nuggets", 100, 115, 110, 82)

		Convey("When the target itself is among the candidates", func() {
			candidates := []model.Profile{
				teamProfile("den_nuggets", 100, 115, 110, 82),
				teamProfile("bos_celtics", 99, 118, 108, 82),
				teamProfile("det_pistons", 95, 105, 118, 82),
			}
			res, err := idx.FindSimilar(target, candidates)

			Convey("Then it ranks first with a perfect score", func() {
				So(err, ShouldBeNil)
				So(res.Matches[0].EntityID, ShouldEqual, "den_nuggets")
				So(res.Matches[0].Score, ShouldEqual, 1.0)
			})

			Convey("Then scores descend down the ranking", func() {
				So(err, ShouldBeNil)
				for i := 1; i < len(res.Matches); i++ {
					So(res.Matches[i].Score, ShouldBeLessThanOrEqualTo, res.Matches[i-1].Score)
				}
				So(res.EntityIDs(), ShouldResemble, []string{"den_nuggets", "bos_celtics", "det_pistons"})
			})
		})

		Convey("When one candidate differs by exactly one scale unit on one metric", func() {
			// pace scale is 3.0; a 3-point pace gap normalizes to 1.0 on
			// that metric and zero elsewhere, so with three equal weights
			// the score is 1 - 1/3.
			candidates := []model.Profile{
				teamProfile("okc_thunder", 103, 115, 110, 82),
			}
			res, err := idx.FindSimilar(target, candidates)

			Convey("Then the score reflects the weighted mean difference", func() {
				So(err, ShouldBeNil)
				So(res.Matches[0].Score, ShouldAlmostEqual, 1.0-1.0/3.0, 1e-9)
			})
		})

		Convey("When a candidate is wildly different on one metric", func() {
			candidates := []model.Profile{
				teamProfile("outlier", 100, 500, 110, 82),
				teamProfile("near", 100, 121, 110, 82),
			}
			res, err := idx.FindSimilar(target, candidates)

			Convey("Then the per-metric difference is clipped at one scale unit", func() {
				So(err, ShouldBeNil)
				// points_for scale is 6.0: both the 385-point gap and the
				// 6-point gap saturate to the same normalized difference.
				So(res.Matches[0].Score, ShouldAlmostEqual, res.Matches[1].Score, 1e-9)
			})
		})
	})
}

func TestFindSimilarFilteringAndTies(t *testing.T) {
	Convey("Given an index with a sample floor of 50", t, func() {
		idx := similarity.NewIndex(similarity.WithTopN(5), similarity.WithMinSampleSize(50))
		target := teamProfile("den_nuggets", 100, 115, 110, 82)

		Convey("When candidates fall below the floor", func() {
			candidates := []model.Profile{
				teamProfile("thin", 100, 115, 110, 12),
				teamProfile("thick", 90, 100, 125, 82),
			}
			res, err := idx.FindSimilar(target, candidates)

			Convey("Then thin candidates are excluded before scoring", func() {
				So(err, ShouldBeNil)
				So(res.EntityIDs(), ShouldResemble, []string{"thick"})
			})
		})

		Convey("When candidates tie on score", func() {
			candidates := []model.Profile{
				teamProfile("zeta", 101, 115, 110, 60),
				teamProfile("alpha", 101, 115, 110, 60),
				teamProfile("mid", 101, 115, 110, 70),
			}
			res, err := idx.FindSimilar(target, candidates)

			Convey("Then sample size breaks the tie, then entity id", func() {
				So(err, ShouldBeNil)
				So(res.EntityIDs(), ShouldResemble, []string{"mid", "alpha", "zeta"})
			})
		})

		Convey("When a candidate has a different kind", func() {
			bad := model.Profile{EntityID: "goalie_31", Kind: types.KindGoalie, SampleSize: 90,
				Metrics: map[string]float64{}}
			_, err := idx.FindSimilar(target, []model.Profile{bad})

			Convey("Then the query fails with a kind mismatch", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, similarity.ErrKindMismatch), ShouldBeTrue)
			})
		})

		Convey("When more candidates qualify than topN", func() {
			small := similarity.NewIndex(similarity.WithTopN(2), similarity.WithMinSampleSize(0))
			candidates := []model.Profile{
				teamProfile("a", 100, 115, 110, 82),
				teamProfile("b", 101, 115, 110, 82),
				teamProfile("c", 102, 115, 110, 82),
				teamProfile("d", 103, 115, 110, 82),
			}
			res, err := small.FindSimilar(target, candidates)

			Convey("Then the ranking is truncated", func() {
				So(err, ShouldBeNil)
				So(res.EntityIDs(), ShouldResemble, []string{"a", "b"})
			})
		})

		Convey("When there are no candidates at all", func() {
			res, err := idx.FindSimilar(target, nil)

			Convey("Then an empty ranking is returned, not an error", func() {
				So(err, ShouldBeNil)
				So(len(res.Matches), ShouldEqual, 0)
				So(res.TargetID, ShouldEqual, "den_nuggets")
			})
		})
	})
}
