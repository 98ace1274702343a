package scoring_test

import (
	"encoding/json"
	"fmt"
	"math"
	"testing"

	scoring "github.com/okian/talentmatch/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

func f(v float64) *float64 { return &v }

func TestScoreCoreCompetencies(t *testing.T) {
	Convey("Given the core competency scorer", t, func() {
		Convey("When every pillar is perfect and both bonus pillars qualify", func() {
			r := scoring.ScoreCoreCompetencies(5.0, f(4.0), f(4.0))

			Convey("Then the rate should be capped at 100", func() {
				So(r.Valid, ShouldBeTrue)
				So(r.Value, ShouldEqual, 100.0)
			})
		})

		Convey("When the average is 3.0 and neither bonus pillar qualifies", func() {
			r := scoring.ScoreCoreCompetencies(3.0, f(3.0), f(3.0))

			Convey("Then the rate should be the plain ratio", func() {
				So(r.Value, ShouldEqual, 60.0)
			})
		})

		Convey("When only GDR qualifies", func() {
			r := scoring.ScoreCoreCompetencies(3.5, f(4.5), f(3.9))

			Convey("Then a single bonus should apply", func() {
				So(r.Value, ShouldEqual, 80.0)
			})
		})

		Convey("When GDR and CEX were never rated", func() {
			r := scoring.ScoreCoreCompetencies(3.7, nil, nil)

			Convey("Then no bonus should apply and no error should surface", func() {
				So(r.Valid, ShouldBeTrue)
				So(r.Value, ShouldEqual, 74.0)
			})
		})

		Convey("When the result has more than two decimals", func() {
			r := scoring.ScoreCoreCompetencies(3.33333, nil, f(4.0))

			Convey("Then it should be rounded to two decimals", func() {
				So(r.Value, ShouldEqual, 76.67)
			})
		})
	})
}

func TestScoreBehavioralProfile(t *testing.T) {
	Convey("Given the behavioral profile scorer", t, func() {
		Convey("When the strengths include a favored theme", func() {
			So(scoring.ScoreBehavioralProfile([]string{"Positivity", "Discipline"}).Value, ShouldEqual, 100.0)
			So(scoring.ScoreBehavioralProfile([]string{"Futuristic"}).Value, ShouldEqual, 100.0)
		})

		Convey("When the strengths include no favored theme", func() {
			So(scoring.ScoreBehavioralProfile([]string{"Discipline"}).Value, ShouldEqual, 80.0)
		})

		Convey("When theme casing differs", func() {
			Convey("Then matching should stay exact", func() {
				So(scoring.ScoreBehavioralProfile([]string{"positivity"}).Value, ShouldEqual, 80.0)
			})
		})

		Convey("When the strength set is empty", func() {
			So(scoring.ScoreBehavioralProfile([]string{}).Value, ShouldEqual, 80.0)
		})
	})
}

func TestScoreCognitivePersonality(t *testing.T) {
	Convey("Given the cognitive scorer", t, func() {
		baseline := scoring.Match(100)

		Convey("When the employee exceeds the baseline", func() {
			r := scoring.ScoreCognitivePersonality(f(120), baseline)

			Convey("Then the rate should be capped at 100", func() {
				So(r.Value, ShouldEqual, 100.0)
			})
		})

		Convey("When the employee is below the baseline", func() {
			So(scoring.ScoreCognitivePersonality(f(90), baseline).Value, ShouldEqual, 90.0)
			So(scoring.ScoreCognitivePersonality(f(100), scoring.Match(115)).Value, ShouldEqual, 86.96)
		})

		Convey("When the baseline is zero", func() {
			Convey("Then the rate should be NullMatch", func() {
				So(scoring.ScoreCognitivePersonality(f(90), scoring.Match(0)), ShouldResemble, scoring.NullMatch)
			})
		})

		Convey("When the baseline is missing", func() {
			So(scoring.ScoreCognitivePersonality(f(90), scoring.NullMatch).IsNull(), ShouldBeTrue)
		})

		Convey("When the employee has no IQ", func() {
			So(scoring.ScoreCognitivePersonality(nil, baseline).IsNull(), ShouldBeTrue)
		})
	})
}

func TestScoreContextExperience(t *testing.T) {
	Convey("Given the context & experience ladder", t, func() {
		cases := []struct {
			education string
			tenure    int
			want      float64
		}{
			{"S2", 48, 100},
			{"S2", 47, 70},
			{"S1", 36, 90},
			{"S1", 35, 70},
			{"D3", 50, 85},
			{"SMA", 60, 85},
			{"SMA", 49, 70},
			{"S3", 200, 70},
			{"", 0, 70},
		}

		for _, tc := range cases {
			Convey(fmt.Sprintf("When education is %q with %d months", tc.education, tc.tenure), func() {
				So(scoring.ScoreContextExperience(tc.education, tc.tenure).Value, ShouldEqual, tc.want)
			})
		}
	})
}

func TestScore(t *testing.T) {
	Convey("Given an employee with data for every domain", t, func() {
		in := scoring.Input{
			EmployeeID: "e-1",
			Competency: &scoring.CompetencyInput{AvgPillarScore: 5, GDR: f(4), CEX: f(4)},
			Strengths:  []string{"Positivity"},
			HasProfile: true,
			IQ:         f(100),
			Context:    &scoring.ContextInput{Education: "S1", TenureMonths: 12},
		}

		Convey("When scoring against a baseline", func() {
			rows := scoring.Score(in, scoring.Match(100))

			Convey("Then one row per domain should be produced in order", func() {
				So(len(rows), ShouldEqual, 4)
				for i, d := range scoring.Domains() {
					So(rows[i].Domain, ShouldEqual, d)
					So(rows[i].DomainName, ShouldEqual, d.String())
					So(rows[i].SubMetricName, ShouldEqual, d.SubMetric())
					So(rows[i].EmployeeID, ShouldEqual, "e-1")
					So(rows[i].DomainRate, ShouldResemble, rows[i].SubMetricRate)
				}
			})

			Convey("And baselines should follow each domain", func() {
				So(rows[0].Baseline.Value, ShouldEqual, 1.0)
				So(rows[1].Baseline.Value, ShouldEqual, 100.0)
				So(rows[2].Baseline.Value, ShouldEqual, 100.0)
				So(rows[3].Baseline.Value, ShouldEqual, 100.0)
			})

			Convey("And rates should match each scorer", func() {
				So(rows[0].DomainRate.Value, ShouldEqual, 100.0)
				So(rows[1].DomainRate.Value, ShouldEqual, 100.0)
				So(rows[2].DomainRate.Value, ShouldEqual, 100.0)
				So(rows[3].DomainRate.Value, ShouldEqual, 70.0)
			})
		})
	})

	Convey("Given an employee with only context data", t, func() {
		in := scoring.Input{
			EmployeeID: "e-2",
			Context:    &scoring.ContextInput{Education: "S2", TenureMonths: 60},
		}

		Convey("Then only the context row should be produced", func() {
			rows := scoring.Score(in, scoring.Match(100))
			So(len(rows), ShouldEqual, 1)
			So(rows[0].Domain, ShouldEqual, scoring.ContextExperience)
		})
	})

	Convey("Given a profile without baseline", t, func() {
		in := scoring.Input{EmployeeID: "e-3", HasProfile: true, IQ: f(110)}

		Convey("Then the cognitive row should carry NullMatch", func() {
			rows := scoring.Score(in, scoring.NullMatch)
			So(len(rows), ShouldEqual, 1)
			So(rows[0].DomainRate.IsNull(), ShouldBeTrue)
			So(rows[0].Baseline.IsNull(), ShouldBeTrue)
		})
	})
}

func TestRate(t *testing.T) {
	Convey("Given rates", t, func() {
		Convey("When averaging with a NullMatch present", func() {
			m := scoring.Mean(scoring.Match(100), scoring.NullMatch, scoring.Match(80))

			Convey("Then the null should be left out of the denominator", func() {
				So(m.Value, ShouldEqual, 90.0)
			})
		})

		Convey("When averaging only NullMatch", func() {
			So(scoring.Mean(scoring.NullMatch, scoring.NullMatch).IsNull(), ShouldBeTrue)
			So(scoring.Mean().IsNull(), ShouldBeTrue)
		})

		Convey("When averaging the four reference domain rates", func() {
			m := scoring.Mean(scoring.Match(100), scoring.Match(80), scoring.Match(100), scoring.Match(70))
			So(m.Value, ShouldEqual, 87.5)
			So(m.String(), ShouldEqual, "87.50")
		})

		Convey("When rounding", func() {
			So(scoring.Round2(86.956521), ShouldEqual, 86.96)
			So(scoring.Round2(0.125), ShouldEqual, 0.13)
			So(math.IsNaN(scoring.Round2(math.NaN())), ShouldBeTrue)
		})

		Convey("When a value sits on a half hundredth that binary floats cannot hold", func() {
			Convey("Then it rounds up like a decimal ROUND", func() {
				So(scoring.Round2(1.005), ShouldEqual, 1.01)
				So(scoring.Round2(2.675), ShouldEqual, 2.68)
				So(scoring.Round2(67.635), ShouldEqual, 67.64)
				So(scoring.Round2(-1.005), ShouldEqual, -1.01)
			})

			Convey("Then a mean landing on the half rounds up", func() {
				So(scoring.MeanRounded(60, 80, 60.54, 70), ShouldEqual, 67.64)
				m := scoring.Mean(scoring.Match(60), scoring.Match(80), scoring.Match(60.54), scoring.Match(70))
				So(m.Value, ShouldEqual, 67.64)
			})

			Convey("Then the domain scorers round the same way", func() {
				So(scoring.ScoreCoreCompetencies(4.00025, nil, nil).Value, ShouldEqual, 80.01)
				So(scoring.ScoreCognitivePersonality(f(90.005), scoring.Match(100)).Value, ShouldEqual, 90.01)
			})
		})

		Convey("When averaging nothing or a non-finite value", func() {
			So(math.IsNaN(scoring.MeanRounded()), ShouldBeTrue)
			So(math.IsNaN(scoring.MeanRounded(1, math.Inf(1))), ShouldBeTrue)
			So(scoring.ScoreCoreCompetencies(math.NaN(), nil, nil).IsNull(), ShouldBeTrue)
		})

		Convey("When encoding to JSON", func() {
			b, err := json.Marshal([]scoring.Rate{scoring.Match(87.5), scoring.NullMatch})
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "[87.5,null]")

			var back []scoring.Rate
			So(json.Unmarshal(b, &back), ShouldBeNil)
			So(back[0], ShouldResemble, scoring.Match(87.5))
			So(back[1].IsNull(), ShouldBeTrue)
		})
	})
}
