package aggregate_test

import (
	"testing"

	"github.com/okian/talentmatch/internal/domain/aggregate"
	"github.com/okian/talentmatch/internal/domain/model"
	"github.com/okian/talentmatch/internal/domain/scoring"
	"github.com/okian/talentmatch/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func row(id string, d scoring.Domain, r scoring.Rate) scoring.DomainScore {
	return scoring.DomainScore{EmployeeID: id, Domain: d, DomainName: d.String(), SubMetricName: d.SubMetric(), SubMetricRate: r, DomainRate: r}
}

func fullRows(id string, rates ...float64) []scoring.DomainScore {
	out := make([]scoring.DomainScore, 0, len(rates))
	for i, v := range rates {
		out = append(out, row(id, scoring.Domains()[i], scoring.Match(v)))
	}
	return out
}

func TestFinalScores(t *testing.T) {
	Convey("Given domain rows for one employee", t, func() {
		rows := fullRows("a", 100, 80, 100, 70)

		Convey("Then the final score should be the mean of the domain rates", func() {
			So(aggregate.FinalScores(rows)["a"], ShouldEqual, 87.5)
		})
	})

	Convey("Given domain rates whose mean ends on a half hundredth", t, func() {
		rows := fullRows("a", 60, 80, 60.54, 70)

		Convey("Then the final score rounds half up", func() {
			So(aggregate.FinalScores(rows)["a"], ShouldEqual, 67.64)
		})

		Convey("Then the leaderboard carries the same score", func() {
			_, board := aggregate.Aggregate(rows, nil)
			So(len(board), ShouldEqual, 1)
			So(board[0].Score, ShouldEqual, 67.64)
		})
	})

	Convey("Given a NullMatch domain", t, func() {
		rows := []scoring.DomainScore{
			row("a", scoring.CoreCompetencies, scoring.Match(90)),
			row("a", scoring.BehavioralProfile, scoring.Match(80)),
			row("a", scoring.CognitivePersonality, scoring.NullMatch),
			row("a", scoring.ContextExperience, scoring.Match(70)),
		}

		Convey("Then it should be excluded from the denominator", func() {
			So(aggregate.FinalScores(rows)["a"], ShouldEqual, 80.0)
		})
	})

	Convey("Given an employee whose every domain is NullMatch", t, func() {
		rows := []scoring.DomainScore{row("a", scoring.CognitivePersonality, scoring.NullMatch)}

		Convey("Then no final score should exist", func() {
			_, ok := aggregate.FinalScores(rows)["a"]
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given several rows for the same domain", t, func() {
		rows := []scoring.DomainScore{
			row("a", scoring.CoreCompetencies, scoring.Match(100)),
			row("a", scoring.CoreCompetencies, scoring.Match(60)),
			row("a", scoring.BehavioralProfile, scoring.Match(80)),
		}

		Convey("Then sub-metrics should be averaged within the domain first", func() {
			So(aggregate.FinalScores(rows)["a"], ShouldEqual, 80.0)
		})
	})
}

func TestAggregate(t *testing.T) {
	Convey("Given rows for several employees", t, func() {
		var rows []scoring.DomainScore
		rows = append(rows, fullRows("c", 100, 80, 100, 70)...)
		rows = append(rows, fullRows("a", 100, 100, 100, 100)...)
		rows = append(rows, fullRows("b", 100, 80, 100, 70)...)
		rows = append(rows, row("z", scoring.CognitivePersonality, scoring.NullMatch))

		identities := map[string]model.Identity{
			"a": {EmployeeID: "a", FullName: "Ayu", Directorate: "Data", Position: "Engineer", Grade: "IV"},
			"b": {EmployeeID: "b", FullName: "Budi"},
			"c": {EmployeeID: "c", FullName: "Citra", MBTI: "INTJ"},
			"z": {EmployeeID: "z", FullName: "Zaki"},
		}

		Convey("When aggregating", func() {
			finals, board := aggregate.Aggregate(rows, identities)

			Convey("Then finals should be keyed by employee", func() {
				So(finals, ShouldResemble, aggregate.Finals{"a": 100, "b": 87.5, "c": 87.5})
			})

			Convey("And the leaderboard should rank by score then id", func() {
				So(len(board), ShouldEqual, 3)
				So(board[0].EmployeeID, ShouldEqual, "a")
				So(board[1].EmployeeID, ShouldEqual, "b")
				So(board[2].EmployeeID, ShouldEqual, "c")
				So(board[0].Rank, ShouldEqual, 1)
				So(board[2].Rank, ShouldEqual, 3)
			})

			Convey("And display attributes should be carried", func() {
				So(board[0].FullName, ShouldEqual, "Ayu")
				So(board[0].Directorate, ShouldEqual, "Data")
				So(board[2].MBTI, ShouldEqual, "INTJ")
			})

			Convey("And fully undefined employees should be left out", func() {
				for _, e := range board {
					So(e.EmployeeID, ShouldNotEqual, "z")
				}
			})
		})

		Convey("When an identity is unknown", func() {
			_, board := aggregate.Aggregate(fullRows("x", 50), nil)

			Convey("Then the entry should be listed by id", func() {
				So(board, ShouldResemble, []types.Entry{{Rank: 1, EmployeeID: "x", Score: 50}})
			})
		})
	})
}

func TestRank_TotalOrder(t *testing.T) {
	Convey("Given entries with ties", t, func() {
		entries := []types.Entry{
			{EmployeeID: "d", Score: 70},
			{EmployeeID: "b", Score: 90},
			{EmployeeID: "a", Score: 70},
			{EmployeeID: "c", Score: 90},
		}

		Convey("When ranked", func() {
			aggregate.Rank(entries)

			Convey("Then every adjacent pair should respect the order", func() {
				ids := []string{}
				for _, e := range entries {
					ids = append(ids, e.EmployeeID)
				}
				So(ids, ShouldResemble, []string{"b", "c", "a", "d"})
				for i := 1; i < len(entries); i++ {
					So(aggregate.Less(entries[i], entries[i-1]), ShouldBeFalse)
				}
			})
		})
	})
}

func TestSummarize(t *testing.T) {
	Convey("Given rows for two employees", t, func() {
		var rows []scoring.DomainScore
		rows = append(rows, fullRows("a", 100, 80, 100, 70)...)
		rows = append(rows, fullRows("b", 60, 100)...)
		rows = append(rows, row("b", scoring.CognitivePersonality, scoring.NullMatch))

		Convey("When summarized", func() {
			s := aggregate.Summarize(rows)

			Convey("Then each domain should be averaged in reporting order", func() {
				So(len(s), ShouldEqual, 4)
				So(s[0].DomainName, ShouldEqual, "Core Competencies")
				So(s[0].MeanRate.Value, ShouldEqual, 80.0)
				So(s[0].Employees, ShouldEqual, 2)
				So(s[1].MeanRate.Value, ShouldEqual, 90.0)
				So(s[2].MeanRate.Value, ShouldEqual, 100.0)
				So(s[2].Employees, ShouldEqual, 2)
				So(s[3].MeanRate.Value, ShouldEqual, 70.0)
				So(s[3].Employees, ShouldEqual, 1)
			})
		})
	})
}
