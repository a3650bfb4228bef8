package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/rematch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestJobValidate(t *testing.T) {
	Convey("Given a job record", t, func() {
		job := model.Job{
			ID:       "job-1",
			Title:    "Data Engineer",
			MinYears: 3,
			MaxYears: 7,
		}

		Convey("Then a well-formed job passes validation", func() {
			So(job.Validate(), ShouldBeNil)
		})

		Convey("When min exceeds max", func() {
			job.MinYears = 8

			Convey("Then validation fails before any scoring", func() {
				err := job.Validate()
				So(err, ShouldNotBeNil)
				So(errors.Is(err, model.ErrInvalidRecord), ShouldBeTrue)
			})
		})

		Convey("When the id is missing", func() {
			job.ID = " "
			So(errors.Is(job.Validate(), model.ErrInvalidRecord), ShouldBeTrue)
		})
	})
}

func TestCandidateValidate(t *testing.T) {
	Convey("Given a candidate record", t, func() {
		cand := model.Candidate{ID: "cand-1", Name: "Amelie Laurent", YearsExperience: 5}

		Convey("Then a well-formed candidate passes validation", func() {
			So(cand.Validate(), ShouldBeNil)
		})

		Convey("When years of experience is negative", func() {
			cand.YearsExperience = -1
			So(errors.Is(cand.Validate(), model.ErrInvalidRecord), ShouldBeTrue)
		})
	})
}

func TestParseRemoteMode(t *testing.T) {
	Convey("Given remote-mode strings", t, func() {
		Convey("Then known spellings parse", func() {
			for input, want := range map[string]model.RemoteMode{
				"":       model.RemoteOff,
				"onsite": model.RemoteOff,
				"Remote": model.RemoteOn,
				"true":   model.RemoteOn,
				"HYBRID": model.RemoteHybrid,
			} {
				mode, err := model.ParseRemoteMode(input)
				So(err, ShouldBeNil)
				So(mode, ShouldEqual, want)
			}
		})

		Convey("Then unknown spellings are rejected", func() {
			_, err := model.ParseRemoteMode("sometimes")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSkillNormalization(t *testing.T) {
	Convey("Given a raw skill list", t, func() {
		raw := []string{"Python", " SQL ", "python", "", "Tableau"}

		Convey("Then normalization lower-cases, trims and dedupes", func() {
			So(model.NormalizeSkills(raw), ShouldResemble, []string{"python", "sql", "tableau"})
		})

		Convey("Then the set form supports membership checks", func() {
			set := model.SkillSet(raw)
			So(set, ShouldContainKey, "python")
			So(set, ShouldContainKey, "sql")
			So(set, ShouldNotContainKey, "Python")
			So(len(set), ShouldEqual, 3)
		})
	})
}

func TestFilterSpec(t *testing.T) {
	Convey("Given a candidate and a filter spec", t, func() {
		cand := model.Candidate{
			ID:              "cand-1",
			Name:            "Amelie Laurent",
			Location:        "Paris",
			ServiceLine:     "Consulting",
			YearsExperience: 5,
			Skills:          []string{"Python", "SQL"},
		}

		Convey("Then a nil spec passes everyone", func() {
			var spec *model.FilterSpec
			So(spec.Matches(&cand), ShouldBeTrue)
		})

		Convey("Then location matching is case-insensitive", func() {
			loc := "paris"
			spec := &model.FilterSpec{Location: &loc}
			So(spec.Matches(&cand), ShouldBeTrue)
		})

		Convey("Then experience bounds apply", func() {
			minExp, maxExp := 6.0, 10.0
			spec := &model.FilterSpec{MinExperience: &minExp, MaxExperience: &maxExp}
			So(spec.Matches(&cand), ShouldBeFalse)
		})

		Convey("Then required skills must all be present", func() {
			spec := &model.FilterSpec{RequiredSkills: []string{"python", "R"}}
			So(spec.Matches(&cand), ShouldBeFalse)
			spec.RequiredSkills = []string{"python", "sql"}
			So(spec.Matches(&cand), ShouldBeTrue)
		})

		Convey("Then contradictory bounds fail validation", func() {
			minExp, maxExp := 8.0, 3.0
			spec := &model.FilterSpec{MinExperience: &minExp, MaxExperience: &maxExp}
			So(errors.Is(spec.Validate(), model.ErrInvalidFilter), ShouldBeTrue)
		})
	})
}

func TestApplicationKey(t *testing.T) {
	Convey("Given an application fact", t, func() {
		app := model.Application{
			CandidateID: "cand-1",
			JobID:       "job-9",
			AppliedAt:   time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		}

		Convey("Then it validates and yields a stable idempotency key", func() {
			So(app.Validate(), ShouldBeNil)
			So(app.Key(), ShouldEqual, "cand-1|job-9")
		})

		Convey("Then the key is available straight from a literal", func() {
			key := model.Application{CandidateID: "cand-1", JobID: "job-9"}.Key()
			So(key, ShouldEqual, app.Key())
		})
	})
}

func TestProfileAndPostingText(t *testing.T) {
	Convey("Given a candidate and a job", t, func() {
		cand := model.Candidate{
			ID:               "cand-1",
			Name:             "Amelie Laurent",
			CurrentTitle:     "Data Analyst",
			Summary:          "Analytics professional.",
			Skills:           []string{"Python", "SQL"},
			YearsExperience:  5,
			ServiceLine:      "Consulting",
			Location:         "Paris",
			RemotePreference: model.RemoteOff,
		}
		job := model.Job{
			ID:             "job-1",
			Title:          "Data Engineer",
			Description:    "Build pipelines.",
			RequiredSkills: []string{"Python", "SQL", "R"},
			MinYears:       3,
			MaxYears:       7,
			Location:       "Paris",
			Remote:         model.RemoteOff,
			ServiceLine:    "Consulting",
		}

		Convey("Then text composition is deterministic", func() {
			So(cand.ProfileText(), ShouldEqual, cand.ProfileText())
			So(job.PostingText(), ShouldEqual, job.PostingText())
		})

		Convey("Then the composed text carries the searchable fields", func() {
			So(cand.ProfileText(), ShouldContainSubstring, "Data Analyst")
			So(cand.ProfileText(), ShouldContainSubstring, "Python, SQL")
			So(job.PostingText(), ShouldContainSubstring, "Position: Data Engineer")
			So(job.PostingText(), ShouldContainSubstring, "3 to 7 years")
		})
	})
}
