package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/rematch/internal/adapters/http/api"
	"github.com/okian/rematch/internal/adapters/repository"
	service "github.com/okian/rematch/internal/app"
	"github.com/okian/rematch/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// Mock implementations for testing
type mockDependencies struct {
	candidates map[string]model.Candidate
	jobs       map[string]model.Job

	enqueueErr   error
	duplicate    bool
	applications []model.Application

	matchReport *api.MatchReport
	matchErr    error

	dormantReport *api.DormantReport
	dormantErr    error
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{
		candidates: make(map[string]model.Candidate),
		jobs:       make(map[string]model.Job),
	}
}

func (m *mockDependencies) AddCandidate(ctx context.Context, c model.Candidate) error {
	if err := c.Validate(); err != nil {
		return err
	}
	m.candidates[c.ID] = c
	return nil
}

func (m *mockDependencies) AddJob(ctx context.Context, j model.Job) error {
	if err := j.Validate(); err != nil {
		return err
	}
	m.jobs[j.ID] = j
	return nil
}

func (m *mockDependencies) Enqueue(ctx context.Context, a model.Application) (bool, error) {
	if m.enqueueErr != nil {
		return false, m.enqueueErr
	}
	if m.duplicate {
		return false, nil
	}
	m.applications = append(m.applications, a)
	return true, nil
}

func (m *mockDependencies) Candidate(ctx context.Context, id string) (model.Candidate, error) {
	c, ok := m.candidates[id]
	if !ok {
		return model.Candidate{}, repository.ErrCandidateNotFound
	}
	return c, nil
}

func (m *mockDependencies) Match(ctx context.Context, jobID string, topK int, filter *model.FilterSpec, openSearch bool) (*api.MatchReport, error) {
	if m.matchErr != nil {
		return nil, m.matchErr
	}
	if _, ok := m.jobs[jobID]; !ok {
		return nil, repository.ErrJobNotFound
	}
	return m.matchReport, nil
}

func (m *mockDependencies) DetectDormant(ctx context.Context, jobID string, minScore float64) (*api.DormantReport, error) {
	if m.dormantErr != nil {
		return nil, m.dormantErr
	}
	if _, ok := m.jobs[jobID]; !ok {
		return nil, repository.ErrJobNotFound
	}
	return m.dormantReport, nil
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func newTestMux(deps *mockDependencies) *http.ServeMux {
	statsProvider := &mockStatsProvider{stats: map[string]interface{}{"candidates": 0}}
	server := api.NewServer(deps, statsProvider)
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func doJSON(mux *http.ServeMux, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("The health endpoint should be accessible", func() {
			w := doJSON(mux, "GET", "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("The stats endpoint should return JSON", func() {
			w := doJSON(mux, "GET", "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

			var stats map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats, ShouldContainKey, "candidates")
		})

		Convey("Stats should reject non-GET methods", func() {
			w := doJSON(mux, "POST", "/stats", "{}")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestMatchEndpoint(t *testing.T) {
	Convey("Given a server with one job", t, func() {
		deps := newMockDependencies()
		deps.jobs["job-1"] = model.Job{ID: "job-1", Title: "Backend Engineer"}
		deps.matchReport = &api.MatchReport{
			JobID:    "job-1",
			Mode:     "open_search",
			PoolSize: 2,
			Summary:  "ranked 2 candidates for Backend Engineer, returning top 2",
		}
		mux := newTestMux(deps)

		Convey("A valid request returns the ranking report", func() {
			w := doJSON(mux, "POST", "/match", `{"job_id":"job-1","top_k":5,"open_search":true}`)
			So(w.Code, ShouldEqual, http.StatusOK)

			var report api.MatchReport
			So(json.Unmarshal(w.Body.Bytes(), &report), ShouldBeNil)
			So(report.JobID, ShouldEqual, "job-1")
			So(report.PoolSize, ShouldEqual, 2)
		})

		Convey("A missing job id is rejected", func() {
			w := doJSON(mux, "POST", "/match", `{"top_k":5}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A negative top_k is rejected", func() {
			w := doJSON(mux, "POST", "/match", `{"job_id":"job-1","top_k":-1}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Malformed JSON is rejected", func() {
			w := doJSON(mux, "POST", "/match", `{"job_id":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An unknown job returns 404", func() {
			w := doJSON(mux, "POST", "/match", `{"job_id":"ghost"}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)

			var resp map[string]string
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["code"], ShouldEqual, "not_found")
		})

		Convey("An invalid filter maps to 400", func() {
			deps.matchErr = model.ErrInvalidFilter
			w := doJSON(mux, "POST", "/match", `{"job_id":"job-1"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET is not routed", func() {
			w := doJSON(mux, "GET", "/match", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestDormantEndpoint(t *testing.T) {
	Convey("Given a server with one job", t, func() {
		deps := newMockDependencies()
		deps.jobs["job-1"] = model.Job{ID: "job-1", Title: "Backend Engineer"}
		deps.dormantReport = &api.DormantReport{
			JobID:    "job-1",
			MinScore: 0.75,
			Eligible: 1,
		}
		mux := newTestMux(deps)

		Convey("A valid request returns the dormant report", func() {
			w := doJSON(mux, "POST", "/dormant", `{"job_id":"job-1","min_score":0.75}`)
			So(w.Code, ShouldEqual, http.StatusOK)

			var report api.DormantReport
			So(json.Unmarshal(w.Body.Bytes(), &report), ShouldBeNil)
			So(report.Eligible, ShouldEqual, 1)
		})

		Convey("A min_score above one is rejected", func() {
			w := doJSON(mux, "POST", "/dormant", `{"job_id":"job-1","min_score":1.5}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A missing job id is rejected", func() {
			w := doJSON(mux, "POST", "/dormant", `{"min_score":0.8}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("An unknown job returns 404", func() {
			w := doJSON(mux, "POST", "/dormant", `{"job_id":"ghost"}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})
	})
}

func TestApplicationsEndpoint(t *testing.T) {
	Convey("Given a server accepting applications", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("A valid submission is accepted asynchronously", func() {
			w := doJSON(mux, "POST", "/applications",
				`{"candidate_id":"cand-1","job_id":"job-1","applied_at":"2026-08-15"}`)
			So(w.Code, ShouldEqual, http.StatusAccepted)

			var ack map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &ack), ShouldBeNil)
			So(ack["status"], ShouldEqual, "accepted")
			So(ack["duplicate"], ShouldEqual, false)
			So(deps.applications, ShouldHaveLength, 1)
			So(deps.applications[0].CandidateID, ShouldEqual, "cand-1")
		})

		Convey("A duplicate submission is acknowledged without error", func() {
			deps.duplicate = true
			w := doJSON(mux, "POST", "/applications",
				`{"candidate_id":"cand-1","job_id":"job-1","applied_at":"2026-08-15"}`)
			So(w.Code, ShouldEqual, http.StatusOK)

			var ack map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &ack), ShouldBeNil)
			So(ack["status"], ShouldEqual, "duplicate")
			So(ack["duplicate"], ShouldEqual, true)
		})

		Convey("A full queue maps to 429", func() {
			deps.enqueueErr = service.ErrQueueFull
			w := doJSON(mux, "POST", "/applications",
				`{"candidate_id":"cand-1","job_id":"job-1","applied_at":"2026-08-15"}`)
			So(w.Code, ShouldEqual, http.StatusTooManyRequests)

			var resp map[string]string
			So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
			So(resp["code"], ShouldEqual, "backpressure")
		})

		Convey("An unparseable date is rejected", func() {
			w := doJSON(mux, "POST", "/applications",
				`{"candidate_id":"cand-1","job_id":"job-1","applied_at":"15/08/2026"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Missing identifiers are rejected", func() {
			w := doJSON(mux, "POST", "/applications", `{"applied_at":"2026-08-15"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestCandidateEndpoints(t *testing.T) {
	Convey("Given a server managing candidates and jobs", t, func() {
		deps := newMockDependencies()
		mux := newTestMux(deps)

		Convey("A valid candidate is created", func() {
			w := doJSON(mux, "POST", "/candidates", `{
				"id": "cand-1",
				"name": "Dana Fischer",
				"current_title": "Backend Engineer",
				"summary": "Go services and distributed queues",
				"skills": ["Go", "PostgreSQL"],
				"years_experience": 6,
				"location": "Berlin",
				"remote_preference": "hybrid",
				"last_application_date": "2025-02-01"
			}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			So(deps.candidates, ShouldContainKey, "cand-1")
			So(deps.candidates["cand-1"].RemotePreference, ShouldEqual, model.RemoteHybrid)
			So(deps.candidates["cand-1"].LastApplicationDate.Year(), ShouldEqual, 2025)
		})

		Convey("A candidate without an application date is accepted", func() {
			w := doJSON(mux, "POST", "/candidates",
				`{"id":"cand-2","name":"Jo Park","years_experience":3}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			So(deps.candidates["cand-2"].LastApplicationDate.IsZero(), ShouldBeTrue)
		})

		Convey("An unknown remote preference is rejected", func() {
			w := doJSON(mux, "POST", "/candidates",
				`{"id":"cand-3","name":"Sam","remote_preference":"sometimes"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A candidate failing validation is rejected", func() {
			w := doJSON(mux, "POST", "/candidates", `{"id":"cand-4"}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A stored candidate can be fetched by id", func() {
			deps.candidates["cand-9"] = model.Candidate{ID: "cand-9", Name: "Iris"}

			w := doJSON(mux, "GET", "/candidates/cand-9", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var c model.Candidate
			So(json.Unmarshal(w.Body.Bytes(), &c), ShouldBeNil)
			So(c.Name, ShouldEqual, "Iris")
		})

		Convey("Fetching an unknown candidate returns 404", func() {
			w := doJSON(mux, "GET", "/candidates/ghost", "")
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("An empty candidate id is rejected", func() {
			w := doJSON(mux, "GET", "/candidates/", "")
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("A valid job is created", func() {
			w := doJSON(mux, "POST", "/jobs", `{
				"id": "job-1",
				"title": "Platform Engineer",
				"required_skills": ["go", "kubernetes"],
				"years_experience_min": 4,
				"years_experience_max": 9,
				"location": "Berlin",
				"remote": "onsite"
			}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
			So(deps.jobs, ShouldContainKey, "job-1")
		})

		Convey("A job with inverted experience bounds is rejected", func() {
			w := doJSON(mux, "POST", "/jobs",
				`{"id":"job-2","title":"X","years_experience_min":9,"years_experience_max":4}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}
