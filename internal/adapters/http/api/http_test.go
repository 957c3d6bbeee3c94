package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/alumnet/internal/adapters/http/api"
	"github.com/okian/alumnet/internal/adapters/repository"
	service "github.com/okian/alumnet/internal/app"
	"github.com/okian/alumnet/internal/domain/mentoring"
	"github.com/okian/alumnet/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

const sampleCV = `Sam Lee
Skills: Go, Docker, PostgreSQL, React
Projects:
- Job Tracker. REST API written in Go with PostgreSQL
- Portfolio Website
`

type harness struct {
	svc *service.Service
	srv *httptest.Server
}

func newHarness(opts ...api.Option) *harness {
	svc := service.New(service.WithWorkerCount(1))
	So(svc.Start(context.Background()), ShouldBeNil)
	h := &harness{svc: svc}
	h.srv = httptest.NewServer(api.NewServer(svc, opts...).Handler())
	return h
}

func (h *harness) close() {
	h.srv.Close()
	_ = h.svc.Stop(context.Background())
}

func (h *harness) do(method, path, user string, body any, headers ...string) *http.Response {
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		So(err, ShouldBeNil)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, h.srv.URL+path, rd)
	So(err, ShouldBeNil)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set(api.HeaderUserID, user)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	So(err, ShouldBeNil)
	return resp
}

func (h *harness) upload(user, name, content string) *http.Response {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("cv", name)
	So(err, ShouldBeNil)
	_, err = fw.Write([]byte(content))
	So(err, ShouldBeNil)
	So(mw.Close(), ShouldBeNil)

	req, err := http.NewRequest(http.MethodPost, h.srv.URL+"/api/profile/cv", &buf)
	So(err, ShouldBeNil)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(api.HeaderUserID, user)
	resp, err := http.DefaultClient.Do(req)
	So(err, ShouldBeNil)
	return resp
}

func decodeBody[T any](resp *http.Response) T {
	defer resp.Body.Close()
	var v T
	So(json.NewDecoder(resp.Body).Decode(&v), ShouldBeNil)
	return v
}

func (h *harness) createUser(name, role string) string {
	resp := h.do(http.MethodPost, "/api/users", "", map[string]string{
		"name": name, "email": name + "@example.com", "role": role,
	})
	So(resp.StatusCode, ShouldEqual, http.StatusCreated)
	return decodeBody[model.User](resp).ID
}

type errBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestAPI_Users(t *testing.T) {
	Convey("Given a running API", t, func() {
		h := newHarness()
		defer h.close()
		id := h.createUser("amy", model.RoleStudent)

		Convey("When /api/me is called without identity", func() {
			resp := h.do(http.MethodGet, "/api/me", "", nil)

			Convey("Then it is unauthorized", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusUnauthorized)
				So(decodeBody[errBody](resp).Code, ShouldEqual, "unauthorized")
			})
		})

		Convey("When /api/me is called with identity", func() {
			resp := h.do(http.MethodGet, "/api/me", id, nil)

			Convey("Then the full profile is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				u := decodeBody[model.User](resp)
				So(u.Email, ShouldEqual, "amy@example.com")
				So(u.Credits, ShouldEqual, 10)
			})
		})

		Convey("When another user's profile is read", func() {
			other := h.createUser("bob", model.RoleAlumni)
			resp := h.do(http.MethodGet, "/api/users/"+other, id, nil)

			Convey("Then only public fields are exposed", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				body := decodeBody[map[string]any](resp)
				So(body["name"], ShouldEqual, "bob")
				So(body, ShouldNotContainKey, "email")
			})
		})

		Convey("When the same email registers twice", func() {
			resp := h.do(http.MethodPost, "/api/users", "", map[string]string{"name": "Amy", "email": "AMY@example.com"})

			Convey("Then it conflicts", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusConflict)
				resp.Body.Close()
			})
		})

		Convey("When the body carries unknown fields", func() {
			resp := h.do(http.MethodPatch, "/api/me", id, map[string]string{"nickname": "x"})

			Convey("Then it is a bad request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				resp.Body.Close()
			})
		})

		Convey("When an unknown user is read", func() {
			resp := h.do(http.MethodGet, "/api/users/nobody", id, nil)

			Convey("Then it is not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				resp.Body.Close()
			})
		})
	})
}

func TestAPI_Profile(t *testing.T) {
	Convey("Given a student on an API with a tight upload limit", t, func() {
		h := newHarness(api.WithUploadRate(0.001, 1))
		defer h.close()
		id := h.createUser("cat", model.RoleStudent)

		Convey("When a résumé is uploaded twice", func() {
			first := h.upload(id, "cv.txt", sampleCV)
			second := h.upload(id, "cv.txt", sampleCV)

			Convey("Then the first is parsed and the second is throttled", func() {
				So(first.StatusCode, ShouldEqual, http.StatusOK)
				res := decodeBody[service.CVResult](first)
				So(res.Profile.Skills, ShouldContain, "Go")
				So(len(res.Profile.Projects), ShouldEqual, 2)

				So(second.StatusCode, ShouldEqual, http.StatusTooManyRequests)
				So(second.Header.Get("Retry-After"), ShouldNotBeEmpty)
				second.Body.Close()
			})
		})

		Convey("When a binary file is uploaded", func() {
			resp := h.upload(id, "cv.bin", "\x00\x01\x02\x03")

			Convey("Then the media type is unsupported", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusUnsupportedMediaType)
				resp.Body.Close()
			})
		})

		Convey("When the AI profile is updated and readiness scored", func() {
			resp := h.do(http.MethodPut, "/api/profile/ai", id, map[string]any{
				"skills": []string{"Go", "Docker", "SQL"},
			})
			So(resp.StatusCode, ShouldEqual, http.StatusOK)
			resp.Body.Close()
			rd := h.do(http.MethodPost, "/api/profile/readiness", id, map[string]string{"targetRole": "Backend Developer"})

			Convey("Then readiness reflects the skills", func() {
				So(rd.StatusCode, ShouldEqual, http.StatusOK)
				body := decodeBody[map[string]any](rd)
				So(body["targetRole"], ShouldEqual, "Backend Developer")
				So(body["readinessScore"], ShouldBeGreaterThan, 0)
			})
		})

		Convey("When readiness is requested without a role", func() {
			resp := h.do(http.MethodPost, "/api/profile/readiness", id, map[string]string{})

			Convey("Then it is a bad request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
				resp.Body.Close()
			})
		})

		Convey("When the résumé is rendered as HTML", func() {
			resp := h.do(http.MethodGet, "/api/profile/resume?format=html", id, nil)
			defer resp.Body.Close()
			buf := new(bytes.Buffer)
			_, _ = buf.ReadFrom(resp.Body)

			Convey("Then HTML is returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldStartWith, "text/html")
				So(buf.String(), ShouldContainSubstring, "<h1")
			})
		})

		Convey("When target roles are listed", func() {
			resp := h.do(http.MethodGet, "/api/roles", "", nil)

			Convey("Then the catalog roles are returned", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				body := decodeBody[map[string][]string](resp)
				So(body["roles"], ShouldContain, "Data Scientist")
			})
		})
	})
}

func TestAPI_Idempotency(t *testing.T) {
	Convey("Given a student", t, func() {
		h := newHarness()
		defer h.close()
		id := h.createUser("dee", model.RoleStudent)

		Convey("When badge checks are retried with the same key", func() {
			first := h.do(http.MethodPost, "/api/badges/check", id, nil, api.HeaderIdempotencyKey, "k-1")
			firstBody := decodeBody[service.BadgeCheck](first)
			second := h.do(http.MethodPost, "/api/badges/check", id, nil, api.HeaderIdempotencyKey, "k-1")
			secondBody := decodeBody[service.BadgeCheck](second)

			Convey("Then the cached response is replayed", func() {
				So(first.StatusCode, ShouldEqual, http.StatusOK)
				So(second.StatusCode, ShouldEqual, http.StatusOK)
				So(second.Header.Get(api.HeaderReplay), ShouldEqual, "true")
				So(secondBody.Message, ShouldEqual, firstBody.Message)
				So(len(secondBody.NewBadges), ShouldEqual, len(firstBody.NewBadges))
			})
		})

		Convey("When a failed request is retried with the same key", func() {
			first := h.do(http.MethodPost, "/api/referrals", id, map[string]string{"company": "Acme", "role": "SWE"}, api.HeaderIdempotencyKey, "k-2")
			second := h.do(http.MethodPost, "/api/referrals", id, map[string]string{"company": "Acme", "role": "SWE"}, api.HeaderIdempotencyKey, "k-2")

			Convey("Then it is executed again", func() {
				So(first.StatusCode, ShouldEqual, http.StatusForbidden)
				So(second.StatusCode, ShouldEqual, http.StatusForbidden)
				So(second.Header.Get(api.HeaderReplay), ShouldBeEmpty)
				first.Body.Close()
				second.Body.Close()
			})
		})
	})
}

func TestAPI_ReferralsAndSessions(t *testing.T) {
	Convey("Given an alumnus and a student", t, func() {
		h := newHarness()
		defer h.close()
		alum := h.createUser("eli", model.RoleAlumni)
		stu := h.createUser("fin", model.RoleStudent)

		Convey("When a referral is posted and applied to", func() {
			resp := h.do(http.MethodPost, "/api/referrals", alum, map[string]any{
				"company": "Acme", "role": "Backend Engineer", "requiredSkills": []string{"Go"},
			})
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)
			ref := decodeBody[model.Referral](resp)
			apply := h.do(http.MethodPost, "/api/referrals/"+ref.ID+"/apply", stu, nil)
			again := h.do(http.MethodPost, "/api/referrals/"+ref.ID+"/apply", stu, nil)

			Convey("Then the applicant is ranked and duplicates conflict", func() {
				So(apply.StatusCode, ShouldEqual, http.StatusCreated)
				So(decodeBody[model.Applicant](apply).Rank, ShouldEqual, 1)
				So(again.StatusCode, ShouldEqual, http.StatusConflict)
				So(decodeBody[errBody](again).Code, ShouldEqual, "duplicate")
			})

			Convey("Then the poster sees the applicant", func() {
				d := h.do(http.MethodGet, "/api/referrals/"+ref.ID, alum, nil)
				So(d.StatusCode, ShouldEqual, http.StatusOK)
				body := decodeBody[map[string]any](d)
				So(body["applicants"], ShouldHaveLength, 1)
			})

			Convey("Then the applicant status can be changed by the poster only", func() {
				path := "/api/referrals/" + ref.ID + "/applicants/" + stu
				denied := h.do(http.MethodPatch, path, stu, map[string]string{"status": "shortlisted"})
				ok := h.do(http.MethodPatch, path, alum, map[string]string{"status": "shortlisted"})
				So(denied.StatusCode, ShouldEqual, http.StatusForbidden)
				So(ok.StatusCode, ShouldEqual, http.StatusOK)
				So(decodeBody[model.Applicant](ok).Status, ShouldEqual, model.ApplicantShortlisted)
				denied.Body.Close()
			})
		})

		Convey("When the referral demands a high profile score", func() {
			resp := h.do(http.MethodPost, "/api/referrals", alum, map[string]any{
				"company": "Beta", "role": "SRE", "minProfileScore": 80,
			})
			ref := decodeBody[model.Referral](resp)
			apply := h.do(http.MethodPost, "/api/referrals/"+ref.ID+"/apply", stu, nil)

			Convey("Then the deficit is reported", func() {
				So(apply.StatusCode, ShouldEqual, http.StatusForbidden)
				body := decodeBody[errBody](apply)
				So(body.Code, ShouldEqual, "below_minimum_score")
				So(body.Message, ShouldContainSubstring, "80")
			})
		})

		Convey("When a session costs more than the student's credits", func() {
			resp := h.do(http.MethodPost, "/api/sessions", alum, mentoring.Draft{
				Title: "System Design", Domain: "Backend", DateTime: time.Now().Add(72 * time.Hour), CreditCost: 50,
			})
			So(resp.StatusCode, ShouldEqual, http.StatusCreated)
			ses := decodeBody[model.Session](resp)
			book := h.do(http.MethodPost, "/api/sessions/"+ses.ID+"/book", stu, nil)

			Convey("Then payment is required", func() {
				So(book.StatusCode, ShouldEqual, http.StatusPaymentRequired)
				So(decodeBody[errBody](book).Code, ShouldEqual, "insufficient_credits")
			})
		})

		Convey("When a session is booked and rated", func() {
			resp := h.do(http.MethodPost, "/api/sessions", alum, mentoring.Draft{
				Title: "Resume Review", Domain: "Careers", DateTime: time.Now().Add(24 * time.Hour),
			})
			ses := decodeBody[model.Session](resp)
			book := h.do(http.MethodPost, "/api/sessions/"+ses.ID+"/book", stu, nil)
			rate := h.do(http.MethodPost, "/api/sessions/"+ses.ID+"/rate", stu, map[string]any{"rating": 0, "feedback": "ok"})
			mine := h.do(http.MethodGet, "/api/sessions/mine", stu, nil)

			Convey("Then the booking is listed and the rating clamped", func() {
				So(book.StatusCode, ShouldEqual, http.StatusCreated)
				book.Body.Close()
				So(rate.StatusCode, ShouldEqual, http.StatusCreated)
				So(decodeBody[model.Rating](rate).Rating, ShouldEqual, 1)
				So(decodeBody[[]map[string]any](mine), ShouldHaveLength, 1)
			})
		})

		Convey("When a missing session is booked", func() {
			resp := h.do(http.MethodPost, "/api/sessions/none/book", stu, nil)

			Convey("Then it is not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				resp.Body.Close()
			})
		})
	})
}

func TestAPI_LeaderboardAndStats(t *testing.T) {
	Convey("Given two students", t, func() {
		h := newHarness()
		defer h.close()
		a := h.createUser("gia", model.RoleStudent)
		h.createUser("hue", model.RoleStudent)
		resp := h.do(http.MethodPut, "/api/profile/ai", a, map[string]any{"skills": []string{"Go", "Rust"}})
		resp.Body.Close()

		Convey("When the leaderboard is read", func() {
			lb := h.do(http.MethodGet, "/api/leaderboard?limit=1", "", nil)
			bad := h.do(http.MethodGet, "/api/leaderboard?limit=abc", "", nil)

			Convey("Then the best student leads", func() {
				So(lb.StatusCode, ShouldEqual, http.StatusOK)
				entries := decodeBody[[]map[string]any](lb)
				So(entries, ShouldHaveLength, 1)
				So(entries[0]["id"], ShouldEqual, a)
				So(bad.StatusCode, ShouldEqual, http.StatusBadRequest)
				bad.Body.Close()
			})
		})

		Convey("When stats are read", func() {
			st := h.do(http.MethodGet, "/stats", "", nil)
			cohort := h.do(http.MethodGet, "/api/stats/cohort", "", nil)

			Convey("Then counters and summaries are returned", func() {
				So(st.StatusCode, ShouldEqual, http.StatusOK)
				So(decodeBody[map[string]any](st)["students"], ShouldEqual, 2.0)
				So(cohort.StatusCode, ShouldEqual, http.StatusOK)
				So(decodeBody[map[string]any](cohort)["students"], ShouldEqual, 2.0)
			})
		})

		Convey("When /healthz is scraped", func() {
			resp := h.do(http.MethodGet, "/healthz", "", nil)

			Convey("Then Prometheus metrics are served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				resp.Body.Close()
			})
		})
	})
}

func TestErrorHelpers(t *testing.T) {
	Convey("Given the error helpers", t, func() {
		Convey("When a nil error is wrapped", func() {
			So(api.Wrap("op", nil), ShouldBeNil)
		})

		Convey("When a kind is wrapped with a cause", func() {
			cause := errors.New("boom")
			err := api.WrapKind("api.test", api.ErrBadRequest, cause)

			Convey("Then both match and the message carries the op", func() {
				So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "api.test: bad request: boom")
			})
		})

		Convey("When a store error is wrapped", func() {
			err := api.Wrap("api.get", fmt.Errorf("lookup: %w", repository.ErrNotFound))

			Convey("Then it still matches the sentinel", func() {
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				So(api.NewKind("api.x", api.ErrInFlight).Error(), ShouldEqual, "api.x: "+api.ErrInFlight.Error())
			})
		})
	})
}
