package mentoring_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/alumnet/internal/domain/mentoring"
	"github.com/okian/alumnet/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var now = time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

func draft() mentoring.Draft {
	return mentoring.Draft{Title: "System design", Domain: "Backend Development", DateTime: now.Add(48 * time.Hour)}
}

func TestNew(t *testing.T) {
	Convey("Given a minimal draft", t, func() {
		s, err := mentoring.New("s1", "host", draft(), now)
		So(err, ShouldBeNil)

		Convey("Then defaults are filled", func() {
			So(s.Type, ShouldEqual, model.SessionGroup)
			So(s.Duration, ShouldEqual, mentoring.DefaultDuration)
			So(s.MaxParticipants, ShouldEqual, mentoring.DefaultMaxParticipants)
			So(s.CreditCost, ShouldEqual, mentoring.DefaultCreditCost)
			So(s.Status, ShouldEqual, model.SessionUpcoming)
		})
	})

	Convey("Given a 1:1 draft asking for ten seats", t, func() {
		d := draft()
		d.Type = model.SessionOneOnOne
		d.MaxParticipants = 10
		s, err := mentoring.New("s1", "host", d, now)
		So(err, ShouldBeNil)
		So(s.MaxParticipants, ShouldEqual, 1)
	})

	Convey("Given invalid drafts", t, func() {
		d := draft()
		d.Type = "webinar"
		_, err := mentoring.New("s1", "host", d, now)
		So(err, ShouldEqual, mentoring.ErrInvalidSession)

		_, err = mentoring.New("s1", "host", mentoring.Draft{Title: "x"}, now)
		So(err, ShouldEqual, mentoring.ErrInvalidSession)
	})
}

func TestBook(t *testing.T) {
	Convey("Given a two-seat session costing two credits", t, func() {
		d := draft()
		d.MaxParticipants = 2
		d.CreditCost = 2
		s, _ := mentoring.New("s1", "host", d, now)
		u := &model.User{ID: "u1", Credits: 3}

		Convey("When a user books", func() {
			p, err := mentoring.Book(&s, u, now)

			Convey("Then credits are deducted exactly once", func() {
				So(err, ShouldBeNil)
				So(p.UserID, ShouldEqual, "u1")
				So(u.Credits, ShouldEqual, 1)

				_, err = mentoring.Book(&s, u, now)
				So(err, ShouldEqual, mentoring.ErrDuplicateBooking)
				So(u.Credits, ShouldEqual, 1)
			})
		})

		Convey("When a user cannot afford it", func() {
			poor := &model.User{ID: "u2", Credits: 1}
			_, err := mentoring.Book(&s, poor, now)

			Convey("Then the deficit is reported", func() {
				So(errors.Is(err, mentoring.ErrInsufficientCredits), ShouldBeTrue)
				var deficit *mentoring.CreditDeficitError
				So(errors.As(err, &deficit), ShouldBeTrue)
				So(deficit.Have, ShouldEqual, 1)
				So(deficit.Need, ShouldEqual, 2)
				So(s.Participants, ShouldBeEmpty)
			})
		})

		Convey("When the session is full", func() {
			for _, id := range []string{"a", "b"} {
				_, err := mentoring.Book(&s, &model.User{ID: id, Credits: 5}, now)
				So(err, ShouldBeNil)
			}
			_, err := mentoring.Book(&s, u, now)
			So(err, ShouldEqual, mentoring.ErrCapacityExceeded)
			So(u.Credits, ShouldEqual, 3)
		})

		Convey("When the session has started", func() {
			So(mentoring.SetStatus(&s, model.SessionOngoing), ShouldBeNil)
			_, err := mentoring.Book(&s, u, now)
			So(err, ShouldEqual, mentoring.ErrSessionUnavailable)
		})
	})
}

func TestRate(t *testing.T) {
	Convey("Given a session with one participant", t, func() {
		s, _ := mentoring.New("s1", "host", draft(), now)
		_, err := mentoring.Book(&s, &model.User{ID: "u1", Credits: 1}, now)
		So(err, ShouldBeNil)

		Convey("Then out-of-range ratings are clamped", func() {
			r, err := mentoring.Rate(&s, "u1", 9, " great ")
			So(err, ShouldBeNil)
			So(r.Rating, ShouldEqual, 5)
			So(r.Feedback, ShouldEqual, "great")
			So(mentoring.AverageRating(&s), ShouldEqual, 5.0)
		})

		Convey("Then a second rating is rejected", func() {
			_, err := mentoring.Rate(&s, "u1", 0, "")
			So(err, ShouldBeNil)
			So(s.Ratings[0].Rating, ShouldEqual, 1)
			_, err = mentoring.Rate(&s, "u1", 4, "")
			So(err, ShouldEqual, mentoring.ErrDuplicateRating)
		})

		Convey("Then non-participants cannot rate", func() {
			_, err := mentoring.Rate(&s, "u2", 4, "")
			So(err, ShouldEqual, mentoring.ErrNotParticipant)
			So(mentoring.AverageRating(&s), ShouldEqual, 0.0)
		})
	})
}

func TestSetStatus(t *testing.T) {
	Convey("Given an upcoming session", t, func() {
		s, _ := mentoring.New("s1", "host", draft(), now)
		So(mentoring.SetStatus(&s, model.SessionOngoing), ShouldBeNil)
		So(mentoring.SetStatus(&s, model.SessionCompleted), ShouldBeNil)
		So(mentoring.SetStatus(&s, model.SessionCancelled), ShouldEqual, mentoring.ErrInvalidTransition)
		So(mentoring.SetStatus(&s, "paused"), ShouldEqual, mentoring.ErrInvalidTransition)
	})
}

func TestRecommend(t *testing.T) {
	Convey("Given sessions in several domains", t, func() {
		mk := func(id, domain string, at time.Duration) model.Session {
			d := draft()
			d.Domain = domain
			d.DateTime = now.Add(at)
			s, err := mentoring.New(id, "host", d, now)
			So(err, ShouldBeNil)
			return s
		}
		react := mk("react", "React Development", 3*time.Hour)
		cooking := mk("cook", "Cooking", time.Hour)
		later := mk("cook2", "Baking", 2*time.Hour)
		done := mk("done", "React", time.Hour)
		done.Status = model.SessionCompleted

		u := &model.User{ID: "u1", Skills: []string{"React", "CSS"}, TargetRole: "Frontend Developer"}
		got := mentoring.Recommend([]model.Session{later, cooking, react, done}, u)

		Convey("Then active sessions are ranked by relevance then start time", func() {
			So(len(got), ShouldEqual, 3)
			So(got[0].Session.ID, ShouldEqual, "react")
			So(got[0].Relevance, ShouldEqual, 50)
			So(got[1].Session.ID, ShouldEqual, "cook")
			So(got[2].Session.ID, ShouldEqual, "cook2")
			So(got[0].SpotsLeft, ShouldEqual, mentoring.DefaultMaxParticipants)
			So(got[0].IsBooked, ShouldBeFalse)
		})
	})
}
