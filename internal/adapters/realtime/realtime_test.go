package realtime

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/alumnet/internal/domain/model"
)

type stubConn struct{ got []Message }

func (s *stubConn) Send(m Message) bool {
	s.got = append(s.got, m)
	return true
}

func TestMemoryRegistry(t *testing.T) {
	Convey("Given an empty registry", t, func() {
		r := NewMemoryRegistry()
		a1, a2, b := &stubConn{}, &stubConn{}, &stubConn{}

		Convey("When a user opens two connections", func() {
			So(r.Join("alice", a1), ShouldBeTrue)
			So(r.Join("alice", a2), ShouldBeFalse)
			So(r.Join("bob", b), ShouldBeTrue)

			Convey("Then presence counts users, not connections", func() {
				So(r.Online(), ShouldResemble, []string{"alice", "bob"})
				So(r.Conns("alice"), ShouldHaveLength, 2)
			})

			Convey("Then the user stays online until the last connection leaves", func() {
				So(r.Leave("alice", a1), ShouldBeFalse)
				So(r.Online(), ShouldContain, "alice")
				So(r.Leave("alice", a2), ShouldBeTrue)
				So(r.Online(), ShouldResemble, []string{"bob"})
				So(r.Leave("alice", a2), ShouldBeFalse)
			})
		})
	})
}

func dial(t *testing.T, srv *httptest.Server, user string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?userId=" + user
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", user, err)
	}
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

// next reads until a message with the given event arrives.
func next(ws *websocket.Conn, event string) (Message, error) {
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	for {
		var m Message
		if err := ws.ReadJSON(&m); err != nil {
			return Message{}, err
		}
		if m.Event == event {
			return m, nil
		}
	}
}

func TestHub(t *testing.T) {
	Convey("Given a hub with two connected users", t, func() {
		hub := NewHub()
		srv := httptest.NewServer(hub)
		defer srv.Close()

		alice := dial(t, srv, "alice")
		_, err := next(alice, EventOnlineUsers)
		So(err, ShouldBeNil)
		bob := dial(t, srv, "bob")

		m, err := next(alice, EventOnlineUsers)
		So(err, ShouldBeNil)
		var online []string
		So(json.Unmarshal(m.Data, &online), ShouldBeNil)
		So(online, ShouldResemble, []string{"alice", "bob"})
		_, err = next(bob, EventOnlineUsers)
		So(err, ShouldBeNil)

		Convey("When alice sends bob a chat message", func() {
			So(alice.WriteJSON(newMessage(EventSendMessage, Chat{To: "bob", Text: "hi"})), ShouldBeNil)

			Convey("Then bob receives it with the sender filled in", func() {
				got, err := next(bob, EventReceiveMessage)
				So(err, ShouldBeNil)
				var chat Chat
				So(json.Unmarshal(got.Data, &chat), ShouldBeNil)
				So(chat.From, ShouldEqual, "alice")
				So(chat.Text, ShouldEqual, "hi")
			})
		})

		Convey("When alice starts typing", func() {
			So(alice.WriteJSON(newMessage(EventTyping, Typing{To: "bob"})), ShouldBeNil)
			got, err := next(bob, EventUserTyping)
			So(err, ShouldBeNil)
			So(string(got.Data), ShouldContainSubstring, `"from":"alice"`)
		})

		Convey("When a notification is delivered to bob", func() {
			So(hub.Deliver(context.Background(), model.Notification{ID: "n1", UserID: "bob", Kind: model.NotifyConnection}), ShouldBeNil)
			got, err := next(bob, EventReceiveNotification)
			So(err, ShouldBeNil)
			So(string(got.Data), ShouldContainSubstring, `"id":"n1"`)
		})

		Convey("When bob disconnects", func() {
			So(bob.Close(), ShouldBeNil)

			Convey("Then alice sees the updated presence list", func() {
				got, err := next(alice, EventOnlineUsers)
				So(err, ShouldBeNil)
				So(string(got.Data), ShouldEqual, `["alice"]`)
			})
		})

		Convey("When an unknown event is sent", func() {
			So(alice.WriteJSON(Message{Event: "dance"}), ShouldBeNil)
			got, err := next(alice, EventError)
			So(err, ShouldBeNil)
			So(string(got.Data), ShouldContainSubstring, "unknown event")
		})
	})
}

func TestHub_RejectsAnonymous(t *testing.T) {
	Convey("Given a request without a user id", t, func() {
		rec := httptest.NewRecorder()
		NewHub().ServeHTTP(rec, httptest.NewRequest("GET", "/ws", nil))
		So(rec.Code, ShouldEqual, 401)
	})
}
