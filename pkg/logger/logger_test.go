package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestInit(t *testing.T) {
	Convey("Given a JSON logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf), WithFormat("json")), ShouldBeNil)
		defer func() { _ = Init() }()

		Convey("When a message is logged with fields and a request id", func() {
			ctx := WithRequestID(context.Background(), "req-1")
			Get().With(String("svc", "test")).Info(ctx, "hello", Int("n", 3))

			Convey("Then the line carries every field", func() {
				var line map[string]any
				So(json.Unmarshal(buf.Bytes(), &line), ShouldBeNil)
				So(line["msg"], ShouldEqual, "hello")
				So(line["svc"], ShouldEqual, "test")
				So(line["n"], ShouldEqual, 3.0)
				So(line["request_id"], ShouldEqual, "req-1")
				So(line["source"], ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When the level is raised", func() {
			So(SetLevelString("error"), ShouldBeNil)
			Named("quiet").Info(context.Background(), "dropped")

			Convey("Then lower levels are dropped", func() {
				So(buf.Len(), ShouldEqual, 0)
			})
		})

		Convey("When an unknown level is set", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})
	})

	Convey("Given an unknown format", t, func() {
		So(Init(WithFormat("xml")), ShouldNotBeNil)
		So(Sync(), ShouldBeNil)
	})
}
