package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When it is initialized", func() {
			So(Init(), ShouldBeNil)
			defer func() { So(Sync(), ShouldBeNil) }()

			Convey("Then Get returns it", func() {
				So(Get(), ShouldNotBeNil)
				So(Named("test"), ShouldNotBeNil)
			})
		})
	})
}

func TestLoggerFormats(t *testing.T) {
	Convey("Given a buffer as the destination", t, func() {
		var buf bytes.Buffer
		ctx := context.Background()

		Convey("When using the text format", func() {
			So(Init(WithWriter(&buf)), ShouldBeNil)
			Get().Info(ctx, "rating updated", Int("new_rating", 1410), Bool("fast_play", false))

			Convey("Then fields and the caller are written", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, "rating updated")
				So(out, ShouldContainSubstring, "new_rating=1410")
				So(out, ShouldContainSubstring, "fast_play=false")
				So(out, ShouldContainSubstring, "logger_test.go")
			})
		})

		Convey("When using the JSON format", func() {
			So(Init(WithWriter(&buf), WithFormat("JSON")), ShouldBeNil)
			Get().Named("svc").With(String("run_id", "r1")).Warn(ctx, "bad input", Error(errors.New("boom")))

			Convey("Then a single JSON object is written", func() {
				var rec map[string]any
				So(json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "bad input")
				So(rec["level"], ShouldEqual, "WARN")
				group, ok := rec["svc"].(map[string]any)
				So(ok, ShouldBeTrue)
				So(group["run_id"], ShouldEqual, "r1")
				So(group["error"], ShouldEqual, "boom")
			})
		})

		Convey("When the level is raised", func() {
			So(Init(WithWriter(&buf)), ShouldBeNil)
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Error(ctx, "shown")

			Convey("Then lower levels are dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
				So(Level(), ShouldEqual, slog.LevelWarn)
			})
		})
	})
}

func TestSetLevelString(t *testing.T) {
	Convey("Given level names", t, func() {
		for in, want := range map[string]slog.Level{
			"debug":   slog.LevelDebug,
			"":        slog.LevelInfo,
			"INFO":    slog.LevelInfo,
			"warning": slog.LevelWarn,
			" error ": slog.LevelError,
		} {
			So(SetLevelString(in), ShouldBeNil)
			So(Level(), ShouldEqual, want)
		}

		Convey("Then unknown names are rejected", func() {
			err := SetLevelString("verbose")
			So(err, ShouldNotBeNil)
			So(strings.Contains(err.Error(), "verbose"), ShouldBeTrue)
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Given a nop logger", t, func() {
		l := Nop()

		Convey("Then every level is accepted silently", func() {
			So(func() {
				l.Debug(context.Background(), "x")
				l.Info(context.Background(), "x")
				l.Warn(context.Background(), "x")
				l.Error(context.Background(), "x")
			}, ShouldNotPanic)
		})
	})
}
