package logging

import (
	"bytes"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLogger(t *testing.T) {
	Convey("Given a logger writing to a buffer at info level", t, func() {
		var buf bytes.Buffer
		logger := New(Config{Level: "info", Output: &buf})

		Convey("Debug lines are suppressed", func() {
			logger.Debug("hidden")
			So(buf.String(), ShouldBeEmpty)
		})

		Convey("Info lines carry level and message", func() {
			logger.Infof("recomputed %d verdicts", 3)
			So(buf.String(), ShouldContainSubstring, "INFO")
			So(buf.String(), ShouldContainSubstring, "recomputed 3 verdicts")
		})

		Convey("Prefixes nest", func() {
			logger.WithPrefix("Survivor").WithPrefix("Recompute").Warn("stale verdict")
			So(buf.String(), ShouldContainSubstring, "[Survivor:Recompute]")
		})

		Convey("Fields are appended in key order", func() {
			logger.WithField("week", 3).WithField("season", 2025).Info("scored")
			line := buf.String()
			So(strings.Index(line, "season=2025"), ShouldBeLessThan, strings.Index(line, "week=3"))
		})

		Convey("SetLevel on the parent affects children", func() {
			child := logger.WithPrefix("child")
			logger.SetLevel(ERROR)
			child.Warn("dropped")
			So(buf.String(), ShouldBeEmpty)
		})

		Convey("Level changes reach field children in both directions", func() {
			child := logger.WithField("season", 2025)
			grandchild := child.WithFields(map[string]interface{}{"week": 3})

			child.SetLevel(DEBUG)
			logger.Debug("root debug")
			So(buf.String(), ShouldContainSubstring, "root debug")

			buf.Reset()
			logger.SetLevel(ERROR)
			grandchild.Warn("dropped")
			So(buf.String(), ShouldBeEmpty)
		})

		Convey("Fatal calls the exit hook", func() {
			code := -1
			logger.exit = func(c int) { code = c }
			logger.Fatal("boom")
			So(code, ShouldEqual, 1)
		})
	})
}

func TestParseLevel(t *testing.T) {
	Convey("ParseLevel maps names and defaults to INFO", t, func() {
		So(ParseLevel("DEBUG"), ShouldEqual, DEBUG)
		So(ParseLevel("warning"), ShouldEqual, WARN)
		So(ParseLevel(" error "), ShouldEqual, ERROR)
		So(ParseLevel("nonsense"), ShouldEqual, INFO)
	})
}
