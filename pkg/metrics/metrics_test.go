package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "blast")
				So(manager.subsystem, ShouldEqual, "scoreboard")
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test-namespace"),
				WithSubsystem("test-subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithMetricsEnabled(true),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the options are applied", func() {
				So(manager.namespace, ShouldEqual, "test-namespace")
				So(manager.subsystem, ShouldEqual, "test-subsystem")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})
		})

		Convey("When empty values are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "blast")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

		Convey("When scores are submitted", func() {
			m.RecordScoreAdmitted()
			m.RecordScoreAdmitted()
			m.RecordScoreRejected()
			m.RecordEviction()

			Convey("Then admissions, rejections and evictions are counted", func() {
				So(testutil.ToFloat64(m.scoresSubmitted.WithLabelValues("admitted")), ShouldEqual, 2)
				So(testutil.ToFloat64(m.scoresSubmitted.WithLabelValues("rejected")), ShouldEqual, 1)
				So(testutil.ToFloat64(m.evictions), ShouldEqual, 1)
			})
		})

		Convey("When the board changes", func() {
			m.UpdateBoard(3, 5)

			Convey("Then the gauges follow", func() {
				So(testutil.ToFloat64(m.boardSize), ShouldEqual, 3)
				So(testutil.ToFloat64(m.boardCapacity), ShouldEqual, 5)
			})
		})

		Convey("When store operations run", func() {
			m.RecordStoreLatency(OpReplace, 1.5)
			m.RecordStoreError(OpReplace)
			m.RecordStoreTrimmed(4)
			m.RecordStoreTrimmed(0)

			Convey("Then errors and trimmed rows are counted", func() {
				So(testutil.ToFloat64(m.storeErrors.WithLabelValues(OpReplace)), ShouldEqual, 1)
				So(testutil.ToFloat64(m.storeTrimmed), ShouldEqual, 4)
				So(testutil.CollectAndCount(m.storeLatency), ShouldEqual, 1)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		m := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))
		m.RecordScoreAdmitted()
		m.RecordEviction()

		Convey("Then nothing is recorded", func() {
			So(testutil.ToFloat64(m.evictions), ShouldEqual, 0)
		})
	})

	Convey("Given the global helpers", t, func() {
		Convey("Then they should not panic", func() {
			So(func() {
				RecordScoreAdmitted()
				RecordScoreRejected()
				RecordEviction()
				UpdateBoard(1, 5)
				RecordStoreLatency(OpTop, 0.2)
				RecordStoreError(OpTrim)
				RecordStoreTrimmed(2)
			}, ShouldNotPanic)
		})
	})
}

func TestWriteText(t *testing.T) {
	Convey("Given recorded metrics", t, func() {
		RecordScoreAdmitted()
		UpdateBoard(1, 5)

		Convey("When writing the registry as text", func() {
			var buf bytes.Buffer
			err := WriteText(&buf)

			Convey("Then the exposition format contains the scoreboard metrics", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "blast_scoreboard_scores_submitted_total")
				So(buf.String(), ShouldContainSubstring, "blast_scoreboard_board_capacity 5")
			})
		})
	})
}
