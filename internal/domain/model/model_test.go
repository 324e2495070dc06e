package model

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRunnerPatch(t *testing.T) {
	Convey("Given a runner", t, func() {
		r := Runner{
			BibNumber:       "NU25MCA12",
			Name:            "Priya Singh",
			Category:        CategoryHalfMarathon,
			City:            "Delhi",
			StartTime:       "07:00",
			CompletionTime:  Minutes(110),
			Finished:        true,
			Medal:           true,
			Certificate:     true,
			CheckpointTimes: []int{30, 60, 90, 110},
		}

		Convey("When an empty patch is applied", func() {
			before := r.Clone()
			var p RunnerPatch
			p.Apply(&r)

			Convey("Then nothing should change", func() {
				So(p.IsEmpty(), ShouldBeTrue)
				So(r, ShouldResemble, before)
			})
		})

		Convey("When only the completion time is patched", func() {
			before := r.Clone()
			p := RunnerPatch{CompletionTime: Minutes(99)}
			p.Apply(&r)

			Convey("Then only that field should change", func() {
				So(*r.CompletionTime, ShouldEqual, 99)
				before.CompletionTime = Minutes(99)
				So(r, ShouldResemble, before)
				So(p.Fields(), ShouldResemble, map[string]any{"completion_time": 99})
			})
		})

		Convey("When a patch is decoded from JSON", func() {
			var p RunnerPatch
			err := json.Unmarshal([]byte(`{"finished": false, "medal": false, "checkpoint_times": [35, 70, 105]}`), &p)
			So(err, ShouldBeNil)
			p.Apply(&r)

			Convey("Then booleans set to false should still apply", func() {
				So(r.Finished, ShouldBeFalse)
				So(r.Medal, ShouldBeFalse)
				So(r.Certificate, ShouldBeTrue)
				So(r.CheckpointTimes, ShouldResemble, []int{35, 70, 105})
				So(p.Fields(), ShouldContainKey, "finished")
				So(p.Fields(), ShouldNotContainKey, "certificate")
			})
		})
	})
}

func TestRunnerJSON(t *testing.T) {
	Convey("Given runner JSON without optional fields", t, func() {
		var r Runner
		err := json.Unmarshal([]byte(`{"bib_number":"X1","name":"Ana","category":"5K","finished":false}`), &r)

		Convey("Then the optional fields should be absent", func() {
			So(err, ShouldBeNil)
			_, ok := r.Minutes()
			So(ok, ShouldBeFalse)
			So(r.CheckpointTimes, ShouldBeNil)
		})

		Convey("And encoding should omit them", func() {
			b, err := json.Marshal(r)
			So(err, ShouldBeNil)
			So(string(b), ShouldNotContainSubstring, "completion_time")
			So(string(b), ShouldNotContainSubstring, "checkpoint_times")
		})
	})

	Convey("Given a runner with a zero completion time", t, func() {
		r := Runner{BibNumber: "NU25MCA16", CompletionTime: Minutes(0)}

		Convey("Then the zero should survive encoding", func() {
			b, err := json.Marshal(r)
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"completion_time":0`)
		})
	})
}

func TestRunnerClone(t *testing.T) {
	Convey("Given a cloned runner", t, func() {
		r := Runner{CompletionTime: Minutes(10), CheckpointTimes: []int{5, 10}}
		c := r.Clone()
		*c.CompletionTime = 20
		c.CheckpointTimes[0] = 1

		Convey("Then the source runner should be unaffected", func() {
			So(*r.CompletionTime, ShouldEqual, 10)
			So(r.CheckpointTimes[0], ShouldEqual, 5)
		})
	})
}
