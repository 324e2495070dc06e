package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/okian/marathon/internal/domain/catalog"
	"github.com/okian/marathon/internal/domain/seed"
	"github.com/smartystreets/goconvey/convey"
)

type fakeRunner struct {
	data  catalog.Dataset
	err   error
	calls []int
}

func (f *fakeRunner) Queries() []catalog.Query { return catalog.All() }

func (f *fakeRunner) RunQuery(_ context.Context, n int) (catalog.Result, error) {
	f.calls = append(f.calls, n)
	if f.err != nil {
		return catalog.Result{}, f.err
	}
	return catalog.Run(n, f.data)
}

func seededRunner() *fakeRunner {
	return &fakeRunner{data: catalog.Dataset{Runners: seed.Runners(), Sponsors: seed.Sponsors(), Stalls: seed.Stalls()}}
}

func TestDispatch(t *testing.T) {
	convey.Convey("Given a CLI over the sample race", t, func() {
		ctx := context.Background()
		f := seededRunner()
		var out bytes.Buffer

		convey.Convey("When a query number is given", func() {
			err := Dispatch(ctx, f, &out, "marathonctl", []string{"3"})

			convey.Convey("Then it should print the titled result and count", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(f.calls, convey.ShouldResemble, []int{3})
				s := out.String()
				convey.So(s, convey.ShouldContainSubstring, strings.Repeat("=", 80)+"\n  Q3: Runners Who Did Not Finish\n")
				convey.So(s, convey.ShouldContainSubstring, `"bib_number": "NU25MCA16"`)
				convey.So(s, convey.ShouldContainSubstring, "\nTotal Results: 1\n")
			})
		})

		convey.Convey("When the query has no rows", func() {
			err := Dispatch(ctx, f, &out, "marathonctl", []string{"10"})

			convey.Convey("Then it should say so without a count", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldContainSubstring, "No results found.")
				convey.So(out.String(), convey.ShouldNotContainSubstring, "Total Results")
			})
		})

		convey.Convey("When no argument is given", func() {
			err := Dispatch(ctx, f, &out, "marathonctl", nil)

			convey.Convey("Then it should print usage and the menu", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(f.calls, convey.ShouldBeEmpty)
				convey.So(out.String(), convey.ShouldContainSubstring, "Usage: marathonctl <query_number|operation>")
				convey.So(out.String(), convey.ShouldContainSubstring, "AVAILABLE QUERIES")
			})
		})

		convey.Convey("When the argument is not a query", func() {
			for _, arg := range []string{"0", "13", "insert", "abc", "+3", "03", " 3", "3 "} {
				out.Reset()
				convey.So(Dispatch(ctx, f, &out, "marathonctl", []string{arg}), convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldContainSubstring, "Invalid command")
				convey.So(out.String(), convey.ShouldContainSubstring, "OPERATIONS:")
			}
			convey.So(f.calls, convey.ShouldBeEmpty)
		})

		convey.Convey("When list is requested", func() {
			convey.So(Dispatch(ctx, f, &out, "marathonctl", []string{"LIST"}), convey.ShouldBeNil)
			convey.So(out.String(), convey.ShouldNotContainSubstring, "Invalid command")
			convey.So(out.String(), convey.ShouldContainSubstring, "AVAILABLE QUERIES")
		})

		convey.Convey("When the store fails", func() {
			f.err = errors.New("boom")
			err := Dispatch(ctx, f, &out, "marathonctl", []string{"1"})

			convey.Convey("Then the error should be returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(errors.Is(err, f.err), convey.ShouldBeTrue)
			})
		})
	})
}

func TestMenu(t *testing.T) {
	convey.Convey("Given the catalog", t, func() {
		var out bytes.Buffer
		Menu(&out, catalog.All())
		s := out.String()

		convey.Convey("Then every query should be listed in order", func() {
			prev := -1
			for _, q := range catalog.All() {
				i := strings.Index(s, q.Description)
				convey.So(i, convey.ShouldBeGreaterThan, prev)
				prev = i
			}
			convey.So(s, convey.ShouldContainSubstring, "  12. Retrieve cities with the most marathon participants\n")
		})

		convey.Convey("Then the operations should follow the queries", func() {
			for _, op := range operations {
				convey.So(s, convey.ShouldContainSubstring, op)
			}
		})
	})
}

func TestSetupLogging(t *testing.T) {
	convey.Convey("Given logging setup", t, func() {
		convey.So(SetupLogging("text", "warn"), convey.ShouldBeNil)
		convey.So(SetupLogging("xml", "info"), convey.ShouldNotBeNil)
		convey.So(SetupLogging("json", "loud"), convey.ShouldNotBeNil)
	})
}
