package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	service "github.com/okian/launchdash/internal/app"
	"github.com/okian/launchdash/internal/domain/dataset"
	"github.com/okian/launchdash/internal/domain/derive"
	"github.com/okian/launchdash/internal/domain/model"
	"github.com/okian/launchdash/internal/domain/types"
	"github.com/okian/launchdash/internal/shell"
	. "github.com/smartystreets/goconvey/convey"
)

const fixturePath = "../domain/dataset/testdata/launches.csv"

func started(t *testing.T, opts ...service.Option) *service.Service {
	t.Helper()
	svc := service.New(append([]service.Option{service.WithDataPath(fixturePath)}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	return svc
}

func TestService_Start(t *testing.T) {
	Convey("Given a new service", t, func() {
		ctx := context.Background()

		Convey("When the data file is readable", func() {
			svc := service.New(service.WithDataPath(fixturePath))
			err := svc.Start(ctx)
			defer svc.Stop()

			Convey("Then it should start and report the table", func() {
				So(err, ShouldBeNil)
				stats := svc.GetStats()
				So(stats["started"], ShouldEqual, true)
				So(stats["records"], ShouldEqual, 16)
				So(stats["sites"], ShouldEqual, 4)
				So(stats["outputs"], ShouldEqual, 2)
			})

			Convey("And starting again should be a no-op", func() {
				So(svc.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When the data file is missing", func() {
			svc := service.New(service.WithDataPath("testdata/nope.csv"))
			err := svc.Start(ctx)

			Convey("Then start should fail and leave it stopped", func() {
				So(errors.Is(err, service.ErrLoadDataset), ShouldBeTrue)
				So(errors.Is(err, dataset.ErrOpen), ShouldBeTrue)
				So(svc.GetStats()["started"], ShouldEqual, false)
			})
		})

		Convey("When a dataset is supplied directly", func() {
			ds, err := dataset.New([]model.LaunchRecord{
				{Site: "A", PayloadMassKg: 500, BoosterCategory: "v1", Class: 1},
			})
			So(err, ShouldBeNil)
			svc := service.New(service.WithDataset(ds), service.WithDataPath("ignored.csv"))

			Convey("Then no file should be read", func() {
				So(svc.Start(ctx), ShouldBeNil)
				opts, err := svc.SiteOptions(ctx)
				So(err, ShouldBeNil)
				So(opts, ShouldResemble, []types.SiteOption{
					{Label: derive.AllSitesLabel, Value: model.AllSites},
					{Label: "A", Value: "A"},
				})
			})
		})

		Convey("When the service has not been started", func() {
			svc := service.New()

			Convey("Then every query should refuse", func() {
				_, err := svc.Pie(ctx, model.AllSites)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				_, err = svc.Layout(ctx)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				_, err = svc.Dispatch(ctx, service.PieGraphID, nil)
				So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
				So(func() { svc.Stop() }, ShouldNotPanic)
			})
		})
	})
}

func TestService_Controls(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := started(t, service.WithTitle("Launches"), service.WithSliderStep(2500))
		defer svc.Stop()

		Convey("When reading the slider", func() {
			sl, err := svc.Slider(ctx)

			Convey("Then it should span the table with the configured step", func() {
				So(err, ShouldBeNil)
				So(sl.ID, ShouldEqual, service.PayloadSliderID)
				So(sl.Min, ShouldEqual, 0)
				So(sl.Max, ShouldEqual, 9600)
				So(sl.Value, ShouldResemble, [2]int{0, 9600})
				So(len(sl.Marks), ShouldEqual, 4)
			})
		})

		Convey("When reading the layout", func() {
			l, err := svc.Layout(ctx)

			Convey("Then controls and graphs should be in page order", func() {
				So(err, ShouldBeNil)
				So(l.Title, ShouldEqual, "Launches")
				So(l.Graphs(), ShouldResemble, []string{service.PieGraphID, service.ScatterGraphID})
				dd, ok := l.Components[1].(shell.Dropdown)
				So(ok, ShouldBeTrue)
				So(dd.Value, ShouldEqual, model.AllSites)
				So(len(dd.Options), ShouldEqual, 5)
			})
		})

		Convey("When reading the wiring table", func() {
			b, err := svc.Bindings(ctx)

			Convey("Then both graphs should be bound to the controls", func() {
				So(err, ShouldBeNil)
				So(len(b), ShouldEqual, 2)
				So(b[0].Output.ID, ShouldEqual, service.ScatterGraphID)
				So(len(b[0].Inputs), ShouldEqual, 2)
				So(b[1].Output.ID, ShouldEqual, service.PieGraphID)
				So(b[1].Inputs[0].ID, ShouldEqual, service.SiteDropdownID)
			})
		})

		Convey("When reading the summary", func() {
			sum, err := svc.Summary(ctx)

			Convey("Then it should count the fixture", func() {
				So(err, ShouldBeNil)
				So(sum.Records, ShouldEqual, 16)
				So(sum.Successes, ShouldEqual, 7)
			})
		})
	})
}

func TestService_Dispatch(t *testing.T) {
	Convey("Given a started service", t, func() {
		ctx := context.Background()
		svc := started(t)
		defer svc.Stop()

		Convey("When the site selector drives the pie", func() {
			fig, err := svc.Dispatch(ctx, service.PieGraphID, map[string]json.RawMessage{
				service.SiteDropdownID: json.RawMessage(`"KSC LC-39A"`),
			})

			Convey("Then it should return the site's outcome split", func() {
				So(err, ShouldBeNil)
				pie, ok := fig.(types.PieChart)
				So(ok, ShouldBeTrue)
				So(pie.Slices, ShouldResemble, []types.PieSlice{
					{Label: "1", Value: 3},
					{Label: "0", Value: 1},
				})
			})
		})

		Convey("When the selector and slider drive the scatter", func() {
			fig, err := svc.Dispatch(ctx, service.ScatterGraphID, map[string]json.RawMessage{
				service.SiteDropdownID:  json.RawMessage(`"ALL"`),
				service.PayloadSliderID: json.RawMessage(`[500, 525]`),
			})

			Convey("Then it should return the rows inside the range", func() {
				So(err, ShouldBeNil)
				sc, ok := fig.(types.ScatterChart)
				So(ok, ShouldBeTrue)
				So(len(sc.Points), ShouldEqual, 3)
			})
		})

		Convey("When the slider range is inverted", func() {
			_, err := svc.Dispatch(ctx, service.ScatterGraphID, map[string]json.RawMessage{
				service.SiteDropdownID:  json.RawMessage(`"ALL"`),
				service.PayloadSliderID: json.RawMessage(`[900, 100]`),
			})

			Convey("Then the range error should surface", func() {
				So(errors.Is(err, derive.ErrInvalidRange), ShouldBeTrue)
			})
		})

		Convey("When the slider value is malformed", func() {
			_, err := svc.Dispatch(ctx, service.ScatterGraphID, map[string]json.RawMessage{
				service.SiteDropdownID:  json.RawMessage(`"ALL"`),
				service.PayloadSliderID: json.RawMessage(`"wide"`),
			})

			Convey("Then it should be an input error", func() {
				So(errors.Is(err, shell.ErrInvalidInput), ShouldBeTrue)
			})
		})

		Convey("When an unknown site is selected", func() {
			pie, err := svc.Pie(ctx, "Boca Chica")

			Convey("Then the pie should be empty, not an error", func() {
				So(err, ShouldBeNil)
				So(pie.Empty, ShouldBeTrue)
				So(pie.Slices, ShouldBeEmpty)
			})
		})

		Convey("When many clients query concurrently", func() {
			var wg sync.WaitGroup
			errs := make(chan error, 32)
			for i := range 32 {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					if i%2 == 0 {
						_, err := svc.Pie(ctx, model.AllSites)
						errs <- err
						return
					}
					_, err := svc.Scatter(ctx, model.AllSites, model.PayloadRange{Low: 0, High: 5000})
					errs <- err
				}(i)
			}
			wg.Wait()
			close(errs)

			Convey("Then every call should succeed", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				So(svc.GetStats()["pieCalls"], ShouldBeGreaterThanOrEqualTo, int64(16))
			})
		})
	})
}
