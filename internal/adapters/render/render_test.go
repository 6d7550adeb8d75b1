package render_test

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/okian/launchdash/internal/adapters/render"
	"github.com/okian/launchdash/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func samplePie() types.PieChart {
	return types.PieChart{
		Title: "Total Success Launches by Site",
		Site:  "ALL",
		Slices: []types.PieSlice{
			{Label: "CCAFS LC-40", Value: 1},
			{Label: "VAFB SLC-4E", Value: 0},
			{Label: "KSC LC-39A", Value: 3},
		},
	}
}

func sampleScatter() types.ScatterChart {
	return types.ScatterChart{
		Title:  "Correlation between Payload and Success for all Sites",
		Site:   "ALL",
		XTitle: "Payload Mass (kg)",
		YTitle: "class",
		Low:    0,
		High:   6000,
		Groups: []string{"v1.1", "FT"},
		Points: []types.ScatterPoint{
			{X: 500, Y: 0, Group: "v1.1", Site: "VAFB SLC-4E"},
			{X: 2490, Y: 1, Group: "FT", Site: "KSC LC-39A"},
			{X: 5600, Y: 0, Group: "FT", Site: "KSC LC-39A"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	Convey("Given format names", t, func() {
		Convey("Then extensions and names should be accepted", func() {
			f, err := render.ParseFormat(".png")
			So(err, ShouldBeNil)
			So(f, ShouldEqual, render.FormatPNG)
			f, err = render.ParseFormat("SVG")
			So(err, ShouldBeNil)
			So(f, ShouldEqual, render.FormatSVG)
			So(f.ContentType(), ShouldEqual, "image/svg+xml")
			So(render.FormatPNG.ContentType(), ShouldEqual, "image/png")
		})

		Convey("Then other formats should be rejected", func() {
			_, err := render.ParseFormat("gif")
			So(errors.Is(err, render.ErrUnsupportedFormat), ShouldBeTrue)
		})
	})
}

func TestRenderPie(t *testing.T) {
	Convey("Given a renderer", t, func() {
		r := render.New(render.WithSize(320, 240))

		Convey("When drawing a pie with a zero slice as PNG", func() {
			var buf bytes.Buffer
			err := r.Render(&buf, samplePie(), render.FormatPNG)

			Convey("Then a PNG of the configured size should be produced", func() {
				So(err, ShouldBeNil)
				cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
				So(err, ShouldBeNil)
				So(cfg.Width, ShouldEqual, 320)
				So(cfg.Height, ShouldEqual, 240)
			})
		})

		Convey("When drawing an empty pie", func() {
			var buf bytes.Buffer
			err := r.Pie(&buf, types.PieChart{Title: "Total Success vs Failure Launches for site X", Empty: true}, render.FormatSVG)

			Convey("Then a placeholder should be drawn instead of failing", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "No data")
			})
		})

		Convey("When every slice is zero", func() {
			p := types.PieChart{Title: "t", Slices: []types.PieSlice{{Label: "A", Value: 0}}}
			var buf bytes.Buffer
			err := r.Pie(&buf, p, render.FormatSVG)

			Convey("Then the placeholder should be drawn", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "No data")
			})
		})

		Convey("When given a pointer figure", func() {
			p := samplePie()
			var buf bytes.Buffer
			So(r.Render(&buf, &p, render.FormatSVG), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "<svg")
		})
	})
}

func TestRenderScatter(t *testing.T) {
	Convey("Given a renderer", t, func() {
		r := render.New(render.WithDotWidth(3))

		Convey("When drawing a scatter as SVG", func() {
			sc := sampleScatter()
			var buf bytes.Buffer
			err := r.Render(&buf, sc, render.FormatSVG)

			Convey("Then the legend should name each booster group", func() {
				So(err, ShouldBeNil)
				So(buf.String(), ShouldContainSubstring, "v1.1")
				So(buf.String(), ShouldContainSubstring, "FT")
			})

			Convey("And the caller's groups should be untouched", func() {
				So(sc.Groups, ShouldResemble, []string{"v1.1", "FT"})
			})
		})

		Convey("When drawing an empty scatter", func() {
			sc := sampleScatter()
			sc.Points = nil
			sc.Groups = nil
			sc.Empty = true
			var buf bytes.Buffer
			err := r.Scatter(&buf, sc, render.FormatPNG)

			Convey("Then the axes should still be drawn", func() {
				So(err, ShouldBeNil)
				So(buf.Len(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the range collapses to a single value", func() {
			sc := sampleScatter()
			sc.Low, sc.High = 500, 500
			sc.Points = sc.Points[:1]
			sc.Groups = sc.Groups[:1]
			var buf bytes.Buffer

			Convey("Then it should still render", func() {
				So(r.Scatter(&buf, sc, render.FormatSVG), ShouldBeNil)
			})
		})
	})
}

func TestRenderUnsupported(t *testing.T) {
	Convey("Given a value that is not a chart", t, func() {
		var buf bytes.Buffer
		err := render.New().Render(&buf, "pie", render.FormatPNG)

		Convey("Then it should be rejected", func() {
			So(errors.Is(err, render.ErrUnsupportedFigure), ShouldBeTrue)
		})
	})
}
