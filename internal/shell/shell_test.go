package shell_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/launchdash/internal/domain/types"
	"github.com/okian/launchdash/internal/shell"
	"github.com/smartystreets/goconvey/convey"
)

func TestRegistry(t *testing.T) {
	convey.Convey("Given an empty wiring table", t, func() {
		ctx := context.Background()
		reg := shell.NewRegistry()
		site := shell.Dependency{ID: "site-dropdown", Property: shell.PropValue}
		payload := shell.Dependency{ID: "payload-slider", Property: shell.PropValue}
		pie := shell.Dependency{ID: "success-pie-chart", Property: shell.PropFigure}
		scatter := shell.Dependency{ID: "success-payload-scatter-chart", Property: shell.PropFigure}

		echo := func(_ context.Context, in []json.RawMessage) (any, error) {
			out := make([]string, len(in))
			for i, v := range in {
				out[i] = string(v)
			}
			return out, nil
		}

		convey.Convey("When two outputs are registered", func() {
			convey.So(reg.Register(pie, []shell.Dependency{site}, echo), convey.ShouldBeNil)
			convey.So(reg.Register(scatter, []shell.Dependency{site, payload}, echo), convey.ShouldBeNil)

			convey.Convey("Then bindings should be listed by output", func() {
				b := reg.Bindings()
				convey.So(len(b), convey.ShouldEqual, 2)
				convey.So(b[0].Output, convey.ShouldResemble, scatter)
				convey.So(b[0].Inputs, convey.ShouldResemble, []shell.Dependency{site, payload})
				convey.So(b[1].Output, convey.ShouldResemble, pie)
			})

			convey.Convey("And dependents of the site selector should be both graphs", func() {
				convey.So(reg.Dependents("site-dropdown"), convey.ShouldResemble,
					[]string{"success-payload-scatter-chart", "success-pie-chart"})
				convey.So(reg.Dependents("payload-slider"), convey.ShouldResemble,
					[]string{"success-payload-scatter-chart"})
			})

			convey.Convey("And dispatch should pass inputs in declared order", func() {
				got, err := reg.Dispatch(ctx, scatter.ID, map[string]json.RawMessage{
					"payload-slider": json.RawMessage(`[0,1000]`),
					"site-dropdown":  json.RawMessage(`"ALL"`),
				})
				convey.So(err, convey.ShouldBeNil)
				convey.So(got, convey.ShouldResemble, []string{`"ALL"`, `[0,1000]`})
			})

			convey.Convey("And a missing input should be reported", func() {
				_, err := reg.Dispatch(ctx, scatter.ID, map[string]json.RawMessage{
					"site-dropdown": json.RawMessage(`"ALL"`),
				})
				convey.So(errors.Is(err, shell.ErrMissingInput), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "payload-slider.value")
			})

			convey.Convey("And an unknown output should be reported", func() {
				_, err := reg.Dispatch(ctx, "nope", nil)
				convey.So(errors.Is(err, shell.ErrUnknownOutput), convey.ShouldBeTrue)
			})

			convey.Convey("And rebinding an output should fail", func() {
				err := reg.Register(pie, []shell.Dependency{payload}, echo)
				convey.So(errors.Is(err, shell.ErrDuplicateOutput), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a callback has no inputs", func() {
			err := reg.Register(pie, nil, echo)

			convey.Convey("Then registration should fail", func() {
				convey.So(errors.Is(err, shell.ErrNoInputs), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the callback fails", func() {
			boom := errors.New("boom")
			_ = reg.Register(pie, []shell.Dependency{site}, func(context.Context, []json.RawMessage) (any, error) {
				return nil, boom
			})
			_, err := reg.Dispatch(ctx, pie.ID, map[string]json.RawMessage{"site-dropdown": json.RawMessage(`"A"`)})

			convey.Convey("Then the error should reach the caller", func() {
				convey.So(errors.Is(err, boom), convey.ShouldBeTrue)
			})
		})
	})
}

func TestValues(t *testing.T) {
	convey.Convey("Given raw control values", t, func() {
		convey.Convey("When decoding a quoted string", func() {
			s, err := shell.DecodeString(json.RawMessage(`"KSC LC-39A"`))
			convey.So(err, convey.ShouldBeNil)
			convey.So(s, convey.ShouldEqual, "KSC LC-39A")
		})

		convey.Convey("When decoding a bare numeric token", func() {
			s, err := shell.DecodeString(json.RawMessage(`40`))
			convey.So(err, convey.ShouldBeNil)
			convey.So(s, convey.ShouldEqual, "40")
		})

		convey.Convey("When decoding an array as a string", func() {
			_, err := shell.DecodeString(json.RawMessage(`[1,2]`))
			convey.So(errors.Is(err, shell.ErrInvalidInput), convey.ShouldBeTrue)
		})

		convey.Convey("When decoding a range pair", func() {
			lo, hi, err := shell.DecodeRange(json.RawMessage(`[500, 2500.5]`))
			convey.So(err, convey.ShouldBeNil)
			convey.So(lo, convey.ShouldEqual, 500.0)
			convey.So(hi, convey.ShouldEqual, 2500.5)
		})

		convey.Convey("When decoding a range with the wrong arity", func() {
			_, _, err := shell.DecodeRange(json.RawMessage(`[500]`))
			convey.So(errors.Is(err, shell.ErrInvalidInput), convey.ShouldBeTrue)
		})

		convey.Convey("When decoding a range that is not an array", func() {
			_, _, err := shell.DecodeRange(json.RawMessage(`"wide"`))
			convey.So(errors.Is(err, shell.ErrInvalidInput), convey.ShouldBeTrue)
		})

		convey.Convey("When converting query values", func() {
			convey.So(string(shell.RawFromQuery("ALL")), convey.ShouldEqual, `"ALL"`)
			convey.So(string(shell.RawFromQuery("CCAFS LC-40")), convey.ShouldEqual, `"CCAFS LC-40"`)
			convey.So(string(shell.RawFromQuery("[0,1000]")), convey.ShouldEqual, `[0,1000]`)
			convey.So(string(shell.RawFromQuery("0, 1000")), convey.ShouldEqual, `[0,1000]`)
			convey.So(string(shell.RawFromQuery(`"quoted"`)), convey.ShouldEqual, `"quoted"`)
		})
	})
}

func TestLayoutJSON(t *testing.T) {
	convey.Convey("Given a layout with every component kind", t, func() {
		l := shell.Layout{
			Title: "Dash",
			Components: []shell.Component{
				shell.Heading{Text: "Dash"},
				shell.Dropdown{ID: "site-dropdown", Options: []types.SiteOption{{Label: "All Sites", Value: "ALL"}}, Value: "ALL"},
				shell.Break{},
				shell.Graph{ID: "success-pie-chart"},
				shell.Paragraph{Text: "Payload range (Kg):"},
				shell.Slider{RangeSlider: types.RangeSlider{ID: "payload-slider", Min: 0, Max: 1000, Step: 1000, Value: [2]int{0, 1000}}},
				shell.Graph{ID: "success-payload-scatter-chart"},
			},
		}

		convey.Convey("When marshalling it", func() {
			body, err := json.Marshal(l)
			convey.So(err, convey.ShouldBeNil)

			var decoded struct {
				Title      string           `json:"title"`
				Components []map[string]any `json:"components"`
			}
			convey.So(json.Unmarshal(body, &decoded), convey.ShouldBeNil)

			convey.Convey("Then each node should carry its type and fields", func() {
				convey.So(decoded.Title, convey.ShouldEqual, "Dash")
				convey.So(len(decoded.Components), convey.ShouldEqual, 7)
				convey.So(decoded.Components[0]["type"], convey.ShouldEqual, shell.KindHeading)
				convey.So(decoded.Components[1]["type"], convey.ShouldEqual, shell.KindDropdown)
				convey.So(decoded.Components[1]["value"], convey.ShouldEqual, "ALL")
				convey.So(decoded.Components[2]["type"], convey.ShouldEqual, shell.KindBreak)
				convey.So(decoded.Components[5]["type"], convey.ShouldEqual, shell.KindRangeSlider)
				convey.So(decoded.Components[5]["id"], convey.ShouldEqual, "payload-slider")
				convey.So(decoded.Components[5]["max"], convey.ShouldEqual, 1000.0)
			})

			convey.Convey("And graphs should be listed in layout order", func() {
				convey.So(l.Graphs(), convey.ShouldResemble, []string{"success-pie-chart", "success-payload-scatter-chart"})
			})
		})
	})
}
