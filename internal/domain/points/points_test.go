package points_test

import (
	"testing"

	points "github.com/ratmirov/tatami/internal/domain/points"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCalculate(t *testing.T) {
	Convey("Given the standard points calculator", t, func() {
		calc := points.New()

		Convey("When calculating first place", func() {
			Convey("Then the importance multiplier is clamped to [1,3]", func() {
				So(calc.Calculate(1, 1), ShouldEqual, 12)
				So(calc.Calculate(1, 2), ShouldEqual, 24)
				So(calc.Calculate(1, 3), ShouldEqual, 36)
				So(calc.Calculate(1, 0), ShouldEqual, 12)   // below range clamps up
				So(calc.Calculate(1, -5), ShouldEqual, 12)  // below range clamps up
				So(calc.Calculate(1, 7), ShouldEqual, 36)   // above range clamps down
				So(calc.Calculate(1, 100), ShouldEqual, 36) // above range clamps down
			})
		})

		Convey("When calculating places across the table", func() {
			expected := map[int]int{1: 12, 2: 10, 3: 8, 4: 6, 5: 5, 6: 4, 7: 3, 8: 2, 9: 1, 10: 1}
			for place, base := range expected {
				So(calc.Calculate(place, 1), ShouldEqual, base)
				So(calc.Calculate(place, 2), ShouldEqual, base*2)
			}
		})

		Convey("When the place is outside 1..10", func() {
			So(calc.Calculate(11, 1), ShouldEqual, 0)
			So(calc.Calculate(11, 3), ShouldEqual, 0)
			So(calc.Calculate(0, 2), ShouldEqual, 0)
			So(calc.Calculate(-1, 2), ShouldEqual, 0)
			So(calc.Calculate(999, 2), ShouldEqual, 0)
		})
	})

	Convey("Given the package-level shorthand", t, func() {
		Convey("Then it matches the default calculator", func() {
			calc := points.New()
			for place := 0; place <= 12; place++ {
				for _, imp := range []int{-1, 1, 2, 3, 9} {
					So(points.Calculate(place, imp), ShouldEqual, calc.Calculate(place, imp))
				}
			}
		})
	})

	Convey("Given a calculator with a custom base table", t, func() {
		calc := points.New(points.WithBaseTable(map[int]int{1: 100}))

		Convey("Then only the custom table applies", func() {
			So(calc.Calculate(1, 1), ShouldEqual, 100)
			So(calc.Calculate(2, 1), ShouldEqual, 0)
		})
	})
}
