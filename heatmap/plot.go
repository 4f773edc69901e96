// Package heatmap renders energy grids and energy time series with
// gonum/plot.
package heatmap

import (
	"image/color"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Default image size for Save.
const (
	Width  = 20 * vg.Centimeter
	Height = 15 * vg.Centimeter
)

// Save writes plt to path. The format is taken from the extension.
func Save(plt *plot.Plot, path string) error {
	return plt.Save(Width, Height, path)
}

// newPlot returns a plot with light text on a black background, which
// suits heat maps where black means "no energy".
func newPlot(title string) *plot.Plot {
	plt := plot.New()
	plt.Title.Text = title
	plt.BackgroundColor = color.Black
	for _, elt := range []*color.Color{
		&plt.Title.TextStyle.Color,
		&plt.X.Color,
		&plt.X.Tick.Color,
		&plt.X.Tick.Label.Color,
		&plt.X.Label.TextStyle.Color,
		&plt.Y.Color,
		&plt.Y.Tick.Color,
		&plt.Y.Tick.Label.Color,
		&plt.Y.Label.TextStyle.Color,
	} {
		*elt = color.White
	}
	return plt
}

// splitTime splits t into day and time of day. For the day, we put it
// at noon to "center" it on that date. The result is in UTC since
// that's the time zone gonum will render it in and it avoids further
// complications with DST.
func splitTime(t time.Time) (day time.Time, tod time.Duration) {
	day = time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, time.UTC)
	tod = time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second + time.Duration(t.Nanosecond())
	return
}
