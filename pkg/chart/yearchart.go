package chart

import (
	"time"

	"github.com/rhobs/yearchart/pkg/histogram"
)

const skeletonClass = "year-chart"

// YearBarChart is a reusable year chart. It only holds its Shape; scales are
// recomputed on every draw.
type YearBarChart struct {
	shape Shape
}

// NewYearBarChart validates shape and returns a chart that draws with it.
func NewYearBarChart(shape Shape) (*YearBarChart, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &YearBarChart{shape: shape}, nil
}

// Shape returns the configured shape.
func (c *YearBarChart) Shape() Shape {
	return c.shape
}

// Draw renders records into the element of doc matched by selector. The first
// draw on a surface creates the margin group and both axis groups; later draws
// reuse them and replace every bar.
func (c *YearBarChart) Draw(doc *Document, selector string, records []histogram.Record) (*Rendered, error) {
	if err := histogram.ValidateRecords(records); err != nil {
		return nil, err
	}
	surface, err := doc.Select(selector)
	if err != nil {
		return nil, err
	}
	return c.drawInto(surface, records), nil
}

func (c *YearBarChart) drawInto(surface *Element, records []histogram.Record) *Rendered {
	shape := c.shape
	surface.SetNum("width", shape.OuterWidth()).
		SetNum("height", shape.OuterHeight())

	root := surface.childWithClass(skeletonClass)
	if root == nil {
		root = surface.Append("g").SetAttr("class", skeletonClass)
		root.Append("g").SetAttr("class", "x axis")
		root.Append("g").SetAttr("class", "y axis")
	}
	root.SetAttr("transform", translate(shape.Margin.Left, shape.Margin.Top))

	for _, old := range root.Children() {
		if old.HasClass("bars") {
			old.Remove()
		}
	}

	sc := computeScales(records, shape)

	xAxis := root.childWithClass("x")
	xAxis.SetAttr("transform", translate(0, shape.Height))
	drawBottomAxis(xAxis, sc.x, YearFormat)
	drawLeftAxis(root.childWithClass("y"), sc.y, DefaultTickCount)

	bars := drawBars(root, records, sc, shape.Height)

	d0, d1 := sc.y.Domain()
	return &Rendered{
		chart:     c,
		surface:   surface,
		xDomain:   sc.x.Domain(),
		yDomain:   [2]float64{d0, d1},
		bandwidth: sc.x.Bandwidth(),
		bars:      bars,
	}
}

// Rendered is the outcome of drawing a YearBarChart onto a surface.
type Rendered struct {
	chart     *YearBarChart
	surface   *Element
	xDomain   []time.Time
	yDomain   [2]float64
	bandwidth float64
	bars      *Bars
}

// XDomain returns the distinct dates on the band axis.
func (r *Rendered) XDomain() []time.Time {
	out := make([]time.Time, len(r.xDomain))
	copy(out, r.xDomain)
	return out
}

// YDomain returns the bounds of the count axis.
func (r *Rendered) YDomain() (float64, float64) {
	return r.yDomain[0], r.yDomain[1]
}

// Bandwidth returns the width of every bar.
func (r *Rendered) Bandwidth() float64 {
	return r.bandwidth
}

// Bars returns the handle to the drawn bars.
func (r *Rendered) Bars() *Bars {
	return r.bars
}

// Surface returns the element the chart was drawn into.
func (r *Rendered) Surface() *Element {
	return r.surface
}

// Update redraws the same surface with new records: domains, axes and bars
// are all recomputed. The domains and bandwidth reported by the receiver keep
// their old values, but its bar handle goes stale: the old bar groups are
// removed from the surface, so Bars on the receiver only edits detached nodes.
func (r *Rendered) Update(records []histogram.Record) (*Rendered, error) {
	if err := histogram.ValidateRecords(records); err != nil {
		return nil, err
	}
	return r.chart.drawInto(r.surface, records), nil
}
