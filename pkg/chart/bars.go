package chart

import (
	"strconv"
	"time"

	"github.com/rhobs/yearchart/pkg/histogram"
)

// BarMark is the geometry of one drawn record.
type BarMark struct {
	Record histogram.Record

	X      float64
	Y      float64
	Width  float64
	Height float64

	LabelX float64
	LabelY float64
	Label  string

	group *Element
	rect  *Element
	text  *Element
}

// Group returns the <g class="bars"> element of the mark.
func (m BarMark) Group() *Element {
	return m.group
}

// Bars is the handle to the bar groups of a drawn chart.
type Bars struct {
	marks []BarMark
}

// Len returns the number of drawn bar groups.
func (b *Bars) Len() int {
	return len(b.marks)
}

// Marks returns the geometry of every bar, in record order.
func (b *Bars) Marks() []BarMark {
	out := make([]BarMark, len(b.marks))
	copy(out, b.marks)
	return out
}

// Link makes every bar clickable by wrapping its rectangle and label in an
// <a> element pointing at href(record). An empty href leaves the bar untouched.
func (b *Bars) Link(href func(histogram.Record) string) *Bars {
	for _, m := range b.marks {
		target := href(m.Record)
		if target == "" {
			continue
		}
		if a := m.group.childWithClass("bar-link"); a != nil {
			a.SetAttr("href", target)
			continue
		}
		a := m.group.Append("a").
			SetAttr("class", "bar-link").
			SetAttr("href", target)
		a.AppendChild(m.rect)
		a.AppendChild(m.text)
	}
	return b
}

// scales is the scale pair of a single draw. It is never stored between draws.
type scales struct {
	x *BandScale
	y LinearScale
}

func computeScales(records []histogram.Record, shape Shape) scales {
	domain := make([]time.Time, len(records))
	for i, r := range records {
		domain[i] = r.Date
	}
	return scales{
		x: NewBandScale(domain, 0, shape.Width),
		y: CountScale(records, shape.Height),
	}
}

// drawBars appends one <g class="bars"> per record to parent.
func drawBars(parent *Element, records []histogram.Record, sc scales, height float64) *Bars {
	bw := sc.x.Bandwidth()
	bars := &Bars{marks: make([]BarMark, 0, len(records))}
	for _, r := range records {
		x, _ := sc.x.Position(r.Date)
		y := sc.y.Scale(float64(r.Count))
		m := BarMark{
			Record: r,
			X:      x,
			Y:      y,
			Width:  bw,
			Height: height - y,
			LabelX: x + bw/2,
			LabelY: sc.y.Scale(float64(r.Count + 1)),
			Label:  strconv.FormatInt(r.Count, 10),
		}

		m.group = parent.Append("g").SetAttr("class", "bars")
		m.rect = m.group.Append("rect").
			SetAttr("class", "bar").
			SetNum("x", m.X).
			SetNum("y", m.Y).
			SetNum("height", m.Height).
			SetNum("width", m.Width)
		m.text = m.group.Append("text").
			SetAttr("class", "label").
			SetNum("x", m.LabelX).
			SetNum("y", m.LabelY).
			SetAttr("dy", ".75em").
			SetText(m.Label)

		bars.marks = append(bars.marks, m)
	}
	return bars
}

// PopulateBars draws a complete year chart into the element of doc matched by
// selector: a margin group, a bottom year axis, a left count axis and one bar
// group per record. Every call appends a new chart; the surface itself is
// never created.
func PopulateBars(doc *Document, selector string, records []histogram.Record, shape Shape) (*Bars, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if err := histogram.ValidateRecords(records); err != nil {
		return nil, err
	}
	surface, err := doc.Select(selector)
	if err != nil {
		return nil, err
	}

	surface.SetNum("width", shape.OuterWidth()).
		SetNum("height", shape.OuterHeight())
	chart := surface.Append("g").
		SetAttr("transform", translate(shape.Margin.Left, shape.Margin.Top))

	sc := computeScales(records, shape)

	xAxis := chart.Append("g").
		SetAttr("class", "x axis").
		SetAttr("transform", translate(0, shape.Height))
	drawBottomAxis(xAxis, sc.x, YearFormat)

	yAxis := chart.Append("g").SetAttr("class", "y axis")
	drawLeftAxis(yAxis, sc.y, DefaultTickCount)

	return drawBars(chart, records, sc, shape.Height), nil
}
