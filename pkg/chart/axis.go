package chart

import (
	"fmt"
	"strconv"
	"time"
)

const (
	tickSize    = 6
	tickPadding = 3
	// crisp 1px lines on non-retina displays
	axisOffset = 0.5
	// DefaultTickCount is the number of ticks requested from the count axis.
	DefaultTickCount = 10
)

// YearFormat labels a band with the calendar year of its date.
func YearFormat(d time.Time) string {
	return strconv.Itoa(d.UTC().Year())
}

func styleAxis(g *Element, anchor string) {
	g.SetAttr("fill", "none").
		SetAttr("font-size", "10").
		SetAttr("font-family", "sans-serif").
		SetAttr("text-anchor", anchor)
}

// drawBottomAxis renders a band axis into g, replacing its previous content.
func drawBottomAxis(g *Element, x *BandScale, format func(time.Time) string) {
	g.Clear()
	styleAxis(g, "middle")

	r0 := x.rangeStart + axisOffset
	r1 := x.rangeStop + axisOffset
	g.Append("path").
		SetAttr("class", "domain").
		SetAttr("stroke", "currentColor").
		SetAttr("d", fmt.Sprintf("M%s,%dV%sH%sV%d", formatNum(r0), tickSize, formatNum(axisOffset), formatNum(r1), tickSize))

	for _, d := range x.domain {
		pos, _ := x.Position(d)
		tick := g.Append("g").
			SetAttr("class", "tick").
			SetAttr("opacity", "1").
			SetAttr("transform", translate(pos+x.Bandwidth()/2+axisOffset, 0))
		tick.Append("line").
			SetAttr("stroke", "currentColor").
			SetNum("y2", tickSize)
		tick.Append("text").
			SetAttr("fill", "currentColor").
			SetNum("y", tickSize+tickPadding).
			SetAttr("dy", "0.71em").
			SetText(format(d))
	}
}

// drawLeftAxis renders a linear axis into g, replacing its previous content.
func drawLeftAxis(g *Element, y LinearScale, count int) {
	g.Clear()
	styleAxis(g, "end")

	r0, r1 := y.Range()
	g.Append("path").
		SetAttr("class", "domain").
		SetAttr("stroke", "currentColor").
		SetAttr("d", fmt.Sprintf("M-%d,%sH%sV%sH-%d", tickSize, formatNum(r0+axisOffset), formatNum(axisOffset), formatNum(r1+axisOffset), tickSize))

	format := y.TickFormat(count)
	for _, v := range y.Ticks(count) {
		tick := g.Append("g").
			SetAttr("class", "tick").
			SetAttr("opacity", "1").
			SetAttr("transform", translate(0, y.Scale(v)+axisOffset))
		tick.Append("line").
			SetAttr("stroke", "currentColor").
			SetNum("x2", -tickSize)
		tick.Append("text").
			SetAttr("fill", "currentColor").
			SetNum("x", -(tickSize + tickPadding)).
			SetAttr("dy", "0.32em").
			SetText(format(v))
	}
}

func translate(x, y float64) string {
	return "translate(" + formatNum(x) + "," + formatNum(y) + ")"
}
