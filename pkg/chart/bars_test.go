package chart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhobs/yearchart/pkg/histogram"
)

const delta = 1e-9

func sampleRecords() []histogram.Record {
	return []histogram.Record{
		{Date: histogram.YearStart(2020), Count: 3},
		{Date: histogram.YearStart(2021), Count: 5},
	}
}

func sampleShape() Shape {
	return Shape{
		Width:  200,
		Height: 100,
		Margin: Margin{Top: 10, Right: 10, Bottom: 10, Left: 10},
	}
}

func TestPopulateBarsGeometry(t *testing.T) {
	doc := NewSVGDocument("yearHisto")
	bars, err := PopulateBars(doc, "#yearHisto", sampleRecords(), sampleShape())
	require.NoError(t, err)
	require.Equal(t, 2, bars.Len())

	d0, d1 := CountScale(sampleRecords(), 100).Domain()
	assert.Equal(t, 0.0, d0)
	assert.Equal(t, 6.0, d1)

	marks := bars.Marks()
	y := NewLinearScale(0, 6, 100, 0)

	assert.InDelta(t, 90, marks[0].Width, delta)
	assert.InDelta(t, 90, marks[1].Width, delta)
	assert.InDelta(t, 5, marks[0].X, delta)
	assert.InDelta(t, 105, marks[1].X, delta)

	assert.InDelta(t, 50, marks[0].Y, delta)
	assert.InDelta(t, 100-y.Scale(3), marks[0].Height, delta)
	assert.InDelta(t, 50, marks[0].Height, delta)
	assert.InDelta(t, y.Scale(5), marks[1].Y, delta)

	assert.InDelta(t, 50, marks[0].LabelX, delta)
	assert.InDelta(t, y.Scale(4), marks[0].LabelY, delta)
	assert.Equal(t, "3", marks[0].Label)
	assert.Equal(t, "5", marks[1].Label)

	rects := doc.Root().SelectAll("rect.bar")
	require.Len(t, rects, 2)
	assert.InDelta(t, 90, rects[1].Num("width"), delta)
	assert.InDelta(t, 50, rects[0].Num("height"), delta)

	labels := doc.Root().SelectAll("text.label")
	require.Len(t, labels, 2)
	assert.Equal(t, "5", labels[1].Text())
	dy, _ := labels[0].Attr("dy")
	assert.Equal(t, ".75em", dy)
}

func TestPopulateBarsSkeleton(t *testing.T) {
	doc := NewSVGDocument("yearHisto")
	_, err := PopulateBars(doc, "#yearHisto", sampleRecords(), sampleShape())
	require.NoError(t, err)

	root := doc.Root()
	assert.Equal(t, 220.0, root.Num("width"))
	assert.Equal(t, 120.0, root.Num("height"))

	groups := root.Children()
	require.Len(t, groups, 1)
	transform, _ := groups[0].Attr("transform")
	assert.Equal(t, "translate(10,10)", transform)

	xAxis := root.Select("g.x.axis")
	require.NotNil(t, xAxis)
	transform, _ = xAxis.Attr("transform")
	assert.Equal(t, "translate(0,100)", transform)

	var years []string
	for _, text := range xAxis.SelectAll("text") {
		years = append(years, text.Text())
	}
	assert.Equal(t, []string{"2020", "2021"}, years)

	yAxis := root.Select("g.y.axis")
	require.NotNil(t, yAxis)
	assert.NotEmpty(t, yAxis.SelectAll("g.tick"))

	assert.Len(t, root.SelectAll("g.bars"), 2)
}

func TestPopulateBarsIsDeterministic(t *testing.T) {
	first := NewSVGDocument("yearHisto")
	second := NewSVGDocument("yearHisto")

	b1, err := PopulateBars(first, "#yearHisto", sampleRecords(), sampleShape())
	require.NoError(t, err)
	b2, err := PopulateBars(second, "#yearHisto", sampleRecords(), sampleShape())
	require.NoError(t, err)

	m1, m2 := b1.Marks(), b2.Marks()
	require.Len(t, m2, len(m1))
	for i := range m1 {
		assert.Equal(t, m1[i].X, m2[i].X)
		assert.Equal(t, m1[i].Y, m2[i].Y)
		assert.Equal(t, m1[i].Width, m2[i].Width)
		assert.Equal(t, m1[i].Height, m2[i].Height)
	}
	assert.Equal(t, first.Root().String(), second.Root().String())
}

func TestPopulateBarsEmpty(t *testing.T) {
	doc := NewSVGDocument("yearHisto")
	bars, err := PopulateBars(doc, "#yearHisto", nil, sampleShape())
	require.NoError(t, err)

	assert.Equal(t, 0, bars.Len())
	assert.Empty(t, doc.Root().SelectAll("g.bars"))
	assert.Empty(t, doc.Root().Select("g.x.axis").SelectAll("g.tick"))
}

func TestPopulateBarsBandCount(t *testing.T) {
	records := []histogram.Record{
		{Date: histogram.YearStart(2015), Count: 0},
		{Date: histogram.YearStart(2016), Count: 7},
		{Date: histogram.YearStart(2017), Count: 2},
		{Date: histogram.YearStart(2018), Count: 9},
	}
	shape := Shape{Width: 400, Height: 50}

	bars, err := PopulateBars(NewSVGDocument("c"), "#c", records, shape)
	require.NoError(t, err)
	require.Equal(t, len(records), bars.Len())
	for _, m := range bars.Marks() {
		assert.InDelta(t, 400.0/4*0.9, m.Width, delta)
	}
	assert.InDelta(t, 0, bars.Marks()[0].Height, delta)
}

func TestPopulateBarsErrors(t *testing.T) {
	t.Run("unknown selector", func(t *testing.T) {
		_, err := PopulateBars(NewSVGDocument("yearHisto"), "#missing", sampleRecords(), sampleShape())
		assert.True(t, errors.Is(err, ErrSurfaceNotFound), "got %v", err)
	})

	t.Run("invalid shape", func(t *testing.T) {
		shape := sampleShape()
		shape.Width = 0
		_, err := PopulateBars(NewSVGDocument("yearHisto"), "#yearHisto", sampleRecords(), shape)
		assert.True(t, errors.Is(err, ErrInvalidShape), "got %v", err)
	})

	t.Run("negative margin", func(t *testing.T) {
		shape := sampleShape()
		shape.Margin.Left = -1
		_, err := PopulateBars(NewSVGDocument("yearHisto"), "#yearHisto", sampleRecords(), shape)
		assert.True(t, errors.Is(err, ErrInvalidShape), "got %v", err)
	})

	t.Run("invalid record", func(t *testing.T) {
		records := append(sampleRecords(), histogram.Record{Date: histogram.YearStart(2022), Count: -1})
		doc := NewSVGDocument("yearHisto")
		_, err := PopulateBars(doc, "#yearHisto", records, sampleShape())
		assert.True(t, errors.Is(err, histogram.ErrInvalidRecord), "got %v", err)
		assert.Empty(t, doc.Root().Children(), "nothing should be drawn for invalid input")
	})
}

func TestBarsLink(t *testing.T) {
	doc := NewSVGDocument("yearHisto")
	bars, err := PopulateBars(doc, "#yearHisto", sampleRecords(), sampleShape())
	require.NoError(t, err)

	bars.Link(func(r histogram.Record) string {
		if r.Year() == 2021 {
			return "/terms?year=2021"
		}
		return "/terms?year=2020"
	})

	links := doc.Root().SelectAll("a.bar-link")
	require.Len(t, links, 2)
	href, _ := links[1].Attr("href")
	assert.Equal(t, "/terms?year=2021", href)

	for _, m := range bars.Marks() {
		a := m.Group().Select("a")
		require.NotNil(t, a)
		assert.NotNil(t, a.Select("rect.bar"))
		assert.NotNil(t, a.Select("text.label"))
	}

	// linking again only retargets
	bars.Link(func(r histogram.Record) string { return "#" })
	assert.Len(t, doc.Root().SelectAll("a.bar-link"), 2)
}
