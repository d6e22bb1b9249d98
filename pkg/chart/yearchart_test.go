package chart

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhobs/yearchart/pkg/histogram"
)

func TestNewYearBarChartValidatesShape(t *testing.T) {
	_, err := NewYearBarChart(Shape{Width: 100, Height: -1})
	assert.True(t, errors.Is(err, ErrInvalidShape), "got %v", err)

	c, err := NewYearBarChart(DefaultShape())
	require.NoError(t, err)
	assert.Equal(t, 890.0, c.Shape().Width)
	assert.Equal(t, 250.0, c.Shape().Height)
	assert.Equal(t, 960.0, c.Shape().OuterWidth())
}

func TestYearBarChartDraw(t *testing.T) {
	c, err := NewYearBarChart(sampleShape())
	require.NoError(t, err)

	doc := NewSVGDocument("yearHisto")
	r, err := c.Draw(doc, "#yearHisto", sampleRecords())
	require.NoError(t, err)

	d0, d1 := r.YDomain()
	assert.Equal(t, 0.0, d0)
	assert.Equal(t, 6.0, d1)
	assert.Len(t, r.XDomain(), 2)
	assert.InDelta(t, 90, r.Bandwidth(), delta)
	assert.Equal(t, 2, r.Bars().Len())
	assert.True(t, doc.Root().Is(r.Surface()))

	assert.Len(t, doc.Root().SelectAll("g.year-chart"), 1)
	assert.Len(t, doc.Root().SelectAll("g.axis"), 2)
}

func TestYearBarChartRedrawReusesSkeleton(t *testing.T) {
	c, err := NewYearBarChart(sampleShape())
	require.NoError(t, err)

	doc := NewSVGDocument("yearHisto")
	_, err = c.Draw(doc, "#yearHisto", sampleRecords())
	require.NoError(t, err)

	records := []histogram.Record{
		{Date: histogram.YearStart(2010), Count: 1},
		{Date: histogram.YearStart(2011), Count: 2},
		{Date: histogram.YearStart(2012), Count: 10},
	}
	r, err := c.Draw(doc, "#yearHisto", records)
	require.NoError(t, err)

	assert.Len(t, doc.Root().SelectAll("g.year-chart"), 1)
	assert.Len(t, doc.Root().SelectAll("g.x.axis"), 1)
	assert.Len(t, doc.Root().SelectAll("g.bars"), 3)
	assert.Equal(t, 3, r.Bars().Len())
}

func TestRenderedUpdateRedrawsMarks(t *testing.T) {
	c, err := NewYearBarChart(sampleShape())
	require.NoError(t, err)

	doc := NewSVGDocument("yearHisto")
	first, err := c.Draw(doc, "#yearHisto", sampleRecords())
	require.NoError(t, err)

	records := []histogram.Record{
		{Date: histogram.YearStart(1999), Count: 99},
	}
	second, err := first.Update(records)
	require.NoError(t, err)

	_, d1 := second.YDomain()
	assert.Equal(t, 100.0, d1)
	assert.Len(t, second.XDomain(), 1)

	// the earlier value is untouched
	_, d1 = first.YDomain()
	assert.Equal(t, 6.0, d1)
	assert.Len(t, first.XDomain(), 2)

	bars := doc.Root().SelectAll("g.bars")
	require.Len(t, bars, 1)
	assert.Equal(t, "99", bars[0].Select("text.label").Text())

	var years []string
	for _, text := range doc.Root().Select("g.x.axis").SelectAll("text") {
		years = append(years, text.Text())
	}
	assert.Equal(t, []string{"1999"}, years)
	assert.InDelta(t, 180, second.Bandwidth(), delta)
}

func TestRenderedUpdateEmpty(t *testing.T) {
	c, err := NewYearBarChart(sampleShape())
	require.NoError(t, err)

	r, err := c.Draw(NewSVGDocument("yearHisto"), "#yearHisto", sampleRecords())
	require.NoError(t, err)

	empty, err := r.Update(nil)
	require.NoError(t, err)

	d0, d1 := empty.YDomain()
	assert.Equal(t, 0.0, d0)
	assert.Equal(t, 1.0, d1)
	assert.Empty(t, empty.XDomain())
	assert.Equal(t, 0, empty.Bars().Len())
	assert.Empty(t, empty.Surface().SelectAll("g.bars"))
}

func TestRenderedUpdateRejectsInvalidRecords(t *testing.T) {
	c, err := NewYearBarChart(sampleShape())
	require.NoError(t, err)

	r, err := c.Draw(NewSVGDocument("yearHisto"), "#yearHisto", sampleRecords())
	require.NoError(t, err)

	_, err = r.Update([]histogram.Record{{Count: 1}})
	assert.True(t, errors.Is(err, histogram.ErrInvalidRecord), "got %v", err)
	assert.Len(t, r.Surface().SelectAll("g.bars"), 2, "surface must keep the previous bars")
}

func TestRenderedUpdateDetachesOldBars(t *testing.T) {
	c, err := NewYearBarChart(sampleShape())
	require.NoError(t, err)

	doc := NewSVGDocument("yearHisto")
	first, err := c.Draw(doc, "#yearHisto", sampleRecords())
	require.NoError(t, err)

	_, err = first.Update([]histogram.Record{{Date: histogram.YearStart(1999), Count: 99}})
	require.NoError(t, err)

	first.Bars().Link(func(histogram.Record) string { return "/stale" })
	assert.Empty(t, doc.Root().SelectAll("a.bar-link"), "stale bars must not reach the surface")
}

func TestShapeValidateNamesFirstNegativeMargin(t *testing.T) {
	shape := Shape{Width: 10, Height: 10, Margin: Margin{Top: 1, Right: -1, Bottom: -2, Left: -3}}
	for range 20 {
		err := shape.Validate()
		require.ErrorIs(t, err, ErrInvalidShape)
		assert.Contains(t, err.Error(), "right margin")
	}
}
