package chart

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/rhobs/yearchart/pkg/histogram"
)

// BandPadding is the fraction of each band's step left empty between bars.
const BandPadding = 0.1

// BandScale maps distinct dates onto equal-width bands of a continuous range.
type BandScale struct {
	domain       []time.Time
	index        map[int64]int
	rangeStart   float64
	rangeStop    float64
	paddingInner float64
	paddingOuter float64
	start        float64
	step         float64
	bandwidth    float64
}

// NewBandScale builds a band scale over the distinct values of domain, in the
// order they are first encountered. Outer padding is half the inner padding,
// so each band owns exactly rangeWidth/n of the range.
func NewBandScale(domain []time.Time, rangeStart, rangeStop float64) *BandScale {
	s := &BandScale{
		index:        make(map[int64]int, len(domain)),
		rangeStart:   rangeStart,
		rangeStop:    rangeStop,
		paddingInner: BandPadding,
		paddingOuter: BandPadding / 2,
	}
	for _, d := range domain {
		key := d.UnixNano()
		if _, ok := s.index[key]; ok {
			continue
		}
		s.index[key] = len(s.domain)
		s.domain = append(s.domain, d)
	}
	s.rescale()
	return s
}

func (s *BandScale) rescale() {
	n := float64(len(s.domain))
	width := s.rangeStop - s.rangeStart
	s.step = width / math.Max(1, n-s.paddingInner+s.paddingOuter*2)
	s.start = s.rangeStart + (width-s.step*(n-s.paddingInner))*0.5
	s.bandwidth = s.step * (1 - s.paddingInner)
}

// Domain returns the distinct dates of the scale.
func (s *BandScale) Domain() []time.Time {
	out := make([]time.Time, len(s.domain))
	copy(out, s.domain)
	return out
}

// Position returns the start of the band for d.
func (s *BandScale) Position(d time.Time) (float64, bool) {
	i, ok := s.index[d.UnixNano()]
	if !ok {
		return math.NaN(), false
	}
	return s.start + s.step*float64(i), true
}

// Bandwidth is the width of a single band.
func (s *BandScale) Bandwidth() float64 {
	return s.bandwidth
}

// Step is the distance between the starts of adjacent bands.
func (s *BandScale) Step() float64 {
	return s.step
}

// LinearScale maps a continuous domain onto a continuous range.
type LinearScale struct {
	d0, d1 float64
	r0, r1 float64
}

// NewLinearScale returns a scale from [d0, d1] onto [r0, r1].
func NewLinearScale(d0, d1, r0, r1 float64) LinearScale {
	return LinearScale{d0: d0, d1: d1, r0: r0, r1: r1}
}

// CountScale returns the vertical scale of a year chart: [0, max(count)+1]
// onto [height, 0]. An empty record set yields the domain [0, 1].
func CountScale(records []histogram.Record, height float64) LinearScale {
	return NewLinearScale(0, float64(histogram.MaxCount(records)+1), height, 0)
}

// Scale maps v from the domain onto the range.
func (s LinearScale) Scale(v float64) float64 {
	if s.d1 == s.d0 {
		return (s.r0 + s.r1) / 2
	}
	t := (v - s.d0) / (s.d1 - s.d0)
	return s.r0 + t*(s.r1-s.r0)
}

// Domain returns the domain bounds.
func (s LinearScale) Domain() (float64, float64) {
	return s.d0, s.d1
}

// Range returns the range bounds.
func (s LinearScale) Range() (float64, float64) {
	return s.r0, s.r1
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickSpec returns the integer tick bounds and increment for [start, stop].
// A negative increment means the ticks are i/-inc rather than i*inc.
func tickSpec(start, stop float64, count float64) (i1, i2, inc float64) {
	step := (stop - start) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(start * inc)
		i2 = math.Round(stop * inc)
		if i1/inc < start {
			i1++
		}
		if i2/inc > stop {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(start / inc)
		i2 = math.Round(stop / inc)
		if i1*inc < start {
			i1++
		}
		if i2*inc > stop {
			i2--
		}
	}
	if i2 < i1 && 0.5 <= count && count < 2 {
		return tickSpec(start, stop, count*2)
	}
	return i1, i2, inc
}

// Ticks returns roughly count evenly spaced, round values inside the domain.
func (s LinearScale) Ticks(count int) []float64 {
	start, stop := s.d0, s.d1
	if count <= 0 || math.IsNaN(start) || math.IsNaN(stop) {
		return nil
	}
	if start == stop {
		return []float64{start}
	}
	reverse := stop < start
	if reverse {
		start, stop = stop, start
	}
	i1, i2, inc := tickSpec(start, stop, float64(count))
	if !(i2 >= i1) {
		return nil
	}
	n := int(i2-i1) + 1
	ticks := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			ticks[i] = (i1 + float64(i)) / -inc
		} else {
			ticks[i] = (i1 + float64(i)) * inc
		}
	}
	if reverse {
		for l, r := 0, n-1; l < r; l, r = l+1, r-1 {
			ticks[l], ticks[r] = ticks[r], ticks[l]
		}
	}
	return ticks
}

// TickStep returns the distance between the ticks produced by Ticks(count).
func (s LinearScale) TickStep(count int) float64 {
	start, stop := s.d0, s.d1
	if stop < start {
		start, stop = stop, start
	}
	if count <= 0 || start == stop {
		return 0
	}
	_, _, inc := tickSpec(start, stop, float64(count))
	if inc < 0 {
		return 1 / -inc
	}
	return inc
}

// TickFormat returns a formatter with just enough decimals for Ticks(count)
// and English thousands separators.
func (s LinearScale) TickFormat(count int) func(float64) string {
	precision := 0
	if step := s.TickStep(count); step > 0 {
		precision = max(0, -int(math.Floor(math.Log10(step))))
	}
	p := message.NewPrinter(language.English)
	if precision == 0 {
		return func(v float64) string {
			return p.Sprintf("%d", int64(math.Round(v)))
		}
	}
	format := fmt.Sprintf("%%.%df", precision)
	return func(v float64) string {
		return p.Sprintf(format, v)
	}
}
