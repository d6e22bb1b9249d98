package chart

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidShape is returned when a Shape cannot be drawn.
var ErrInvalidShape = errors.New("invalid shape")

// Margin is the space reserved around the plot area for axes.
type Margin struct {
	Top    float64 `json:"top" toml:"top"`
	Right  float64 `json:"right" toml:"right"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
}

// Shape declares the plot area of a chart. Width and Height exclude the margins.
type Shape struct {
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	Margin Margin  `json:"margin" toml:"margin"`
}

// DefaultMargin returns the margins used by DefaultShape.
func DefaultMargin() Margin {
	return Margin{Top: 20, Right: 30, Bottom: 30, Left: 40}
}

// DefaultShape returns a 960x300 chart, margins included.
func DefaultShape() Shape {
	return ShapeForOuterSize(960, 300, DefaultMargin())
}

// ShapeForOuterSize derives the plot area from the total surface size.
func ShapeForOuterSize(width, height float64, margin Margin) Shape {
	return Shape{
		Width:  width - margin.Left - margin.Right,
		Height: height - margin.Top - margin.Bottom,
		Margin: margin,
	}
}

// OuterWidth is the surface width including margins.
func (s Shape) OuterWidth() float64 {
	return s.Width + s.Margin.Left + s.Margin.Right
}

// OuterHeight is the surface height including margins.
func (s Shape) OuterHeight() float64 {
	return s.Height + s.Margin.Top + s.Margin.Bottom
}

// Validate checks that the plot area is positive and the margins are not negative.
func (s Shape) Validate() error {
	if !(s.Width > 0) || math.IsInf(s.Width, 0) {
		return fmt.Errorf("%w: width must be positive, got %v", ErrInvalidShape, s.Width)
	}
	if !(s.Height > 0) || math.IsInf(s.Height, 0) {
		return fmt.Errorf("%w: height must be positive, got %v", ErrInvalidShape, s.Height)
	}
	margins := []struct {
		name  string
		value float64
	}{
		{"top", s.Margin.Top},
		{"right", s.Margin.Right},
		{"bottom", s.Margin.Bottom},
		{"left", s.Margin.Left},
	}
	for _, m := range margins {
		if !(m.value >= 0) || math.IsInf(m.value, 0) {
			return fmt.Errorf("%w: %s margin must not be negative, got %v", ErrInvalidShape, m.name, m.value)
		}
	}
	return nil
}
