package tools

// All tool definitions as a single source of truth
var (
	YearCounts = ToolDef{
		Name:        "year_counts",
		Description: YearCountsPrompt,
		Title:       "Documents Per Year",
		ReadOnly:    true,
		Destructive: false,
		Idempotent:  true,
		OpenWorld:   true,
	}

	SignificantTerms = ToolDef{
		Name:        "significant_terms",
		Description: SignificantTermsPrompt,
		Title:       "Significant Keywords Of A Year",
		ReadOnly:    true,
		Destructive: false,
		Idempotent:  true,
		OpenWorld:   true,
		Params: []ParamDef{
			{
				Name:        "year",
				Type:        ParamTypeString,
				Description: "Year to inspect, as a four-digit year (e.g. '2020'), a date, an RFC3339 timestamp, a year_counts date in Unix milliseconds, or NOW.",
				Required:    true,
			},
		},
	}

	RenderYearChart = ToolDef{
		Name:        "render_year_chart",
		Description: RenderYearChartPrompt,
		Title:       "Render Year Chart",
		ReadOnly:    true,
		Destructive: false,
		Idempotent:  true,
		OpenWorld:   true,
		Params: []ParamDef{
			{
				Name:        "width",
				Type:        ParamTypeInteger,
				Description: "Outer width of the chart in pixels (optional, defaults to 960)",
			},
			{
				Name:        "height",
				Type:        ParamTypeInteger,
				Description: "Outer height of the chart in pixels (optional, defaults to 300)",
			},
			{
				Name:        "format",
				Type:        ParamTypeString,
				Description: "Output format: svg (default), png (base64 encoded) or html (interactive ECharts page)",
				Enum:        []string{"svg", "png", "html"},
			},
		},
	}
)

// AllTools lists every tool in registration order.
func AllTools() []ToolDef {
	return []ToolDef{YearCounts, SignificantTerms, RenderYearChart}
}
