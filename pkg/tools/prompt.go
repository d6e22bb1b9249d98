package tools

const (
	ServerPrompt = `You have access to a bibliographic article index through this MCP server.

## WORKFLOW

1. Call year_counts to see how many articles were published each year.
2. Pick the years that stand out and call significant_terms for each to find the keywords that were unusually frequent that year.
3. Call render_year_chart when the user wants to see the distribution. The ui://year-chart resource shows the same chart interactively.

## RULES

- Years are calendar years in UTC. year_counts returns the start of each year; pass it back as is or as a four-digit year.
- Significant keywords are relative to the whole index, not raw frequencies. Do not present them as counts of the year's most common words.
- Do not guess counts. If year_counts returns no data, tell the user the index is empty.`

	YearCountsPrompt = `Count indexed articles per calendar year.

Returns one record per year in ascending order with the year start date and the number of articles. Years without articles inside the covered range are returned with a count of zero.`

	SignificantTermsPrompt = `List the significant keywords of one calendar year.

Runs a significant_terms aggregation restricted to the given year and returns the keywords ordered by significance with their document counts in that year.`

	RenderYearChartPrompt = `Render the articles-per-year bar chart.

Returns an SVG document by default. Every bar is labeled with its count; the vertical axis starts at zero and ends one above the largest count.`
)
