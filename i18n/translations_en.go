package i18n

var englishTranslations = map[string]string{
	// Agent
	"agent.no_data":     "No data loaded.",
	"agent.no_answer":   "No answer generated by the model.",
	"agent.data_loaded": "Data loaded: %d rows, %d columns.",

	// Charts
	"chart.histogram.title": "Histogram of %s",
	"chart.histogram.count": "Count",
	"chart.boxplot.title":   "Boxplot of numeric variables",
	"chart.scatter.title":   "Scatter plot: %s vs %s",
	"chart.heatmap.title":   "Correlation heatmap",
	"chart.heatmap.page":    "Correlation heatmap (%d-%d)",
	"chart.heatmap.note":    "At most %d variables per image.",
	"chart.bar.title":       "Top categories of %s",
	"chart.bar.frequency":   "Frequency",
	"chart.line.title":      "Time series: %s over %s",
	"chart.cluster.title":   "Clusters (KMeans) on %s vs %s",
	"chart.cluster.label":   "Cluster %d",
	"chart.crosstab.title":  "Crosstab: %s vs %s",

	// CLI
	"cli.welcome":     "Load a CSV or ask a question about the data!",
	"cli.loaded":      "File '%s' loaded successfully!",
	"cli.processing":  "Processing...",
	"cli.chart_saved": "Chart saved: %s",
	"cli.exported":    "Report saved: %s",
	"cli.unknown":     "Unknown command: %s",
	"cli.help":        "Commands: :load FILE, :memory, :export FILE.pdf, :quit",
	"cli.no_memory":   "Memory is empty.",

	// Export
	"export.title":     "EDA conversation report",
	"export.generated": "Generated: %s",
	"export.question":  "Question",
	"export.footer":    "Generated by EDAChat",
	"export.chart":     "Chart %d: %s",
	"export.answer":    "Answer",
}
