package i18n

var portugueseTranslations = map[string]string{
	// Agent
	"agent.no_data":     "Nenhum dado carregado.",
	"agent.no_answer":   "Nenhuma resposta gerada pela LLM.",
	"agent.data_loaded": "Dados carregados: %d linhas, %d colunas.",

	// Charts
	"chart.histogram.title": "Histograma de %s",
	"chart.histogram.count": "Contagem",
	"chart.boxplot.title":   "Boxplot das variáveis numéricas",
	"chart.scatter.title":   "Scatter plot: %s vs %s",
	"chart.heatmap.title":   "Heatmap de Correlação",
	"chart.heatmap.page":    "Heatmap de Correlação (%d-%d)",
	"chart.heatmap.note":    "Por limitações visuais, o máximo de variáveis por imagem é %d.",
	"chart.bar.title":       "Top categorias de %s",
	"chart.bar.frequency":   "Frequência",
	"chart.line.title":      "Linha temporal: %s ao longo de %s",
	"chart.cluster.title":   "Clusters (KMeans) em %s vs %s",
	"chart.cluster.label":   "Cluster %d",
	"chart.crosstab.title":  "Crosstab: %s vs %s",

	// CLI
	"cli.welcome":     "Envie um CSV ou faça uma pergunta sobre os dados!",
	"cli.loaded":      "Arquivo '%s' carregado com sucesso!",
	"cli.processing":  "Processando...",
	"cli.chart_saved": "Gráfico salvo: %s",
	"cli.exported":    "Relatório salvo: %s",
	"cli.unknown":     "Comando desconhecido: %s",
	"cli.help":        "Comandos: :load ARQUIVO, :memory, :export ARQUIVO.pdf, :quit",
	"cli.no_memory":   "A memória está vazia.",

	// Export
	"export.title":     "Relatório da conversa EDA",
	"export.generated": "Gerado em: %s",
	"export.question":  "Pergunta",
	"export.footer":    "Gerado pelo EDAChat",
	"export.chart":     "Gráfico %d: %s",
	"export.answer":    "Resposta",
}
