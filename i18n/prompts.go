package i18n

// toolPromptTemplates hold the question prompt. The first %s receives the
// dataset summary, the second the user question.
var toolPromptTemplates = map[Language]string{
	English: `Analyzed data: %s
Question: %s

INSTRUCTIONS FOR TOOL USE:
If the answer needs a chart, end the answer with one line 'tool:<tool_name>' from the list below.
If no chart is needed, write 'tool:none'.

AVAILABLE TOOLS:
- tool:histogram   → Histograms of the numeric variables.
- tool:boxplot     → Boxplot of the numeric variables.
- tool:scatter     → Scatter plot between two numeric variables.
- tool:heatmap     → Correlation heatmap between numeric variables.
- tool:bar         → Bar chart of the most frequent categories.
- tool:line        → Time series line (when there is a date column).
- tool:cluster     → Scatter plot colored by cluster (KMeans).
- tool:crosstab    → Crosstab heatmap between two categorical variables.
- tool:none        → No chart needed.

EXAMPLES:
- 'Here is the distribution of the values.
tool:histogram'
- 'The relationship between X and Y is shown below.
tool:scatter'
- 'No chart is needed to answer.
tool:none'

Always pick the tool that best illustrates your answer.
Answer: `,

	Portuguese: `Dados analisados: %s
Pergunta: %s

INSTRUÇÕES PARA USO DE FERRAMENTAS (TOOLS):
Se a resposta exigir um gráfico, ao final da resposta escreva uma linha 'tool:<nome_da_tool>' conforme a lista abaixo.
Se não for necessário gráfico, escreva 'tool:none'.

TOOLS DISPONÍVEIS:
- tool:histogram   → Histogramas das variáveis numéricas.
- tool:boxplot     → Boxplot das variáveis numéricas.
- tool:scatter     → Scatter plot entre duas variáveis numéricas.
- tool:heatmap     → Heatmap de correlação entre variáveis numéricas.
- tool:bar         → Gráfico de barras das categorias mais frequentes.
- tool:line        → Linha temporal (se houver coluna de data).
- tool:cluster     → Scatter plot colorido por cluster (KMeans).
- tool:crosstab    → Heatmap de tabela cruzada entre duas variáveis categóricas.
- tool:none        → Não é necessário gráfico.

EXEMPLOS:
- 'Aqui está a distribuição dos valores.
tool:histogram'
- 'A relação entre as variáveis X e Y está representada abaixo.
tool:scatter'
- 'Não há necessidade de gráfico para responder.
tool:none'

Sempre escolha a tool mais adequada para ilustrar sua resposta.
Resposta: `,
}

// GetToolPromptTemplate returns the question prompt template for the
// translator's language.
func (t *Translator) GetToolPromptTemplate() string {
	if tmpl, ok := toolPromptTemplates[t.GetLanguage()]; ok {
		return tmpl
	}
	return toolPromptTemplates[English]
}

// GetToolPromptTemplate returns the template for the default translator.
func GetToolPromptTemplate() string {
	return GetTranslator().GetToolPromptTemplate()
}
