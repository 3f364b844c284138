package i18n

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"edachat/config"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"", English},
		{"English", English},
		{"Português", Portuguese},
		{"portuguese", Portuguese},
		{"pt-BR", Portuguese},
		{"pt_PT", Portuguese},
		{"en-US", English},
		{"klingon", English},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLanguage(tt.in))
		})
	}
}

func TestTranslator_FallsBackToEnglishThenKey(t *testing.T) {
	tr := New(Portuguese)
	assert.Equal(t, "Nenhum dado carregado.", tr.T("agent.no_data"))
	assert.Equal(t, "Dados carregados: 3 linhas, 2 colunas.", tr.T("agent.data_loaded", 3, 2))
	assert.Equal(t, "missing.key", tr.T("missing.key"))

	tr.SetLanguage(English)
	assert.Equal(t, "No data loaded.", tr.T("agent.no_data"))
}

func TestTranslationsHaveSameKeys(t *testing.T) {
	for key := range englishTranslations {
		_, ok := portugueseTranslations[key]
		assert.True(t, ok, "portuguese translation missing for %s", key)
	}
	for key := range portugueseTranslations {
		_, ok := englishTranslations[key]
		assert.True(t, ok, "english translation missing for %s", key)
	}
}

func TestToolPromptTemplate(t *testing.T) {
	for _, lang := range []Language{English, Portuguese} {
		tmpl := New(lang).GetToolPromptTemplate()
		assert.Equal(t, 2, strings.Count(tmpl, "%s"), string(lang))
		for _, tool := range []string{"histogram", "boxplot", "scatter", "heatmap", "bar", "line", "cluster", "crosstab", "none"} {
			assert.Contains(t, tmpl, "tool:"+tool)
		}
	}
}

func TestSyncLanguageFromConfig(t *testing.T) {
	defer SetLanguage(English)
	SyncLanguageFromConfig(&config.Config{Language: "pt-BR"})
	assert.Equal(t, Portuguese, GetLanguage())
	SyncLanguageFromConfig(nil)
	assert.Equal(t, Portuguese, GetLanguage())
}
