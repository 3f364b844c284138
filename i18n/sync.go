package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"edachat/config"
)

var matcher = language.NewMatcher([]language.Tag{
	language.English,
	language.Portuguese,
	language.BrazilianPortuguese,
})

// SyncLanguageFromConfig synchronizes language setting from application config
// This should be called when the application starts or when config changes
func SyncLanguageFromConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	SetLanguage(ParseLanguage(cfg.Language))
}

// ParseLanguage converts a display name ("English", "Português") or a BCP 47
// tag ("pt-BR", "en_US") to a supported Language. Anything else is English.
func ParseLanguage(langStr string) Language {
	s := strings.TrimSpace(langStr)
	switch strings.ToLower(s) {
	case "", "english":
		return English
	case "português", "portugues", "portuguese":
		return Portuguese
	}

	tag, _ := language.MatchStrings(matcher, strings.ReplaceAll(s, "_", "-"))
	if base, _ := tag.Base(); base.String() == "pt" {
		return Portuguese
	}
	return English
}
