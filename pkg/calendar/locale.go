package calendar

import (
	"strings"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// Locale selects the language for weekday and month names.
type Locale struct {
	names monday.Locale
	tag   language.Tag
}

// DefaultLocale is used when a configured locale is unknown.
var DefaultLocale = Locale{names: monday.LocaleEnUS, tag: language.AmericanEnglish}

var supported = map[string]monday.Locale{
	"en_US": monday.LocaleEnUS,
	"en_GB": monday.LocaleEnGB,
	"fr_FR": monday.LocaleFrFR,
	"de_DE": monday.LocaleDeDE,
	"es_ES": monday.LocaleEsES,
	"it_IT": monday.LocaleItIT,
	"pt_BR": monday.LocalePtBR,
	"nl_NL": monday.LocaleNlNL,
	"ru_RU": monday.LocaleRuRU,
	"pl_PL": monday.LocalePlPL,
}

// ParseLocale accepts "fr_FR", "fr-FR" or "fr_FR.UTF-8". Unknown values give
// DefaultLocale.
func ParseLocale(s string) Locale {
	s, _, _ = strings.Cut(s, ".")
	s = strings.ReplaceAll(s, "-", "_")
	names, ok := supported[s]
	if !ok {
		return DefaultLocale
	}
	return Locale{names: names, tag: language.Make(strings.ReplaceAll(s, "_", "-"))}
}

func (l Locale) String() string {
	if l.names == "" {
		return string(DefaultLocale.names)
	}
	return string(l.names)
}

func (l Locale) orDefault() Locale {
	if l.names == "" {
		return DefaultLocale
	}
	return l
}
