// Package locale holds user-facing response strings. English is the
// fallback for any unknown language tag.
package locale

// Messages is one language's set of response strings. SummaryUnavailable is
// a fmt template taking the matched-workflow count.
type Messages struct {
	NoResults          string
	ResultsHeading     string
	SummaryUnavailable string
}

var bundles = map[string]Messages{
	"en": {
		NoResults:          "No matching workflows found. Try rephrasing your request.",
		ResultsHeading:     "Recommended workflows",
		SummaryUnavailable: "Found %d matching workflows, but the summary could not be generated.",
	},
	"ru": {
		NoResults:          "Подходящих сценариев не найдено. Попробуйте переформулировать запрос.",
		ResultsHeading:     "Рекомендованные сценарии",
		SummaryUnavailable: "Найдено %d подходящих сценариев, но не удалось сгенерировать описание.",
	},
}

// For returns the message set for a two-letter language code, falling back
// to English.
func For(lang string) Messages {
	if m, ok := bundles[lang]; ok {
		return m
	}
	return bundles["en"]
}

// Supported reports whether the language has its own message set.
func Supported(lang string) bool {
	_, ok := bundles[lang]
	return ok
}
