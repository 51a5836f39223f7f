// Package router classifies incoming queries. Classification is a
// pure function of the query text: no side effects, no external calls,
// deterministic for the process lifetime.
package router

import (
	"strings"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// weatherCues are lexical signals for the live weather path.
var weatherCues = map[string]struct{}{
	"weather":     {},
	"temperature": {},
	"forecast":    {},
	"climate":     {},
	"humidity":    {},
	"rain":        {},
	"raining":     {},
	"rainy":       {},
	"snow":        {},
	"snowing":     {},
	"sunny":       {},
	"windy":       {},
	"degrees":     {},
}

// documentCues are explicit corpus-domain signals. When one fires
// alongside a weather cue the query stays on the document path.
var documentCues = map[string]struct{}{
	"company":    {},
	"document":   {},
	"pdf":        {},
	"service":    {},
	"services":   {},
	"product":    {},
	"products":   {},
	"profile":    {},
	"policy":     {},
	"policies":   {},
	"team":       {},
	"mission":    {},
	"client":     {},
	"clients":    {},
	"healthcare": {},
}

// placeIndicators precede a place name in weather phrasing
// ("weather in London", "forecast for Tokyo"). "weather" itself also
// introduces a place ("weather New York") but only when none of these
// follow it, so it is handled separately as a lowest-priority indicator.
var placeIndicators = map[string]struct{}{
	"in":  {},
	"for": {},
	"at":  {},
}

// Classify tags the query with exactly one route. Tie-break: if both
// cue sets fire, or neither does, the query goes to the document path,
// which can report "not found" gracefully. Never fails.
func Classify(text string) domain.Route {
	var weather, document bool
	for _, token := range tokenize(text) {
		if _, ok := weatherCues[token]; ok {
			weather = true
		}
		if _, ok := documentCues[token]; ok {
			document = true
		}
	}
	if weather && !document {
		return domain.RouteWeather
	}
	return domain.RouteDocumentQA
}

// ExtractPlace pulls a place name out of weather phrasing: everything
// after the last place indicator; failing that, everything after the
// last "weather" ("weather New York"); failing that, the last word.
// Returns "" for an empty query.
func ExtractPlace(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	last := -1
	for i, w := range words {
		if _, ok := placeIndicators[strings.ToLower(trimPunct(w))]; ok && i+1 < len(words) {
			last = i
		}
	}
	if last < 0 {
		for i, w := range words {
			if strings.ToLower(trimPunct(w)) == "weather" && i+1 < len(words) {
				last = i
			}
		}
	}

	var place []string
	if last >= 0 {
		place = words[last+1:]
	} else {
		place = words[len(words)-1:]
	}

	cleaned := make([]string, 0, len(place))
	for _, w := range place {
		if t := trimPunct(w); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return strings.Join(cleaned, " ")
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if t := trimPunct(f); t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

func trimPunct(s string) string {
	return strings.Trim(s, ".,!?;:'\"()")
}
