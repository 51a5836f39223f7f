package answer

import (
	"fmt"
	"strings"

	"github.com/sagarpimpale/weather-rag-agent/internal/domain"
)

// documentPrompt embeds the query and the retrieved chunk texts in
// ranked order. The instruction pins the model to the provided context
// so it cannot answer from its own priors.
func documentPrompt(query string, contexts []string) string {
	var b strings.Builder
	b.WriteString("Answer the question based only on the provided context.\n")
	b.WriteString("Be concise and accurate.\n\n")
	b.WriteString("Context:\n")
	for _, c := range contexts {
		b.WriteString(c)
		b.WriteString("\n\n")
	}
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// weatherPrompt serializes the structured report fields for the model.
func weatherPrompt(query string, report domain.WeatherReport) string {
	var b strings.Builder
	b.WriteString("Current weather observations for ")
	b.WriteString(report.Place)
	b.WriteString(":\n")
	fmt.Fprintf(&b, "- Temperature: %s°C (feels like %s°C)\n", report.TemperatureC, report.FeelsLikeC)
	fmt.Fprintf(&b, "- Condition: %s\n", report.Condition)
	fmt.Fprintf(&b, "- Humidity: %s%%\n", report.Humidity)
	fmt.Fprintf(&b, "- Wind speed: %s mph\n", report.WindSpeedMph)
	b.WriteString("\nAnswer the question using only the observations above.\n")
	b.WriteString("Be concise and accurate.\n\n")
	b.WriteString("Question: ")
	b.WriteString(query)
	b.WriteString("\n\nAnswer:")
	return b.String()
}
