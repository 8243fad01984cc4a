// internal/adapter/host/share.go

package host

import (
	"fmt"
	"net/url"

	"basedsprings/internal/domain/spring"
)

// MaxEmbeds is the most links the host allows on one composed message.
const MaxEmbeds = 2

const composeIntentBase = "https://warpcast.com/~/compose"

// ComposeIntentURL builds the web compose-intent fallback used when the
// host capability is unavailable or the user cancels the in-app compose.
// Embeds beyond the host limit are dropped.
func ComposeIntentURL(text string, embeds []string) string {
	if len(embeds) > MaxEmbeds {
		embeds = embeds[:MaxEmbeds]
	}

	values := url.Values{}
	values.Set("text", text)
	for _, embed := range embeds {
		values.Add("embeds[]", embed)
	}

	return composeIntentBase + "?" + values.Encode()
}

// SpringShareText builds the pre-filled message for sharing a spring. The
// plain text doubles as the last-resort clipboard payload.
func SpringShareText(s spring.Spring) string {
	if s.Temperature != nil {
		return fmt.Sprintf("Soaking at %s in %s, %s (around %.0f°F). Found it on Based Springs!",
			s.Name, s.City, s.State, s.TemperatureMidpoint())
	}
	return fmt.Sprintf("Soaking at %s in %s, %s. Found it on Based Springs!",
		s.Name, s.City, s.State)
}
