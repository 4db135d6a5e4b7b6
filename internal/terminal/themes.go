package terminal

import (
	"fmt"
	"strings"

	"guess-the-app/internal/domain"
)

// frameWidth is the inner width of a themed question frame.
const frameWidth = 44

// themeRenderer draws the mock app chrome around a question prompt.
type themeRenderer interface {
	Header() string
	Accent() string
}

type netflixTheme struct{}

func (netflixTheme) Header() string { return "N  Home  TV Shows  Movies  My List" }
func (netflixTheme) Accent() string { return "▶ Play   + My List" }

type spotifyTheme struct{}

func (spotifyTheme) Header() string { return "♫  Home  Search  Your Library" }
func (spotifyTheme) Accent() string { return "⏮  ▶  ⏭   0:42 ━━━━○──── 3:15" }

type youtubeTheme struct{}

func (youtubeTheme) Header() string { return "▶ Tube   [ Search            ] 🔍" }
func (youtubeTheme) Accent() string { return "👍 12K   👎   Share   Subscribe" }

type instagramTheme struct{}

func (instagramTheme) Header() string { return "Instagram              ♡   ✉" }
func (instagramTheme) Accent() string { return "♡  💬  ➤                  🔖" }

type twitterTheme struct{}

func (twitterTheme) Header() string { return "🐦  For you   Following" }
func (twitterTheme) Accent() string { return "💬 24   🔁 108   ♡ 1.2K   📊" }

type tiktokTheme struct{}

func (tiktokTheme) Header() string { return "Following  |  For You" }
func (tiktokTheme) Accent() string { return "♡ 98K  💬 1K  ➤ Share  ♪ original sound" }

type whatsappTheme struct{}

func (whatsappTheme) Header() string { return "Chats   Status   Calls" }
func (whatsappTheme) Accent() string { return "Type a message        📎  🎤" }

type discordTheme struct{}

func (discordTheme) Header() string { return "# general        🔔  📌  👥" }
func (discordTheme) Accent() string { return "Message #general          🎁 😀" }

var themeRenderers = map[domain.Theme]themeRenderer{
	domain.ThemeNetflix:   netflixTheme{},
	domain.ThemeSpotify:   spotifyTheme{},
	domain.ThemeYouTube:   youtubeTheme{},
	domain.ThemeInstagram: instagramTheme{},
	domain.ThemeTwitter:   twitterTheme{},
	domain.ThemeTikTok:    tiktokTheme{},
	domain.ThemeWhatsApp:  whatsappTheme{},
	domain.ThemeDiscord:   discordTheme{},
}

func rendererFor(theme domain.Theme) (themeRenderer, bool) {
	r, ok := themeRenderers[theme]
	return r, ok
}

// renderFrame draws a plain frame for themes without a renderer.
func renderFrame(theme domain.Theme, prompt string) string {
	var b strings.Builder
	border := "+" + strings.Repeat("-", frameWidth) + "+\n"
	b.WriteString(border)
	if r, ok := rendererFor(theme); ok {
		fmt.Fprintf(&b, "| %s\n", r.Header())
		b.WriteString(border)
		fmt.Fprintf(&b, "| %s\n", prompt)
		b.WriteString(border)
		fmt.Fprintf(&b, "| %s\n", r.Accent())
	} else {
		fmt.Fprintf(&b, "| %s\n", prompt)
	}
	b.WriteString(border)
	return b.String()
}
