package domain

// DefaultBankID identifies the compiled-in question bank.
const DefaultBankID = "default"

// DefaultBank returns a fresh copy of the compiled-in catalog.
func DefaultBank() Bank {
	return Bank{
		ID: DefaultBankID,
		Questions: []Question{
			{
				ID:     1,
				Prompt: "Can you identify this streaming platform?",
				Theme:  ThemeNetflix,
				Options: []Option{
					{ID: 1, Text: "Amazon Prime Video"},
					{ID: 2, Text: "Netflix", Correct: true},
					{ID: 3, Text: "Disney+"},
					{ID: 4, Text: "HBO Max"},
				},
			},
			{
				ID:     2,
				Prompt: "Which music streaming service is this?",
				Theme:  ThemeSpotify,
				Options: []Option{
					{ID: 1, Text: "Spotify", Correct: true},
					{ID: 2, Text: "Apple Music"},
					{ID: 3, Text: "YouTube Music"},
					{ID: 4, Text: "Tidal"},
				},
			},
			{
				ID:     3,
				Prompt: "What video platform does this belong to?",
				Theme:  ThemeYouTube,
				Options: []Option{
					{ID: 1, Text: "Vimeo"},
					{ID: 2, Text: "Dailymotion"},
					{ID: 3, Text: "YouTube", Correct: true},
					{ID: 4, Text: "Twitch"},
				},
			},
			{
				ID:     4,
				Prompt: "Which photo-sharing platform is this?",
				Theme:  ThemeInstagram,
				Options: []Option{
					{ID: 1, Text: "Pinterest"},
					{ID: 2, Text: "Instagram", Correct: true},
					{ID: 3, Text: "Snapchat"},
					{ID: 4, Text: "VSCO"},
				},
			},
			{
				ID:     5,
				Prompt: "Name this microblogging platform",
				Theme:  ThemeTwitter,
				Options: []Option{
					{ID: 1, Text: "Threads"},
					{ID: 2, Text: "Mastodon"},
					{ID: 3, Text: "Twitter (X)", Correct: true},
					{ID: 4, Text: "Bluesky"},
				},
			},
			{
				ID:     6,
				Prompt: "Which short-form video app is this?",
				Theme:  ThemeTikTok,
				Options: []Option{
					{ID: 1, Text: "Instagram Reels"},
					{ID: 2, Text: "YouTube Shorts"},
					{ID: 3, Text: "TikTok", Correct: true},
					{ID: 4, Text: "Snapchat Spotlight"},
				},
			},
			{
				ID:     7,
				Prompt: "Identify this messaging application",
				Theme:  ThemeWhatsApp,
				Options: []Option{
					{ID: 1, Text: "Telegram"},
					{ID: 2, Text: "Signal"},
					{ID: 3, Text: "WhatsApp", Correct: true},
					{ID: 4, Text: "Messenger"},
				},
			},
			{
				ID:     8,
				Prompt: "Which community platform is this?",
				Theme:  ThemeDiscord,
				Options: []Option{
					{ID: 1, Text: "Slack"},
					{ID: 2, Text: "Microsoft Teams"},
					{ID: 3, Text: "Discord", Correct: true},
					{ID: 4, Text: "Guilded"},
				},
			},
		},
	}
}
