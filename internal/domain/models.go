package domain

import "fmt"

// Theme tags the application a question's screen mimics.
type Theme string

const (
	ThemeNetflix   Theme = "netflix"
	ThemeSpotify   Theme = "spotify"
	ThemeYouTube   Theme = "youtube"
	ThemeInstagram Theme = "instagram"
	ThemeTwitter   Theme = "twitter"
	ThemeTikTok    Theme = "tiktok"
	ThemeWhatsApp  Theme = "whatsapp"
	ThemeDiscord   Theme = "discord"
)

// Themes lists every supported theme in catalog order.
var Themes = []Theme{
	ThemeNetflix,
	ThemeSpotify,
	ThemeYouTube,
	ThemeInstagram,
	ThemeTwitter,
	ThemeTikTok,
	ThemeWhatsApp,
	ThemeDiscord,
}

// Valid reports whether t is one of the known themes.
func (t Theme) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// Option represents a possible answer for a question.
type Option struct {
	ID      int    `json:"id" yaml:"id"`
	Text    string `json:"text" yaml:"text"`
	Correct bool   `json:"isCorrect" yaml:"isCorrect"`
}

// Question models an MCQ question with exactly one correct option.
type Question struct {
	ID      int      `json:"id" yaml:"id"`
	Prompt  string   `json:"prompt" yaml:"prompt"`
	Theme   Theme    `json:"theme" yaml:"theme"`
	Options []Option `json:"options" yaml:"options"`
}

// CorrectOption returns the option flagged as correct.
func (q Question) CorrectOption() (Option, bool) {
	for _, opt := range q.Options {
		if opt.Correct {
			return opt, true
		}
	}
	return Option{}, false
}

// Bank is an ordered catalog of questions.
type Bank struct {
	ID        string     `json:"id" yaml:"id"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Validate checks the structural invariants of every question in the bank.
func (b Bank) Validate() error {
	if len(b.Questions) == 0 {
		return fmt.Errorf("%w: bank %q has no questions", ErrInvalidBank, b.ID)
	}
	seen := make(map[int]struct{}, len(b.Questions))
	for _, q := range b.Questions {
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %d", ErrInvalidBank, q.ID)
		}
		seen[q.ID] = struct{}{}
		if !q.Theme.Valid() {
			return fmt.Errorf("%w: question %d has unknown theme %q", ErrInvalidBank, q.ID, q.Theme)
		}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %d needs at least 2 options", ErrInvalidBank, q.ID)
		}
		correct := 0
		for _, opt := range q.Options {
			if opt.Correct {
				correct++
			}
		}
		if correct != 1 {
			return fmt.Errorf("%w: question %d has %d correct options", ErrInvalidBank, q.ID, correct)
		}
	}
	return nil
}

// Phase is the discrete state of a quiz session.
type Phase string

const (
	PhaseNameEntry Phase = "nameEntry"
	PhaseStart     Phase = "start"
	PhaseQuestion  Phase = "question"
	PhaseResult    Phase = "result"
	PhaseThankYou  Phase = "thankyou"
)

// OptionView is an option as shown to the player; correctness is withheld.
type OptionView struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Summary is the final tally shown on the thank-you screen.
type Summary struct {
	Score      int    `json:"score"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
	Message    string `json:"message"`
	NewBest    bool   `json:"newBest"`
}

// Snapshot is the per-phase view a presentation layer renders.
type Snapshot struct {
	SessionID      string       `json:"sessionId"`
	Phase          Phase        `json:"phase"`
	PlayerName     string       `json:"playerName,omitempty"`
	QuestionNumber int          `json:"questionNumber,omitempty"`
	TotalQuestions int          `json:"totalQuestions"`
	Prompt         string       `json:"prompt,omitempty"`
	Theme          Theme        `json:"theme,omitempty"`
	Options        []OptionView `json:"options,omitempty"`
	Remaining      int          `json:"remaining"`
	Score          int          `json:"score"`
	BestScore      int          `json:"bestScore"`
	HasBestScore   bool         `json:"hasBestScore"`
	LastCorrect    bool         `json:"lastCorrect"`
	SoundEnabled   bool         `json:"soundEnabled"`
	Summary        *Summary     `json:"summary,omitempty"`
}
