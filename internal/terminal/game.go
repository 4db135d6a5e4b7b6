package terminal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"guess-the-app/internal/app"
	"guess-the-app/internal/domain"
)

// countdownMarks are the remaining values announced while a round runs.
var countdownMarks = map[int]bool{10: true, 5: true, 3: true, 2: true, 1: true}

// Game plays one quiz session over a line-oriented terminal.
type Game struct {
	ctrl *app.Controller
	in   io.Reader
	out  io.Writer
	log  logrus.FieldLogger

	mu       sync.Mutex
	timedOut bool
}

func NewGame(ctrl *app.Controller, in io.Reader, out io.Writer, log logrus.FieldLogger) *Game {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Game{ctrl: ctrl, in: in, out: out, log: log}
}

// Run reads commands until the player quits, the input ends or ctx is done.
func (g *Game) Run(ctx context.Context) error {
	cancel := g.ctrl.Subscribe(app.NotifierFunc(g.onEvent))
	defer cancel()
	defer g.ctrl.Close()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(g.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	g.render(g.ctrl.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			quit, err := g.handle(ctx, strings.TrimSpace(line))
			if err != nil {
				g.printf("! %s\n", describe(err))
			}
			if quit {
				g.printf("Bye!\n")
				return nil
			}
			g.render(g.ctrl.Snapshot())
		}
	}
}

func (g *Game) handle(ctx context.Context, line string) (bool, error) {
	snap := g.ctrl.Snapshot()
	switch snap.Phase {
	case domain.PhaseNameEntry:
		return false, g.ctrl.SubmitName(ctx, line)
	case domain.PhaseStart:
		switch strings.ToLower(line) {
		case "":
			g.setTimedOut(false)
			return false, g.ctrl.Start()
		case "m":
			g.ctrl.ToggleSound(ctx)
			return false, nil
		case "q":
			return true, nil
		}
		return false, errUnknownCommand
	case domain.PhaseQuestion:
		id, err := strconv.Atoi(line)
		if err != nil {
			return false, errNotAnOption
		}
		_, err = g.ctrl.Answer(id)
		return false, err
	case domain.PhaseResult:
		if line != "" {
			return false, errUnknownCommand
		}
		g.setTimedOut(false)
		if snap.LastCorrect {
			return false, g.ctrl.Advance(ctx)
		}
		return false, g.ctrl.Retry()
	case domain.PhaseThankYou:
		switch strings.ToLower(line) {
		case "", "r":
			return false, g.ctrl.Restart()
		case "m":
			g.ctrl.ToggleSound(ctx)
			return false, nil
		case "q":
			return true, nil
		}
		return false, errUnknownCommand
	}
	return false, domain.ErrIllegalTransition
}

// onEvent reacts to timer-driven events; everything else is rendered after
// the input that caused it.
func (g *Game) onEvent(event domain.Event) {
	switch {
	case event.Kind == domain.EventTick && event.Remaining > 0 && countdownMarks[event.Remaining]:
		g.printCountdown(event.Remaining)
	case event.Kind == domain.EventPhaseChanged && event.TimedOut:
		g.setTimedOut(true)
		g.log.WithField("session_id", event.SessionID).Debug("round timed out")
		g.render(g.ctrl.Snapshot())
	}
}

// printCountdown skips ticks that arrive after the round was resolved. The
// phase check and the write share g.mu with render, so a countdown line never
// lands under a Result screen.
func (g *Game) printCountdown(remaining int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ctrl.Snapshot().Phase != domain.PhaseQuestion {
		return
	}
	fmt.Fprintf(g.out, "  ⏱ %ds left\n", remaining)
}

func (g *Game) setTimedOut(v bool) {
	g.mu.Lock()
	g.timedOut = v
	g.mu.Unlock()
}

func (g *Game) printf(format string, args ...any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fmt.Fprintf(g.out, format, args...)
}

func (g *Game) render(snap domain.Snapshot) {
	var b bytes.Buffer
	switch snap.Phase {
	case domain.PhaseNameEntry:
		b.WriteString("\nWelcome to Guess The App!\n")
		fmt.Fprintf(&b, "Enter your name (max %d characters): ", app.MaxNameLength)
	case domain.PhaseStart:
		fmt.Fprintf(&b, "\nHi %s! %d apps to guess, %ds each.\n", snap.PlayerName, snap.TotalQuestions, snap.Remaining)
		if snap.HasBestScore {
			fmt.Fprintf(&b, "Best score: %d/%d\n", snap.BestScore, snap.TotalQuestions)
		}
		fmt.Fprintf(&b, "Sound: %s\n", onOff(snap.SoundEnabled))
		b.WriteString("[Enter] start  [m] toggle sound  [q] quit\n")
	case domain.PhaseQuestion:
		fmt.Fprintf(&b, "\nQuestion %d/%d   ⏱ %ds   Score: %d\n", snap.QuestionNumber, snap.TotalQuestions, snap.Remaining, snap.Score)
		b.WriteString(renderFrame(snap.Theme, snap.Prompt))
		for _, opt := range snap.Options {
			fmt.Fprintf(&b, "  %d) %s\n", opt.ID, opt.Text)
		}
		b.WriteString("Your answer: ")
	case domain.PhaseResult:
		g.mu.Lock()
		timedOut := g.timedOut
		g.mu.Unlock()
		switch {
		case snap.LastCorrect:
			fmt.Fprintf(&b, "\n✔ Correct! Score: %d/%d\n", snap.Score, snap.TotalQuestions)
		case timedOut:
			b.WriteString("\n⏰ Time's up!\n")
		default:
			b.WriteString("\n✘ Not quite.\n")
		}
		switch {
		case !snap.LastCorrect:
			b.WriteString("[Enter] try again\n")
		case snap.QuestionNumber < snap.TotalQuestions:
			b.WriteString("[Enter] next question\n")
		default:
			b.WriteString("[Enter] see results\n")
		}
	case domain.PhaseThankYou:
		fmt.Fprintf(&b, "\nThanks for playing, %s!\n", snap.PlayerName)
		if s := snap.Summary; s != nil {
			fmt.Fprintf(&b, "Final score: %d/%d (%d%%)\n%s\n", s.Score, s.Total, s.Percentage, s.Message)
			if s.NewBest {
				b.WriteString("🏆 New best score!\n")
			}
		}
		b.WriteString("[r] play again  [m] toggle sound  [q] quit\n")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, err := g.out.Write(b.Bytes()); err != nil {
		g.log.WithError(err).Warn("terminal write failed")
	}
}

var (
	errUnknownCommand = errors.New("unknown command")
	errNotAnOption    = errors.New("enter an option number")
)

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidName):
		return fmt.Sprintf("name must be 1-%d characters", app.MaxNameLength)
	case errors.Is(err, domain.ErrOptionNotFound):
		return "no such option"
	default:
		return err.Error()
	}
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
