package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"guess-the-app/internal/app"
	"guess-the-app/internal/domain"
)

// ControllerFactory creates a controller for a new session.
type ControllerFactory func(ctx context.Context) (*app.Controller, error)

type WSHandler struct {
	newController ControllerFactory
	sessions      app.SessionRepository
	log           logrus.FieldLogger
	upgrader      websocket.Upgrader
}

func NewWSHandler(newController ControllerFactory, sessions app.SessionRepository, log logrus.FieldLogger) *WSHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &WSHandler{
		newController: newController,
		sessions:      sessions,
		log:           log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type namePayload struct {
	Name string `json:"name"`
}

type answerPayload struct {
	OptionID int `json:"optionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one quiz session
// per connection. Passing ?sessionId= resumes a session that is still live.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	ctrl, err := h.resolveSession(r)
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err != nil {
		h.log.WithError(err).Error("create session failed")
		http.Error(w, "could not create session", http.StatusInternalServerError)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	log := h.log.WithField("session_id", ctrl.ID())
	log.Info("client connected")

	updates := make(chan domain.Event, 32)
	cancel := ctrl.Subscribe(app.NotifierFunc(func(event domain.Event) {
		select {
		case updates <- event:
		default:
			// a slow client loses ticks rather than blocking the round timer
		}
	}))
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.WithError(err).Warn("ws write error")
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case event := <-updates:
				msgs := []outboundMessage[any]{{Type: "event", Payload: event}}
				if event.Kind == domain.EventPhaseChanged && event.TimedOut {
					msgs = append(msgs, outboundMessage[any]{Type: "snapshot", Payload: ctrl.Snapshot()})
				}
				for _, msg := range msgs {
					select {
					case send <- msg:
					case <-closeSignals:
						return
					}
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- outboundMessage[any]{Type: "snapshot", Payload: ctrl.Snapshot()}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := h.apply(r.Context(), ctrl, inbound); err != nil {
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
			continue
		}
		send <- outboundMessage[any]{Type: "snapshot", Payload: ctrl.Snapshot()}
	}
	log.Info("client disconnected")

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

func (h *WSHandler) resolveSession(r *http.Request) (*app.Controller, error) {
	if id := r.URL.Query().Get("sessionId"); id != "" {
		ctrl, ok := h.sessions.Get(id)
		if !ok {
			return nil, domain.ErrSessionNotFound
		}
		return ctrl, nil
	}
	ctrl, err := h.newController(r.Context())
	if err != nil {
		return nil, err
	}
	h.sessions.Put(ctrl)
	return ctrl, nil
}

var errUnsupportedMessage = errors.New("unsupported message type")

func (h *WSHandler) apply(ctx context.Context, ctrl *app.Controller, msg inboundMessage) error {
	switch msg.Type {
	case "name":
		var payload namePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errors.New("invalid name payload")
		}
		return ctrl.SubmitName(ctx, payload.Name)
	case "start":
		return ctrl.Start()
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return errors.New("invalid answer payload")
		}
		_, err := ctrl.Answer(payload.OptionID)
		return err
	case "next":
		return ctrl.Advance(ctx)
	case "retry":
		return ctrl.Retry()
	case "restart":
		return ctrl.Restart()
	case "toggleSound":
		ctrl.ToggleSound(ctx)
		return nil
	default:
		return errUnsupportedMessage
	}
}
