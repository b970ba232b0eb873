package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/p-n-ai/pai-planner/internal/lesson"
	"github.com/p-n-ai/pai-planner/internal/navigation"
	"github.com/p-n-ai/pai-planner/internal/route"
	"github.com/p-n-ai/pai-planner/internal/session"
)

const wsWriteTimeout = 5 * time.Second

// Session commands sent by the presentation.
const (
	cmdOpen         = "open"
	cmdNextPhase    = "next"
	cmdPrevPhase    = "previous"
	cmdNextStep     = "next_step"
	cmdPrevStep     = "previous_step"
	cmdStartTimer   = "start_timer"
	cmdStopTimer    = "stop_timer"
	cmdSnapshot     = "snapshot"
	msgSnapshot     = "snapshot"
	msgChime        = "chime"
	msgSessionError = "error"
)

type wsCommand struct {
	Type    string         `json:"type"`
	Token   string         `json:"token,omitempty"`
	Lesson  *lesson.Lesson `json:"lesson,omitempty"`
	Phase   *lesson.Phase  `json:"phase,omitempty"`
	Seconds int            `json:"seconds,omitempty"`
}

type wsMessage struct {
	Type     string            `json:"type"`
	Snapshot *session.Snapshot `json:"snapshot,omitempty"`
	Path     string            `json:"path,omitempty"`
	Phase    *lesson.Phase     `json:"phase,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// handleSession runs one live teaching session over a WebSocket. The first
// message must be "open" carrying either a handoff token or a lesson.
func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		slog.Warn("websocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	var open wsCommand
	if err := wsjson.Read(ctx, conn, &open); err != nil {
		return
	}
	ctrl, err := h.openSession(ctx, conn, open)
	if err != nil {
		send(ctx, conn, wsMessage{Type: msgSessionError, Error: err.Error()})
		conn.Close(websocket.StatusPolicyViolation, "session not opened")
		return
	}
	defer ctrl.Close()

	sendSnapshot(ctx, conn, ctrl.Snapshot())

	for {
		var cmd wsCommand
		if err := wsjson.Read(ctx, conn, &cmd); err != nil {
			status := websocket.CloseStatus(err)
			if status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				slog.Debug("session connection closed", "error", err)
			}
			return
		}
		if err := h.apply(ctx, conn, ctrl, cmd); err != nil {
			send(ctx, conn, wsMessage{Type: msgSessionError, Error: err.Error()})
			continue
		}
	}
}

func (h *Handler) openSession(ctx context.Context, conn *websocket.Conn, cmd wsCommand) (*session.Controller, error) {
	if cmd.Type != cmdOpen {
		return nil, fmt.Errorf("first message must be %q, got %q", cmdOpen, cmd.Type)
	}

	var (
		l     lesson.Lesson
		plan  route.Plan
		start = lesson.Starter
	)
	switch {
	case cmd.Token != "":
		_, payload, err := h.nav.Take(ctx, cmd.Token)
		if err != nil {
			if errors.Is(err, navigation.ErrHandoffNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("loading handoff: %w", err)
		}
		l, plan, start = payload.Lesson, payload.Plan, payload.Phase
	case cmd.Lesson != nil:
		l = *cmd.Lesson
	default:
		return nil, fmt.Errorf("open requires a token or a lesson")
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if cmd.Phase != nil {
		start = *cmd.Phase
	}
	if plan == nil {
		plan = h.resolver.Plan(l)
	}

	return session.NewController(session.Config{
		Lesson:     l,
		StartPhase: start,
		Plan:       plan,
		Events:     h.events,
		Notifier: session.NotifierFunc(func(ctx context.Context, _ string, phase lesson.Phase) error {
			return wsjson.Write(ctx, conn, wsMessage{Type: msgChime, Phase: &phase})
		}),
		OnChange: func(snap session.Snapshot) {
			sendSnapshot(ctx, conn, snap)
		},
		TickInterval: h.tick,
	})
}

// apply runs one command. Commands that leave the session unchanged answer
// with the current snapshot so every command gets a reply.
func (h *Handler) apply(ctx context.Context, conn *websocket.Conn, ctrl *session.Controller, cmd wsCommand) error {
	changed := false
	switch cmd.Type {
	case cmdNextPhase:
		changed = ctrl.NextPhase()
	case cmdPrevPhase:
		changed = ctrl.PreviousPhase()
	case cmdNextStep:
		changed = ctrl.NextStep()
	case cmdPrevStep:
		changed = ctrl.PreviousStep()
	case cmdStartTimer:
		seconds, err := h.timerDuration(ctx, cmd.Seconds)
		if err != nil {
			return err
		}
		if err := ctrl.StartTimer(seconds); err != nil {
			return err
		}
		changed = true
	case cmdStopTimer:
		_, changed = ctrl.Timer()
		ctrl.StopTimer()
	case cmdSnapshot:
	default:
		return fmt.Errorf("unknown command %q", cmd.Type)
	}
	if !changed {
		sendSnapshot(ctx, conn, ctrl.Snapshot())
	}
	return nil
}

// timerDuration picks the countdown length: the request, then the teacher
// profile, then the configured default.
func (h *Handler) timerDuration(ctx context.Context, requested int) (int, error) {
	if requested < 0 {
		return 0, fmt.Errorf("timer seconds must be positive, got %d", requested)
	}
	if requested > 0 {
		return requested, nil
	}
	if h.settings != nil {
		p, err := h.settings.Profile(ctx)
		if err != nil {
			slog.Warn("profile lookup failed", "error", err)
		} else if p.TimerSeconds > 0 {
			return p.TimerSeconds, nil
		}
	}
	return h.timerSeconds, nil
}

func sendSnapshot(ctx context.Context, conn *websocket.Conn, snap session.Snapshot) {
	send(ctx, conn, wsMessage{
		Type:     msgSnapshot,
		Snapshot: &snap,
		Path:     navigation.PathFor(snap.Presentation, snap.Phase),
	})
}

func send(ctx context.Context, conn *websocket.Conn, msg wsMessage) {
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, conn, msg); err != nil {
		slog.Debug("session write failed", "type", msg.Type, "error", err)
	}
}
