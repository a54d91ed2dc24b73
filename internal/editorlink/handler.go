package editorlink

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/vk/nodegraph/internal/session"
	"github.com/vk/nodegraph/internal/value"
)

// Reply is emitted for every edit event received.
type Reply struct {
	Session string           `json:"session"`
	OK      bool             `json:"ok"`
	Outcome *session.Outcome `json:"outcome,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Hello is emitted once connected so the editor can populate its node
// finder.
type Hello struct {
	Session   string           `json:"session"`
	Templates []TemplateOption `json:"templates"`
	DataTypes []DataTypeOption `json:"data_types"`
}

// DataTypeOption tells the editor how to draw ports of one data type.
type DataTypeOption struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type TemplateOption struct {
	Name       string   `json:"name"`
	Label      string   `json:"label"`
	Categories []string `json:"categories"`
}

// Handler turns raw event payloads into session edits. It does not depend
// on the transport.
type Handler struct {
	session *session.Session
	logger  *slog.Logger
}

func NewHandler(s *session.Session, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{session: s, logger: logger}
}

// Hello describes the session.
func (h *Handler) Hello() Hello {
	hello := Hello{Session: h.session.ID().String()}
	for _, t := range h.session.Templates() {
		hello.Templates = append(hello.Templates, TemplateOption{
			Name:       t.Name(),
			Label:      t.FinderLabel(),
			Categories: t.Categories(),
		})
	}
	for _, dt := range value.AllDataTypes {
		hello.DataTypes = append(hello.DataTypes, DataTypeOption{Name: dt.Name(), Color: dt.Color().Hex()})
	}
	return hello
}

// Handle applies one event payload. Failures are reported in the reply, not
// returned, so that one bad edit does not end the link.
func (h *Handler) Handle(payload any) Reply {
	reply := Reply{Session: h.session.ID().String()}

	ev, err := decodeEvent(payload)
	if err != nil {
		reply.Error = err.Error()
		h.logger.Warn("Dropping malformed edit event.", "error", err)
		return reply
	}

	outcome, err := h.session.Apply(ev)
	if err != nil {
		reply.Error = err.Error()
		h.logger.Info("Edit event rejected.", "event", ev.Type, "error", err)
		return reply
	}
	h.logger.Debug("Edit event applied.", "event", ev.Type, "nodes", outcome.Nodes)
	reply.OK = true
	reply.Outcome = &outcome
	return reply
}

// decodeEvent accepts a decoded JSON object, a JSON string or raw bytes.
func decodeEvent(payload any) (session.Event, error) {
	var raw []byte
	switch p := payload.(type) {
	case nil:
		return session.Event{}, fmt.Errorf("empty event payload")
	case string:
		raw = []byte(p)
	case []byte:
		raw = p
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return session.Event{}, fmt.Errorf("encoding event payload: %w", err)
		}
		raw = b
	}

	var ev session.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return session.Event{}, fmt.Errorf("decoding event payload: %w", err)
	}
	if ev.Type == "" {
		return session.Event{}, fmt.Errorf("event payload has no type")
	}
	return ev, nil
}
