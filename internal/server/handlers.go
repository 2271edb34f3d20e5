package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/functions/internal/functions"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

const (
	maxPayloadBytes = 1 << 20

	defaultEventType   = "com.functions.invoke"
	defaultContentType = "application/json"
)

// FunctionHandler serves the /functions endpoints.
type FunctionHandler struct {
	invoker Invoker
	log     *slog.Logger
	now     func() time.Time
}

type listResponse struct {
	Functions []string `json:"functions"`
}

func (h *FunctionHandler) list(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusOK)
	render.JSON(w, r, listResponse{Functions: h.invoker.Functions()})
}

// invoke runs the function named in the path. The request body is the event data and the
// CloudEvents binary mode headers (ce-id, ce-source, ce-type, ce-time) fill the event attributes.
func (h *FunctionHandler) invoke(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			_ = render.Render(w, r, ErrTooLarge(err))
			return
		}
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	event, err := h.eventFromRequest(r, body)
	if err != nil {
		_ = render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	result, err := h.invoker.Invoke(r.Context(), chi.URLParam(r, "name"), event)
	if err != nil {
		_ = render.Render(w, r, errorRenderer(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

func (h *FunctionHandler) eventFromRequest(r *http.Request, body []byte) (functions.Event, error) {
	event := functions.Event{
		ID:              r.Header.Get("ce-id"),
		Source:          r.Header.Get("ce-source"),
		Type:            r.Header.Get("ce-type"),
		DataContentType: r.Header.Get("Content-Type"),
		Time:            h.now().UTC(),
		Data:            body,
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Source == "" {
		event.Source = r.URL.Path
	}
	if event.Type == "" {
		event.Type = defaultEventType
	}
	if event.DataContentType == "" {
		event.DataContentType = defaultContentType
	}

	if raw := r.Header.Get("ce-time"); raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return functions.Event{}, errors.New("ce-time must be an RFC 3339 timestamp")
		}
		event.Time = at
	}

	return event, nil
}
