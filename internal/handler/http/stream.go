package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/sse"
)

const streamKeepalive = 30 * time.Second

type StreamHandler interface {
	// Attendance streams the live attendance feed of the caller's company.
	Attendance(w http.ResponseWriter, r *http.Request)
}

type streamHandlerImpl struct {
	companyService company.CompanyService
	hub            *sse.Hub
	keepalive      time.Duration
}

func NewStreamHandler(companyService company.CompanyService, hub *sse.Hub) StreamHandler {
	return &streamHandlerImpl{
		companyService: companyService,
		hub:            hub,
		keepalive:      streamKeepalive,
	}
}

// Attendance implements StreamHandler. The gate has already authenticated the
// request, so EventSource clients authenticate with the session cookie.
func (s *streamHandlerImpl) Attendance(w http.ResponseWriter, r *http.Request) {
	requested := ""
	if v := queryString(r, "companyId"); v != nil {
		requested = *v
	}
	companyID, err := s.companyService.ResolveScope(r.Context(), requested)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	rc := http.NewResponseController(w)
	// Streams outlive the server write timeout.
	_ = rc.SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := s.hub.Subscribe(companyID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"companyId\":%q}\n\n", companyID)
	if err := rc.Flush(); err != nil {
		slog.Error("attendance stream: flush not supported", "error", err)
		return
	}

	keepalive := time.NewTicker(s.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("attendance stream: failed to encode event", "event", event.Type, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, data)
			if err := rc.Flush(); err != nil {
				return
			}

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			if err := rc.Flush(); err != nil {
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}
