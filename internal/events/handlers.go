package events

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vinhngx/backend-foodee/internal/common"
)

// AdminHandler exposes the persisted event feed for back-office inspection.
type AdminHandler struct {
	Store *PGStore
}

type eventView struct {
	ID          string          `json:"id"`
	Topic       string          `json:"topic"`
	AggregateID string          `json:"aggregateId"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	OccurredAt  string          `json:"occurredAt"`
}

// Recent handles GET /admin/events?topic=&limit=.
func (h *AdminHandler) Recent(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = TopicOrderCreated
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	evs, err := h.Store.Recent(r.Context(), topic, limit)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	out := make([]eventView, 0, len(evs))
	for _, ev := range evs {
		out = append(out, eventView{
			ID:          ev.ID,
			Topic:       ev.Topic,
			AggregateID: ev.AggregateID,
			Payload:     json.RawMessage(ev.Payload),
			OccurredAt:  ev.OccurredAt.Format(time.RFC3339),
		})
	}
	common.JSONData(w, http.StatusOK, out)
}
