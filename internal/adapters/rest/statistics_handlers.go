package rest

import (
	"net/http"
	"strings"
	"time"

	"checkin/internal/domain"
	"checkin/internal/domain/stats"
)

func (h *Handler) eventAttendance(w http.ResponseWriter, r *http.Request) {
	a, err := h.statistics.Attendance(r.Context(), r.PathValue("eventId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, newAttendanceView(a), "")
}

func (h *Handler) pastEventsAttendance(w http.ResponseWriter, r *http.Request) {
	list, err := h.statistics.AttendanceForPastEvents(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, mapSlice(list, newAttendanceView), "")
}

func (h *Handler) eventTimeline(w http.ResponseWriter, r *http.Request) {
	points, err := h.statistics.EventTimeline(r.Context(), r.PathValue("eventId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, mapSlice(points, func(p stats.TimelinePoint) timelineView {
		return timelineView{EntryTime: p.EntryTime, ParticipantID: p.ParticipantID, Method: string(p.Method)}
	}), "")
}

// entryBuckets accepts an optional size such as "5m" or "1h".
func (h *Handler) entryBuckets(w http.ResponseWriter, r *http.Request) {
	var size time.Duration
	if raw := strings.TrimSpace(r.URL.Query().Get("size")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < time.Millisecond {
			h.fail(w, r, domain.Invalid("size"))
			return
		}
		size = d
	}
	buckets, err := h.statistics.BucketedCounts(r.Context(), size)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, mapSlice(buckets, func(b stats.Bucket) bucketView {
		return bucketView{BucketStart: b.Start, Count: b.Count}
	}), "")
}
