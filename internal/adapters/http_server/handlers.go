package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"flex_reviews/internal/app"
	"flex_reviews/internal/cache"
	"flex_reviews/internal/domain"
)

type Handlers struct{ E *app.Engine }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// envelope mirrors the shape the dashboard client consumes.
type envelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/reviews", h.listReviews)
	s.mux.Get("/v1/reviews/public/{propertyID}", h.listPublicReviews)
	s.mux.Patch("/v1/reviews/{id}/display", h.toggleDisplay)
	s.mux.Post("/v1/reviews/bulk-display", h.bulkDisplay)

	s.mux.Get("/v1/properties", h.listProperties)
	s.mux.Get("/v1/properties/stats", h.listStats)
	s.mux.Get("/v1/properties/{id}", h.getProperty)
	s.mux.Get("/v1/properties/{id}/stats", h.getPropertyStats)
	s.mux.Get("/v1/dashboard", h.dashboard)

	s.mux.Post("/v1/refresh/{kind}", h.refresh)

	s.mux.Get("/v1/selection", h.getSelection)
	s.mux.Post("/v1/selection/toggle/{id}", h.toggleSelection)
	s.mux.Post("/v1/selection/all", h.selectAll)
	s.mux.Delete("/v1/selection", h.clearSelection)

	s.mux.Get("/v1/preferences", h.getPreferences)
	s.mux.Put("/v1/preferences", h.putPreferences)

	s.mux.Get("/v1/notifications", h.listNotifications)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Status: "success", Data: data}); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeFetchResult serves a read-path result: fresh and stale values both
// go out (stale flagged in a header so the UI can show an indicator); a
// value that never loaded surfaces the fetch failure.
func writeFetchResult(w http.ResponseWriter, r *http.Request, data any, fr cache.Freshness, err error) {
	if err != nil && fr == cache.Missing {
		writeProblem(w, http.StatusBadGateway, "Upstream Unavailable", err.Error())
		return
	}
	w.Header().Set("X-Data-Freshness", fr.String())

	etag, body := calcETagAndBody(envelope{Status: "success", Data: data})
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, werr := w.Write(body); werr != nil {
		log.Error().Err(werr).Msg("failed to write response body")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- reviews ----

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	filters, sortSpec, err := parseFilterQuery(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	reviews, fr, ferr := h.E.Reviews(r.Context())
	writeFetchResult(w, r, app.Apply(reviews, filters, sortSpec), fr, ferr)
}

func (h *Handlers) listPublicReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "propertyID"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "propertyID must be a number")
		return
	}
	reviews, fr, ferr := h.E.PublicReviews(r.Context(), id)
	writeFetchResult(w, r, reviews, fr, ferr)
}

func (h *Handlers) toggleDisplay(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var body struct {
		Displayed bool `json:"isDisplayedPublicly"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "expected {\"isDisplayedPublicly\": bool}")
		return
	}
	updated, err := h.E.ToggleVisibility(r.Context(), id, body.Displayed)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusNotFound
		}
		writeProblem(w, status, "Update Failed", err.Error())
		return
	}
	writeData(w, http.StatusOK, updated)
}

func (h *Handlers) bulkDisplay(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Displayed bool `json:"isDisplayedPublicly"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "expected {\"isDisplayedPublicly\": bool}")
		return
	}
	applied, failed := h.E.ToggleVisibilityBulk(r.Context(), body.Displayed)
	writeData(w, http.StatusOK, map[string]any{"applied": applied, "failed": failed})
}

// ---- properties ----

func (h *Handlers) listProperties(w http.ResponseWriter, r *http.Request) {
	props, fr, err := h.E.Properties(r.Context())
	writeFetchResult(w, r, props, fr, err)
}

func (h *Handlers) getProperty(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	p, fr, ferr := h.E.Property(r.Context(), id)
	if ferr != nil && errors.Is(ferr, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "property not found")
		return
	}
	writeFetchResult(w, r, p, fr, ferr)
}

func (h *Handlers) listStats(w http.ResponseWriter, r *http.Request) {
	stats, fr, err := h.E.PropertyStats(r.Context(), nil)
	writeFetchResult(w, r, stats, fr, err)
}

func (h *Handlers) getPropertyStats(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	stats, fr, ferr := h.E.PropertyStats(r.Context(), &id)
	writeFetchResult(w, r, stats, fr, ferr)
}

func (h *Handlers) dashboard(w http.ResponseWriter, r *http.Request) {
	view, fr, err := h.E.Dashboard(r.Context())
	writeFetchResult(w, r, view, fr, err)
}

// ---- cache ----

func (h *Handlers) refresh(w http.ResponseWriter, r *http.Request) {
	kind := cache.Kind(chi.URLParam(r, "kind"))
	for _, k := range cache.Kinds {
		if k == kind {
			h.E.Refresh(kind)
			writeData(w, http.StatusOK, map[string]string{"refreshed": string(kind)})
			return
		}
	}
	writeProblem(w, http.StatusBadRequest, "Invalid Kind", "unknown cache kind "+string(kind))
}

// ---- selection ----

func (h *Handlers) getSelection(w http.ResponseWriter, r *http.Request) {
	sel := h.E.Selection()
	writeData(w, http.StatusOK, map[string]any{"ids": sel.IDs(), "count": sel.Count()})
}

func (h *Handlers) toggleSelection(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	h.E.Selection().Toggle(id)
	writeData(w, http.StatusOK, map[string]any{"ids": h.E.Selection().IDs()})
}

func (h *Handlers) selectAll(w http.ResponseWriter, r *http.Request) {
	reviews, _, err := h.E.Reviews(r.Context())
	if err != nil && len(reviews) == 0 {
		writeProblem(w, http.StatusBadGateway, "Upstream Unavailable", err.Error())
		return
	}
	ids := make([]int64, 0, len(reviews))
	for _, rv := range reviews {
		ids = append(ids, rv.ID)
	}
	h.E.Selection().SelectAll(ids)
	writeData(w, http.StatusOK, map[string]any{"ids": h.E.Selection().IDs()})
}

func (h *Handlers) clearSelection(w http.ResponseWriter, r *http.Request) {
	h.E.Selection().Clear()
	writeData(w, http.StatusOK, map[string]any{"ids": []int64{}})
}

// ---- preferences ----

func userFrom(r *http.Request) string {
	if u := r.Header.Get("X-User"); u != "" {
		return u
	}
	return "default"
}

func (h *Handlers) getPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := h.E.LoadPreferences(r.Context(), userFrom(r))
	if err != nil {
		writeProblem(w, http.StatusInternalServerError, "Preferences Unavailable", err.Error())
		return
	}
	writeData(w, http.StatusOK, p)
}

func (h *Handlers) putPreferences(w http.ResponseWriter, r *http.Request) {
	var p domain.Preferences
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}
	if err := h.E.SavePreferences(r.Context(), userFrom(r), p); err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			writeProblem(w, http.StatusBadRequest, "Invalid Preferences", verr.Error())
			return
		}
		writeProblem(w, http.StatusInternalServerError, "Save Failed", err.Error())
		return
	}
	writeData(w, http.StatusOK, p)
}

// ---- notifications ----

func (h *Handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, h.E.Notifications().Snapshot())
}

// ---- filter query parsing (boundary validation) ----

func parseFilterQuery(r *http.Request) (domain.FilterState, domain.SortSpec, error) {
	q := r.URL.Query()
	var f domain.FilterState

	f.Search = q.Get("search")

	minS, maxS := q.Get("ratingMin"), q.Get("ratingMax")
	if minS != "" || maxS != "" {
		rr := domain.RatingRange{Min: 1, Max: 5}
		if minS != "" {
			v, err := strconv.ParseFloat(minS, 64)
			if err != nil {
				return f, domain.SortSpec{}, &domain.ValidationError{Field: "ratingMin", Reason: "not a number"}
			}
			rr.Min = v
		}
		if maxS != "" {
			v, err := strconv.ParseFloat(maxS, 64)
			if err != nil {
				return f, domain.SortSpec{}, &domain.ValidationError{Field: "ratingMax", Reason: "not a number"}
			}
			rr.Max = v
		}
		f.Rating = &rr
	}

	f.Categories = q["categories"]
	for _, c := range q["channels"] {
		f.Channels = append(f.Channels, domain.Channel(c))
	}

	startS, endS := q.Get("dateStart"), q.Get("dateEnd")
	if startS != "" || endS != "" {
		dr := domain.DateRange{}
		if startS != "" {
			t, err := parseDate(startS)
			if err != nil {
				return f, domain.SortSpec{}, &domain.ValidationError{Field: "dateStart", Reason: "not a date"}
			}
			dr.Start = &t
		}
		if endS != "" {
			t, err := parseDate(endS)
			if err != nil {
				return f, domain.SortSpec{}, &domain.ValidationError{Field: "dateEnd", Reason: "not a date"}
			}
			dr.End = &t
		}
		f.Dates = &dr
	}

	if d := q.Get("displayed"); d != "" {
		v, err := strconv.ParseBool(d)
		if err != nil {
			return f, domain.SortSpec{}, &domain.ValidationError{Field: "displayed", Reason: "not a boolean"}
		}
		f.Displayed = &v
	}

	if err := f.Validate(); err != nil {
		return f, domain.SortSpec{}, err
	}

	s := domain.DefaultSort()
	if sb := q.Get("sortBy"); sb != "" {
		s.Field = domain.SortField(sb)
	}
	if so := q.Get("sortOrder"); so != "" {
		s.Descending = so != "asc"
	}
	if err := s.Validate(); err != nil {
		return f, domain.SortSpec{}, err
	}
	return f, s, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
