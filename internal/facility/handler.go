package facility

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const defaultRadiusKm = 25.0

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) HandleNearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		http.Error(w, "Invalid or missing lat", http.StatusBadRequest)
		return
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		http.Error(w, "Invalid or missing lng", http.StatusBadRequest)
		return
	}

	radius := defaultRadiusKm
	if v := q.Get("radius_km"); v != "" {
		radius, err = strconv.ParseFloat(v, 64)
		if err != nil || radius <= 0 {
			http.Error(w, "Invalid radius_km", http.StatusBadRequest)
			return
		}
	}

	results, err := h.svc.Nearby(r.Context(), lat, lng, radius, q.Get("q"))
	if err != nil {
		http.Error(w, "Facility lookup failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"facilities": results})
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/facilities", h.HandleNearby)
}
