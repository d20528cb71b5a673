package rest

import (
	"errors"
	"net/http"

	"github.com/pietervz/ipfire-tray/internal/domain"
)

type ThroughputHandler struct {
	svc domain.ThroughputService
}

func NewThroughputHandler(svc domain.ThroughputService) *ThroughputHandler {
	return &ThroughputHandler{svc: svc}
}

func (h *ThroughputHandler) Latest(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Latest()
	if err != nil {
		if errors.Is(err, domain.ErrNoThroughput) {
			JSONError(w, http.StatusNotFound, "No throughput recorded yet")
			return
		}

		JSONError(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    snap,
	})
}

func (h *ThroughputHandler) History(w http.ResponseWriter, r *http.Request) {
	points := h.svc.History()
	if points == nil {
		points = []domain.ThroughputPoint{}
	}

	JSONSuccess(w, http.StatusOK, APIResponse{
		Message: "OK",
		Data:    points,
	})
}
