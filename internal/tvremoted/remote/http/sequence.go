package http

import (
	"net/http"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremoted/remote"
)

func (h *Handler) handleMessageMute(w http.ResponseWriter, r *http.Request) {
	var req v1.MessageMuteRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	res := h.service.MessageMute(r.Context(), remote.MessageMute{
		Message:    req.Message,
		Duration:   req.Duration,
		MuteAction: req.MuteAction,
	})

	var results interface{} = remote.PendingMarker
	if len(res.Results) > 0 {
		results = res.Results
	}

	h.respondJSON(w, http.StatusOK, v1.MessageMuteResponse{
		Success:    true,
		Message:    res.Message,
		Duration:   res.Duration,
		MuteAction: res.MuteAction,
		Results:    results,
	})
}

func (h *Handler) handleCombo(w http.ResponseWriter, r *http.Request) {
	var req v1.ComboRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	steps, err := remote.DecodeSteps(req.Actions)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	results := h.service.Combo(r.Context(), steps)
	h.respondJSON(w, http.StatusOK, v1.ComboResponse{
		Success:      true,
		TotalActions: len(steps),
		Results:      results,
	})
}

func (h *Handler) handleShutdownSequence(w http.ResponseWriter, r *http.Request) {
	var req v1.ShutdownRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.schedulePlan(w, h.service.StandardPlan(req.CustomMessages), "Shutdown sequence scheduled")
}

func (h *Handler) handleShutdownSequenceFast(w http.ResponseWriter, r *http.Request) {
	h.schedulePlan(w, h.service.FastPlan(), "Fast shutdown sequence scheduled (test)")
}

func (h *Handler) schedulePlan(w http.ResponseWriter, p *remote.Plan, message string) {
	h.service.SchedulePlan(p)
	h.respondJSON(w, http.StatusOK, v1.ShutdownResponse{
		Success:     true,
		Message:     message,
		PlanID:      p.ID,
		ScheduledAt: p.ScheduledAt,
		Schedule:    p.Schedule(),
	})
}

func (h *Handler) handleCancelShutdown(w http.ResponseWriter, r *http.Request) {
	if err := h.service.CancelShutdown(r.Context()); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, v1.CancelShutdownResponse{
		Success: true,
		Message: "Cancellation message sent",
		Note:    remote.CancelNote,
	})
}
