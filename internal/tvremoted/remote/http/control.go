package http

import (
	"net/http"

	v1 "github.com/wrale/webos-remote/api/types/v1"
	"github.com/wrale/webos-remote/internal/tvremoted/remote"
)

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := h.service.Status()
	h.respondJSON(w, http.StatusOK, v1.StatusResponse{
		Connected: status.Connected,
		State:     string(status.State),
		TVIP:      status.Host,
		TVPort:    status.Port,
		Timestamp: status.Timestamp,
	})
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	h.service.Connect()
	h.respondJSON(w, http.StatusOK, v1.MessageResponse{Message: "Connection attempt initiated"})
}

func (h *Handler) handleVolume(w http.ResponseWriter, r *http.Request) {
	var req v1.VolumeRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.service.Volume(r.Context(), remote.VolumeAction{Op: req.Action, Level: req.Level}); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, v1.VolumeResponse{
		Success: true,
		Action:  req.Action,
		Level:   req.Level,
	})
}

func (h *Handler) handleChannel(w http.ResponseWriter, r *http.Request) {
	var req v1.ChannelRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.service.Channel(r.Context(), remote.ChannelAction{Op: req.Action, Number: req.Number}); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, v1.ChannelResponse{
		Success: true,
		Action:  req.Action,
		Number:  req.Number,
	})
}

func (h *Handler) handlePower(w http.ResponseWriter, r *http.Request) {
	var req v1.PowerRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.service.Power(r.Context(), remote.PowerAction{Op: req.Action}); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, v1.PowerResponse{Success: true, Action: req.Action})
}

func (h *Handler) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req v1.NavigateRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.service.Navigate(r.Context(), remote.NavigateAction{Direction: req.Direction}); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, v1.NavigateResponse{Success: true, Direction: req.Direction})
}

func (h *Handler) handleApp(w http.ResponseWriter, r *http.Request) {
	var req v1.AppRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	appID, err := h.service.LaunchApp(r.Context(), remote.AppAction{AppID: req.AppID})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, v1.AppResponse{Success: true, AppID: appID})
}

func (h *Handler) handleInput(w http.ResponseWriter, r *http.Request) {
	var req v1.InputRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.service.SwitchInput(r.Context(), remote.InputAction{InputID: req.InputID}); err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, v1.InputResponse{Success: true, InputID: req.InputID})
}

func (h *Handler) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req v1.ToastRequest
	if err := h.decode(r, &req); err != nil {
		h.respondError(w, r, err)
		return
	}

	duration, err := h.service.ShowMessage(r.Context(), remote.MessageAction{Message: req.Message, Duration: req.Duration})
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	h.respondJSON(w, http.StatusOK, v1.ToastResponse{
		Success:  true,
		Message:  req.Message,
		Duration: duration,
	})
}

func (h *Handler) handleListApps(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListApps(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondRaw(w, res)
}

func (h *Handler) handleListInputs(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.ListInputs(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondRaw(w, res)
}

func (h *Handler) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.SystemInfo(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondRaw(w, res)
}
