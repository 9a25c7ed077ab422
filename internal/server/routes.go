package server

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/banwardhq/banward-server/api"
	"github.com/banwardhq/banward-server/internal/ban"
	"github.com/banwardhq/banward-server/internal/model"
	"github.com/go-chi/render"
)

type banRequest struct {
	ActorID       int64    `json:"actor_id"`
	Mode          string   `json:"mode"`
	Items         []string `json:"items"`
	Start         int64    `json:"start"` // Unix seconds, 0 means now.
	End           int64    `json:"end"`   // Unix seconds, 0 means permanent.
	Reason        string   `json:"reason"`
	DisplayReason string   `json:"display_reason"`
}

type unbanRequest struct {
	ActorID int64         `json:"actor_id"`
	Mode    string        `json:"mode"`
	IDs     []model.BanID `json:"ids"`
}

// requestActor builds the acting identity from the request.
func requestActor(r *http.Request, actorID int64) ban.Actor {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}

	return ban.Actor{
		UserID: actorID,
		IP:     ip,
	}
}

// banRoute creates ban records for the posted items.
func (srv *Server) banRoute(w http.ResponseWriter, r *http.Request) {
	var req banRequest
	if err := render.Decode(r, &req); err != nil {
		api.NewResponse().SetError("bad_request", err.Error()).BadRequest(w)

		return
	}

	start := time.Now()
	if req.Start != 0 {
		start = time.Unix(req.Start, 0)
	}

	var end time.Time // zero means permanent
	if req.End != 0 {
		end = time.Unix(req.End, 0)
	}

	err := srv.manager.Ban(requestActor(r, req.ActorID), req.Mode, req.Items, start, end, req.Reason, req.DisplayReason)
	switch {
	case errors.Is(err, ban.ErrInvalidLength):
		api.NewResponse().SetError("invalid_length", err.Error()).BadRequest(w)
	case errors.Is(err, ban.ErrTypeNotFound):
		api.NewResponse().SetError("type_not_found", err.Error()).NotFound(w)
	case err != nil:
		api.NewResponse().SetError("internal_server_error", err.Error()).InternalServerError(w)
	default:
		api.NewResponse().SetData(map[string]any{
			"mode":  req.Mode,
			"items": req.Items,
		}).Ok(w)
	}
}

// unbanRoute removes the ban records with the posted ids.
func (srv *Server) unbanRoute(w http.ResponseWriter, r *http.Request) {
	var req unbanRequest
	if err := render.Decode(r, &req); err != nil {
		api.NewResponse().SetError("bad_request", err.Error()).BadRequest(w)

		return
	}

	err := srv.manager.Unban(requestActor(r, req.ActorID), req.Mode, req.IDs)
	switch {
	case errors.Is(err, ban.ErrTypeNotFound):
		api.NewResponse().SetError("type_not_found", err.Error()).NotFound(w)
	case err != nil:
		api.NewResponse().SetError("internal_server_error", err.Error()).InternalServerError(w)
	default:
		api.NewResponse().SetData(map[string]any{
			"mode": req.Mode,
			"ids":  req.IDs,
		}).Ok(w)
	}
}

// checkRoute decides whether the posted actor is banned.
func (srv *Server) checkRoute(w http.ResponseWriter, r *http.Request) {
	var actor ban.Actor
	if err := render.Decode(r, &actor); err != nil {
		api.NewResponse().SetError("bad_request", err.Error()).BadRequest(w)

		return
	}

	match, err := srv.manager.Check(actor)
	if err != nil {
		api.NewResponse().SetError("internal_server_error", err.Error()).InternalServerError(w)

		return
	}

	api.NewResponse().SetData(map[string]any{
		"banned": match != nil,
		"match":  match,
	}).Ok(w)
}

// tidyRoute sweeps expired ban records.
func (srv *Server) tidyRoute(w http.ResponseWriter, _ *http.Request) {
	if err := srv.manager.Tidy(); err != nil {
		api.NewResponse().SetError("internal_server_error", err.Error()).InternalServerError(w)

		return
	}

	api.NewResponse().SetData(map[string]any{"tidied": true}).Ok(w)
}

// echo route for testing purposes
func echoRoute(w http.ResponseWriter, r *http.Request) {
	// Create a map to hold the request data
	var data map[string]any

	// Decode the request body into the data map
	if r.ContentLength != 0 {
		if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
			if err := render.Decode(r, &data); err != nil {
				api.NewResponse().SetError("bad_request", err.Error()).BadRequest(w)

				return
			}
		} else {
			msg := fmt.Sprintf("Content-Type: %s", r.Header.Get("Content-Type"))

			api.NewResponse().SetError("bad_request", "Content-Type must be application/json", msg).BadRequest(w)

			return
		}
	}

	api.NewResponse().SetData(struct {
		URL     string         `json:"url"`
		Remote  string         `json:"remote"`
		Method  string         `json:"method"`
		Headers http.Header    `json:"headers"`
		Body    map[string]any `json:"body"`
	}{
		URL:     r.URL.String(),
		Remote:  r.RemoteAddr,
		Method:  r.Method,
		Headers: r.Header,
		Body:    data,
	}).Ok(w)
}
