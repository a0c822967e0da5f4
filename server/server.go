// Package server exposes a running playground over HTTP: a Connect
// control API for editors and tools, and an LSP bridge for diagnostics
// in the editor itself.
package server

import (
	"fmt"
	"net/http"

	"connectrpc.com/connect"

	"github.com/shaderdesk/shaderdesk/playground"
	"github.com/shaderdesk/shaderdesk/record"
)

// Server wraps a playground controller with the Connect control API.
type Server struct {
	ctrl *playground.Controller
	mux  *http.ServeMux
}

// Option configures a Server.
type Option func(*serverConfig)

type serverConfig struct {
	records *record.Store
}

// WithRecordStore enables the record service backed by the given store.
// Without it the save/restore endpoints are not registered.
func WithRecordStore(store *record.Store) Option {
	return func(c *serverConfig) { c.records = store }
}

// New creates a Server wrapping the given controller.
func New(ctrl *playground.Controller, opts ...Option) *Server {
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &Server{
		ctrl: ctrl,
		mux:  http.NewServeMux(),
	}

	codec := connect.WithCodec(jsonCodec{})

	svc := NewPlaygroundService(ctrl)
	s.mux.Handle(UpdateSourceProcedure, connect.NewUnaryHandler(UpdateSourceProcedure, svc.UpdateSource, codec))
	s.mux.Handle(ManualReloadProcedure, connect.NewUnaryHandler(ManualReloadProcedure, svc.ManualReload, codec))
	s.mux.Handle(SetPlayingProcedure, connect.NewUnaryHandler(SetPlayingProcedure, svc.SetPlaying, codec))
	s.mux.Handle(SetHotReloadProcedure, connect.NewUnaryHandler(SetHotReloadProcedure, svc.SetHotReload, codec))
	s.mux.Handle(ResetProcedure, connect.NewUnaryHandler(ResetProcedure, svc.Reset, codec))
	s.mux.Handle(SetTextureSlotProcedure, connect.NewUnaryHandler(SetTextureSlotProcedure, svc.SetTextureSlot, codec))
	s.mux.Handle(StatusProcedure, connect.NewUnaryHandler(StatusProcedure, svc.Status, codec))

	if cfg.records != nil {
		recSvc := NewRecordService(cfg.records, ctrl.Code())
		s.mux.Handle(SaveRecordProcedure, connect.NewUnaryHandler(SaveRecordProcedure, recSvc.Save, codec))
		s.mux.Handle(RestoreRecordProcedure, connect.NewUnaryHandler(RestoreRecordProcedure, recSvc.Restore, codec))
		s.mux.Handle(ListRecordsProcedure, connect.NewUnaryHandler(ListRecordsProcedure, recSvc.List, codec))
		s.mux.Handle(DeleteRecordProcedure, connect.NewUnaryHandler(DeleteRecordProcedure, recSvc.Delete, codec))
	}

	return s
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the HTTP server on the given address.
// The address should be in the form "host:port" or ":port".
func (s *Server) ListenAndServe(addr string) error {
	fmt.Printf("shaderdesk control server listening on %s\n", addr)
	fmt.Printf("  Connect (HTTP/JSON): http://%s%s\n", addr, StatusProcedure)
	return http.ListenAndServe(addr, s.mux)
}

// Stop shuts the controller down. In-flight compiles are dropped.
func (s *Server) Stop() {
	s.ctrl.Stop()
}
