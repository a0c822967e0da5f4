package server

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/shaderdesk/shaderdesk/playground"
)

// PlaygroundService implements the Connect control API over a running
// controller. Every call is safe from any goroutine; the controller
// serializes the actual state transitions internally.
type PlaygroundService struct {
	ctrl *playground.Controller
}

// NewPlaygroundService creates a PlaygroundService.
func NewPlaygroundService(ctrl *playground.Controller) *PlaygroundService {
	return &PlaygroundService{ctrl: ctrl}
}

// UpdateSource replaces the shader source wholesale. With hot reload on
// this schedules a compile; either way the revision is bumped.
func (s *PlaygroundService) UpdateSource(
	ctx context.Context,
	req *connect.Request[UpdateSourceRequest],
) (*connect.Response[UpdateSourceResponse], error) {
	if req.Msg.Source == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("source is required"))
	}

	s.ctrl.Code().SetText(req.Msg.Source)
	return connect.NewResponse(&UpdateSourceResponse{
		Revision: s.ctrl.Code().Revision(),
	}), nil
}

// ManualReload compiles the current text regardless of the hot-reload
// setting.
func (s *PlaygroundService) ManualReload(
	ctx context.Context,
	req *connect.Request[ManualReloadRequest],
) (*connect.Response[ManualReloadResponse], error) {
	s.ctrl.ManualReload()
	return connect.NewResponse(&ManualReloadResponse{}), nil
}

// SetPlaying switches dispatching on or off.
func (s *PlaygroundService) SetPlaying(
	ctx context.Context,
	req *connect.Request[SetPlayingRequest],
) (*connect.Response[SetPlayingResponse], error) {
	if req.Msg.Playing {
		s.ctrl.Play()
	} else {
		s.ctrl.Pause()
	}
	return connect.NewResponse(&SetPlayingResponse{
		Mode: s.ctrl.Mode().String(),
	}), nil
}

// SetHotReload toggles compile-on-edit.
func (s *PlaygroundService) SetHotReload(
	ctx context.Context,
	req *connect.Request[SetHotReloadRequest],
) (*connect.Response[SetHotReloadResponse], error) {
	s.ctrl.SetHotReload(req.Msg.Enabled)
	return connect.NewResponse(&SetHotReloadResponse{}), nil
}

// Reset asks the engine to clear runtime state.
func (s *PlaygroundService) Reset(
	ctx context.Context,
	req *connect.Request[ResetRequest],
) (*connect.Response[ResetResponse], error) {
	s.ctrl.Reset()
	return connect.NewResponse(&ResetResponse{}), nil
}

// SetTextureSlot rebinds one channel slot.
func (s *PlaygroundService) SetTextureSlot(
	ctx context.Context,
	req *connect.Request[SetTextureSlotRequest],
) (*connect.Response[SetTextureSlotResponse], error) {
	if err := s.ctrl.Textures().SetSlot(req.Msg.Slot, req.Msg.URL); err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewResponse(&SetTextureSlotResponse{}), nil
}

// Status reports the full playground state in one round trip.
func (s *PlaygroundService) Status(
	ctx context.Context,
	req *connect.Request[StatusRequest],
) (*connect.Response[StatusResponse], error) {
	flags := s.ctrl.Flags()
	resp := &StatusResponse{
		Mode:           s.ctrl.Mode().String(),
		Revision:       s.ctrl.Code().Revision(),
		Playing:        flags.Playing,
		HotReload:      flags.HotReload,
		ResetRequested: flags.ResetRequested,
		TextureSlots:   s.ctrl.Textures().Slots(),
	}

	for _, e := range s.ctrl.Entries().List() {
		resp.EntryPoints = append(resp.EntryPoints, EntryPointInfo{
			Name:          e.Name,
			Kind:          e.Kind.String(),
			WorkgroupSize: e.WorkgroupSize,
		})
	}

	for _, name := range s.ctrl.Uniforms().Names() {
		decl, ok := s.ctrl.Uniforms().Decl(name)
		if !ok {
			continue
		}
		resp.Uniforms = append(resp.Uniforms, UniformInfo{
			Name:    decl.Name,
			Default: decl.Default,
			Min:     decl.Min,
			Max:     decl.Max,
		})
	}

	if d, ok := s.ctrl.CurrentDiagnostic(); ok {
		resp.Diagnostic = &DiagnosticInfo{Summary: d.Summary, Row: d.Row, Col: d.Col}
	}

	return connect.NewResponse(resp), nil
}
