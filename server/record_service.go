package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"connectrpc.com/connect"

	"github.com/shaderdesk/shaderdesk/playground"
	"github.com/shaderdesk/shaderdesk/record"
)

// RecordService exposes the record store over the control API.
type RecordService struct {
	store *record.Store
	code  *playground.CodeStore
}

// NewRecordService creates a RecordService.
func NewRecordService(store *record.Store, code *playground.CodeStore) *RecordService {
	return &RecordService{store: store, code: code}
}

// Save snapshots the current source under a name.
func (s *RecordService) Save(
	ctx context.Context,
	req *connect.Request[SaveRecordRequest],
) (*connect.Response[SaveRecordResponse], error) {
	if req.Msg.Name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name is required"))
	}

	rec, err := s.store.SaveSnapshot(req.Msg.Name, s.code)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&SaveRecordResponse{ID: rec.ID, Revision: rec.Revision}), nil
}

// Restore loads a record back into the code store. The restore counts
// as an edit, so hot reload picks it up like any other change.
func (s *RecordService) Restore(
	ctx context.Context,
	req *connect.Request[RestoreRecordRequest],
) (*connect.Response[RestoreRecordResponse], error) {
	if req.Msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("id is required"))
	}

	rec, err := s.store.Restore(req.Msg.ID, s.code)
	if err != nil {
		if errors.Is(err, record.ErrRecordNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&RestoreRecordResponse{
		Name:     rec.Name,
		Revision: s.code.Revision(),
	}), nil
}

// List returns all saved records, most recently updated first.
func (s *RecordService) List(
	ctx context.Context,
	req *connect.Request[ListRecordsRequest],
) (*connect.Response[ListRecordsResponse], error) {
	recs, err := s.store.List()
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	resp := &ListRecordsResponse{}
	for _, rec := range recs {
		resp.Records = append(resp.Records, RecordInfo{
			ID:        rec.ID,
			Name:      rec.Name,
			UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
		})
	}
	return connect.NewResponse(resp), nil
}

// Delete removes a record.
func (s *RecordService) Delete(
	ctx context.Context,
	req *connect.Request[DeleteRecordRequest],
) (*connect.Response[DeleteRecordResponse], error) {
	if err := s.store.Delete(req.Msg.ID); err != nil {
		if errors.Is(err, record.ErrRecordNotFound) {
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&DeleteRecordResponse{}), nil
}
