package server

// Procedure paths for the Connect control API. Clients hit them with
// Content-Type application/json.
const (
	UpdateSourceProcedure   = "/shaderdesk.v1.PlaygroundService/UpdateSource"
	ManualReloadProcedure   = "/shaderdesk.v1.PlaygroundService/ManualReload"
	SetPlayingProcedure     = "/shaderdesk.v1.PlaygroundService/SetPlaying"
	SetHotReloadProcedure   = "/shaderdesk.v1.PlaygroundService/SetHotReload"
	ResetProcedure          = "/shaderdesk.v1.PlaygroundService/Reset"
	SetTextureSlotProcedure = "/shaderdesk.v1.PlaygroundService/SetTextureSlot"
	StatusProcedure         = "/shaderdesk.v1.PlaygroundService/Status"

	SaveRecordProcedure    = "/shaderdesk.v1.RecordService/Save"
	RestoreRecordProcedure = "/shaderdesk.v1.RecordService/Restore"
	ListRecordsProcedure   = "/shaderdesk.v1.RecordService/List"
	DeleteRecordProcedure  = "/shaderdesk.v1.RecordService/Delete"
)

// UpdateSourceRequest replaces the shader source wholesale.
type UpdateSourceRequest struct {
	Source string `json:"source"`
}

// UpdateSourceResponse reports the revision the edit produced.
type UpdateSourceResponse struct {
	Revision uint64 `json:"revision"`
}

// ManualReloadRequest triggers a compile of the current text.
type ManualReloadRequest struct{}

// ManualReloadResponse is empty; poll Status for the outcome.
type ManualReloadResponse struct{}

// SetPlayingRequest switches dispatching on or off.
type SetPlayingRequest struct {
	Playing bool `json:"playing"`
}

// SetPlayingResponse carries the resulting mode.
type SetPlayingResponse struct {
	Mode string `json:"mode"`
}

// SetHotReloadRequest toggles compile-on-edit.
type SetHotReloadRequest struct {
	Enabled bool `json:"enabled"`
}

// SetHotReloadResponse is empty.
type SetHotReloadResponse struct{}

// ResetRequest asks the engine to clear runtime state.
type ResetRequest struct{}

// ResetResponse is empty; the reset flag in Status clears once the
// engine acknowledges.
type ResetResponse struct{}

// SetTextureSlotRequest rebinds one channel slot.
type SetTextureSlotRequest struct {
	Slot int    `json:"slot"`
	URL  string `json:"url"`
}

// SetTextureSlotResponse is empty.
type SetTextureSlotResponse struct{}

// StatusRequest asks for the full playground state.
type StatusRequest struct{}

// EntryPointInfo describes one dispatchable entry point.
type EntryPointInfo struct {
	Name          string    `json:"name"`
	Kind          string    `json:"kind"`
	WorkgroupSize [3]uint32 `json:"workgroup_size"`
}

// UniformInfo describes one bound uniform control.
type UniformInfo struct {
	Name    string  `json:"name"`
	Default float32 `json:"default"`
	Min     float32 `json:"min"`
	Max     float32 `json:"max"`
}

// DiagnosticInfo is the stored compile diagnostic, if any.
type DiagnosticInfo struct {
	Summary string `json:"summary"`
	Row     int    `json:"row"`
	Col     int    `json:"col"`
}

// StatusResponse is the full playground state.
type StatusResponse struct {
	Mode           string           `json:"mode"`
	Revision       uint64           `json:"revision"`
	Playing        bool             `json:"playing"`
	HotReload      bool             `json:"hot_reload"`
	ResetRequested bool             `json:"reset_requested"`
	EntryPoints    []EntryPointInfo `json:"entry_points"`
	Uniforms       []UniformInfo    `json:"uniforms"`
	TextureSlots   []string         `json:"texture_slots"`
	Diagnostic     *DiagnosticInfo  `json:"diagnostic,omitempty"`
}

// SaveRecordRequest snapshots the current source under a name.
type SaveRecordRequest struct {
	Name string `json:"name"`
}

// SaveRecordResponse identifies the stored record.
type SaveRecordResponse struct {
	ID       string `json:"id"`
	Revision uint64 `json:"revision"`
}

// RestoreRecordRequest loads a record back into the code store.
type RestoreRecordRequest struct {
	ID string `json:"id"`
}

// RestoreRecordResponse carries the restored record's metadata.
type RestoreRecordResponse struct {
	Name     string `json:"name"`
	Revision uint64 `json:"revision"`
}

// ListRecordsRequest asks for all saved records.
type ListRecordsRequest struct{}

// RecordInfo summarizes one saved record.
type RecordInfo struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UpdatedAt string `json:"updated_at"`
}

// ListRecordsResponse lists saved records, most recent first.
type ListRecordsResponse struct {
	Records []RecordInfo `json:"records"`
}

// DeleteRecordRequest removes a record.
type DeleteRecordRequest struct {
	ID string `json:"id"`
}

// DeleteRecordResponse is empty.
type DeleteRecordResponse struct{}
