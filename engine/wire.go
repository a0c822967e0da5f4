package engine

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/shaderdesk/shaderdesk/playground"
)

// FrameKind discriminates the messages exchanged with a compile engine.
type FrameKind uint8

const (
	// KindCompile carries a source snapshot to the engine.
	KindCompile FrameKind = iota + 1

	// KindResult is the engine's answer to a compile frame.
	KindResult

	// KindReset asks the engine to clear runtime state.
	KindReset

	// KindAck acknowledges a reset once the engine has applied it.
	KindAck

	// KindTexture rebinds one texture channel slot. Fire and forget.
	KindTexture
)

// Frame is the envelope for every message on the engine socket. Seq
// correlates a request with its reply; fire-and-forget frames carry
// zero.
type Frame struct {
	Seq     uint64        `cbor:"1,keyasint"`
	Kind    FrameKind     `cbor:"2,keyasint"`
	Compile *CompileFrame `cbor:"3,keyasint,omitempty"`
	Result  *ResultFrame  `cbor:"4,keyasint,omitempty"`
	Texture *TextureFrame `cbor:"5,keyasint,omitempty"`
}

// CompileFrame is the wire form of a compile request.
type CompileFrame struct {
	Revision uint64 `cbor:"1,keyasint"`
	Source   string `cbor:"2,keyasint"`
}

// ResultFrame is the wire form of a compile result. A failed compile
// carries the diagnostic fields; a successful one carries the program
// description.
type ResultFrame struct {
	Revision    uint64       `cbor:"1,keyasint"`
	OK          bool         `cbor:"2,keyasint"`
	EntryPoints []EntryFrame `cbor:"3,keyasint,omitempty"`
	Uniforms    []ParamFrame `cbor:"4,keyasint,omitempty"`
	Summary     string       `cbor:"5,keyasint,omitempty"`
	Row         int          `cbor:"6,keyasint,omitempty"`
	Col         int          `cbor:"7,keyasint,omitempty"`
}

// EntryFrame is the wire form of one entry point.
type EntryFrame struct {
	Name      string    `cbor:"1,keyasint"`
	Kind      uint8     `cbor:"2,keyasint"`
	Workgroup [3]uint32 `cbor:"3,keyasint"`
}

// ParamFrame is the wire form of one uniform declaration.
type ParamFrame struct {
	Name    string  `cbor:"1,keyasint"`
	Default float32 `cbor:"2,keyasint"`
	Min     float32 `cbor:"3,keyasint"`
	Max     float32 `cbor:"4,keyasint"`
}

// TextureFrame rebinds one channel slot to a resource URL.
type TextureFrame struct {
	Slot int    `cbor:"1,keyasint"`
	URL  string `cbor:"2,keyasint"`
}

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("engine: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalFrame serializes a Frame to CBOR bytes.
func MarshalFrame(f *Frame) ([]byte, error) {
	return cborEncMode.Marshal(f)
}

// UnmarshalFrame deserializes a Frame from CBOR bytes.
func UnmarshalFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("engine: unmarshal frame: %w", err)
	}
	return &f, nil
}

// EncodeRequest converts a compile request to its wire frame.
func EncodeRequest(seq uint64, req playground.CompileRequest) *Frame {
	return &Frame{
		Seq:  seq,
		Kind: KindCompile,
		Compile: &CompileFrame{
			Revision: req.Revision,
			Source:   req.Source,
		},
	}
}

// EncodeResult converts a compile result to its wire frame. Engines use
// it; the client only decodes.
func EncodeResult(seq uint64, res playground.CompileResult) *Frame {
	rf := &ResultFrame{Revision: res.Revision, OK: res.OK}
	if res.OK {
		for _, e := range res.EntryPoints {
			rf.EntryPoints = append(rf.EntryPoints, EntryFrame{
				Name:      e.Name,
				Kind:      uint8(e.Kind),
				Workgroup: e.WorkgroupSize,
			})
		}
		for _, u := range res.Uniforms {
			rf.Uniforms = append(rf.Uniforms, ParamFrame{
				Name:    u.Name,
				Default: u.Default,
				Min:     u.Min,
				Max:     u.Max,
			})
		}
	} else {
		rf.Summary = res.Diagnostic.Summary
		rf.Row = res.Diagnostic.Row
		rf.Col = res.Diagnostic.Col
	}
	return &Frame{Seq: seq, Kind: KindResult, Result: rf}
}

// DecodeResult converts a result frame back to the playground's type.
func DecodeResult(rf *ResultFrame) playground.CompileResult {
	res := playground.CompileResult{Revision: rf.Revision, OK: rf.OK}
	if rf.OK {
		for _, e := range rf.EntryPoints {
			res.EntryPoints = append(res.EntryPoints, playground.EntryPoint{
				Name:          e.Name,
				Kind:          playground.EntryPointKind(e.Kind),
				WorkgroupSize: e.Workgroup,
			})
		}
		for _, u := range rf.Uniforms {
			res.Uniforms = append(res.Uniforms, playground.UniformDecl{
				Name:    u.Name,
				Default: u.Default,
				Min:     u.Min,
				Max:     u.Max,
			})
		}
		return res
	}
	res.Diagnostic = playground.Diagnostic{
		Summary: rf.Summary,
		Row:     rf.Row,
		Col:     rf.Col,
	}
	return res
}
