package playground

import "context"

// EntryPointKind classifies what a dispatchable entry point produces.
type EntryPointKind int

const (
	// KindImage entry points write the screen texture.
	KindImage EntryPointKind = iota

	// KindCompute entry points run general compute work.
	KindCompute

	// KindBuffer entry points write the shared storage buffer.
	KindBuffer
)

func (k EntryPointKind) String() string {
	switch k {
	case KindImage:
		return "image"
	case KindCompute:
		return "compute"
	case KindBuffer:
		return "buffer"
	default:
		return "unknown"
	}
}

// EntryPoint describes one dispatchable unit reported by a successful
// compile. The list is replaced wholesale on every compile, never patched.
type EntryPoint struct {
	Name          string
	Kind          EntryPointKind
	WorkgroupSize [3]uint32
}

// UniformDecl describes a custom uniform a compiled shader exposes.
// It drives reconciliation of the uniform binding registry.
type UniformDecl struct {
	Name    string
	Default float32
	Min     float32
	Max     float32
}

// Diagnostic is a compiler diagnostic positioned in document coordinates.
// Rows and columns are 1-based. Success true with an empty summary means
// "no error" and clears prior markers.
type Diagnostic struct {
	Summary string
	Row     int
	Col     int
	Success bool
}

// CompileRequest carries a source snapshot to the gateway. Revision always
// matches the snapshot it was taken with.
type CompileRequest struct {
	Source   string
	Revision uint64
}

// CompileResult is the gateway's answer for one request. OK true carries
// the entry points and uniform declarations of the new program; OK false
// carries a diagnostic. Either way the previously compiled program on the
// engine side keeps running.
type CompileResult struct {
	Revision    uint64
	OK          bool
	EntryPoints []EntryPoint
	Uniforms    []UniformDecl
	Diagnostic  Diagnostic
}

// CompileGateway turns source text into a compiled program or a
// diagnostic. Compile may block for the whole round trip; the controller
// calls it from a dedicated goroutine and discards results that have been
// superseded by a newer revision. A non-nil error means the gateway itself
// was unreachable, not that the shader failed to compile.
type CompileGateway interface {
	Compile(ctx context.Context, req CompileRequest) (CompileResult, error)
}

// Resetter is implemented by gateways that can clear engine-side runtime
// state (elapsed time, pass buffers). Reset returns once the engine has
// acknowledged, which happens on its next render tick.
type Resetter interface {
	Reset(ctx context.Context) error
}
