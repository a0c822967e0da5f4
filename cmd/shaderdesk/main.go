// Shaderdesk CLI - the entry point for running the shader playground.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tliron/commonlog"

	"github.com/shaderdesk/shaderdesk/engine"
	"github.com/shaderdesk/shaderdesk/manifest"
	"github.com/shaderdesk/shaderdesk/playground"
	"github.com/shaderdesk/shaderdesk/record"
	"github.com/shaderdesk/shaderdesk/server"
	"github.com/shaderdesk/shaderdesk/wgsl"
)

func main() {
	verbose := flag.Bool("v", false, "Verbose output")
	serveMode := flag.Bool("serve", false, "Start control server (Connect HTTP/JSON)")
	listen := flag.String("listen", "", "Control server address (overrides manifest)")
	lspMode := flag.Bool("lsp", false, "Start LSP server on stdio")
	engineURL := flag.String("engine", "", "Engine WebSocket URL (overrides manifest; empty uses the in-process front end)")
	dbPath := flag.String("db", "", "Record database path (overrides manifest)")
	passF32 := flag.Bool("pass-f32", false, "Use 32-bit float pass storage")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: shaderdesk [options] [shader.wgsl]\n\n")
		fmt.Fprintf(os.Stderr, "Loads a shader and runs the playground around it. Without -serve or -lsp\n")
		fmt.Fprintf(os.Stderr, "the shader is compiled once and the result printed.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  shaderdesk plasma.wgsl                 # Check a shader and list entry points\n")
		fmt.Fprintf(os.Stderr, "  shaderdesk -serve                      # Control server on the manifest address\n")
		fmt.Fprintf(os.Stderr, "  shaderdesk -lsp                        # LSP on stdio, for editor integration\n")
		fmt.Fprintf(os.Stderr, "  shaderdesk -serve -engine ws://host:9290/engine\n")
	}
	flag.Parse()

	if *verbose {
		commonlog.Configure(1, nil)
	} else {
		commonlog.Configure(0, nil)
	}

	m, err := manifest.FindAndLoad(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if m == nil {
		m = manifest.Default()
	}
	if *listen != "" {
		m.Server.Listen = *listen
	}
	if *engineURL != "" {
		m.Engine.URL = *engineURL
	}
	if *dbPath != "" {
		m.Records.Path = *dbPath
	}
	if *passF32 {
		m.Shader.PassF32 = true
	}

	shaderPath := m.EntryPath()
	if flag.NArg() > 0 {
		shaderPath = flag.Arg(0)
	}

	// Pick the compile path: remote engine when configured, in-process
	// front end otherwise.
	var (
		gateway      playground.CompileGateway
		engineClient *engine.Client
	)
	if m.Engine.URL != "" {
		engineClient, err = engine.Dial(context.Background(), m.Engine.URL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer engineClient.Close()
		gateway = engineClient
		if *verbose {
			fmt.Printf("Using engine at %s\n", m.Engine.URL)
		}
	} else {
		gateway = &wgsl.Gateway{PassF32: m.Shader.PassF32}
	}

	code := playground.NewCodeStore()
	textures := playground.NewTextureSlotRegistry()
	for i, url := range m.Textures.Slots {
		if err := textures.SetSlot(i, url); err != nil {
			fmt.Fprintf(os.Stderr, "Error: texture slot %d: %v\n", i, err)
			os.Exit(1)
		}
	}
	if engineClient != nil {
		textures.SetObserver(func(slots []string) {
			for i, url := range slots {
				if err := engineClient.SetTextureSlot(i, url); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: forwarding texture slot %d: %v\n", i, err)
					return
				}
			}
		})
	}

	relay := &markerRelay{}
	ctrl := playground.NewController(playground.ControllerConfig{
		Code:      code,
		Uniforms:  playground.NewUniformBindingRegistry(&loggingHost{verbose: *verbose}),
		Textures:  textures,
		Gateway:   gateway,
		Markers:   relay,
		HotReload: m.Shader.HotReload,
		Playing:   m.Shader.Playing,
	})
	defer ctrl.Stop()

	// One-shot mode compiles directly; everything else loads the file
	// into the store and lets the controller take over.
	if !*serveMode && !*lspMode {
		os.Exit(checkShader(gateway, shaderPath, *verbose))
	}

	if source, err := os.ReadFile(shaderPath); err == nil {
		code.SetText(string(source))
	} else if *verbose {
		fmt.Printf("No shader at %s yet\n", shaderPath)
	}

	if *lspMode {
		lsp := server.NewLSP(ctrl)
		relay.set(lsp)
		if err := lsp.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "LSP error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	dbFile := m.RecordsPath()
	if err := os.MkdirAll(filepath.Dir(dbFile), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store, err := record.Open(dbFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := server.New(ctrl, server.WithRecordStore(store))
	defer srv.Stop()
	if err := srv.ListenAndServe(m.Server.Listen); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}

// checkShader compiles a shader once and prints the outcome. Returns
// the process exit code.
func checkShader(gateway playground.CompileGateway, path string, verbose bool) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	res, err := gateway.Compile(context.Background(), playground.CompileRequest{
		Source:   string(source),
		Revision: 1,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if !res.OK {
		d := res.Diagnostic
		fmt.Fprintf(os.Stderr, "%s:%d:%d: %s\n", filepath.Base(path), d.Row, d.Col, d.Summary)
		return 1
	}

	fmt.Printf("%s: ok\n", filepath.Base(path))
	for _, e := range res.EntryPoints {
		fmt.Printf("  %s (%s, workgroup %dx%dx%d)\n",
			e.Name, e.Kind, e.WorkgroupSize[0], e.WorkgroupSize[1], e.WorkgroupSize[2])
	}
	if verbose {
		for _, u := range res.Uniforms {
			fmt.Printf("  custom.%s default %g range [%g, %g]\n", u.Name, u.Default, u.Min, u.Max)
		}
	}
	return 0
}
