package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/yousuf/jstrace/internal/config"
	"github.com/yousuf/jstrace/internal/fingerprint"
	"github.com/yousuf/jstrace/internal/jsstack"
	"github.com/yousuf/jstrace/internal/metrics"
	"github.com/yousuf/jstrace/internal/session"
	"github.com/yousuf/jstrace/internal/sourcemap"
)

// ParseStacktraceArgs represents the arguments for the parse_stacktrace tool
type ParseStacktraceArgs struct {
	Text           string `json:"text" jsonschema:"Stack trace text as printed by the runtime, starting with the exception line"`
	Runtime        string `json:"runtime,omitempty" jsonschema:"Runtime that produced the trace (e.g., 'Node.js'). Defaults to the server's configured runtime."`
	RuntimeVersion string `json:"runtime_version,omitempty" jsonschema:"Runtime version, only used in error messages"`
}

// ParseFrameArgs represents the arguments for the parse_frame tool
type ParseFrameArgs struct {
	Text    string `json:"text" jsonschema:"A single frame line, e.g. '    at foo (/app/index.js:10:5)'"`
	Runtime string `json:"runtime,omitempty" jsonschema:"Runtime that produced the frame. Defaults to the server's configured runtime."`
}

// FingerprintArgs represents the arguments for the fingerprint tool
type FingerprintArgs struct {
	Text    string `json:"text" jsonschema:"Stack trace text to fingerprint"`
	Runtime string `json:"runtime,omitempty" jsonschema:"Runtime that produced the trace. Defaults to the server's configured runtime."`
	Frames  int    `json:"frames,omitempty" jsonschema:"Number of innermost frames in the duphash. Defaults to the server's configured count."`
	Plain   bool   `json:"plain,omitempty" jsonschema:"Return the text that would be hashed instead of the digests (default: false)"`
}

// LoadSourceMapArgs represents the arguments for the load_source_map tool
type LoadSourceMapArgs struct {
	FileName  string `json:"file_name" jsonschema:"Generated file name exactly as it appears in stack frames"`
	SourceMap string `json:"source_map" jsonschema:"Source map (revision 3) JSON"`
}

// RemapStacktraceArgs represents the arguments for the remap_stacktrace tool
type RemapStacktraceArgs struct {
	Text    string `json:"text" jsonschema:"Stack trace text whose frames point into generated files"`
	Runtime string `json:"runtime,omitempty" jsonschema:"Runtime that produced the trace. Defaults to the server's configured runtime."`
}

// FingerprintResult is the text payload of the fingerprint tool
type FingerprintResult struct {
	Bthash  string `json:"bthash"`
	Duphash string `json:"duphash"`
	Reason  string `json:"reason"`
}

type tools struct {
	platform      jsstack.Platform
	duphashFrames int
}

// platformFor resolves the runtime named by a tool call
func (t *tools) platformFor(runtime, version string) (jsstack.Platform, error) {
	if runtime == "" {
		return t.platform, nil
	}
	return jsstack.PlatformFromString(runtime, version)
}

func (t *tools) parseStacktrace(text, runtime, version string) (*jsstack.Stacktrace, error) {
	platform, err := t.platformFor(runtime, version)
	if err != nil {
		return nil, err
	}
	trace, err := platform.ParseStacktrace(text)
	metrics.RecordParse("stacktrace", err)
	if err != nil {
		return nil, fmt.Errorf("failed to parse stack trace: %w", err)
	}
	return trace, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return textResult(string(data)), nil
}

// NewMCPServer creates and configures the MCP server
func NewMCPServer(sessionMgr *session.Manager, cfg *config.Config) (*mcp.Server, error) {
	platform, err := cfg.Platform()
	if err != nil {
		return nil, err
	}
	t := &tools{platform: platform, duphashFrames: cfg.DuphashFrames}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "jstrace",
		Version: "1.0.0",
	}, &mcp.ServerOptions{
		Instructions: `
JavaScript Stack Trace Analysis

jstrace parses stack traces printed by V8 based runtimes (Node.js) into structured
frames and computes crash fingerprints for deduplication.

A trace starts with the exception line followed by one frame per line:

    TypeError: Cannot read properties of undefined (reading 'x')
        at render (/app/dist/bundle.js:1:4120)
        at Object.<anonymous> (/app/dist/bundle.js:1:9012)
        at node:internal/main/run_main_module:23:47

Available Tools:
1. "parse_stacktrace" - Parse a whole trace into JSON
2. "parse_frame" - Parse a single "at ..." line into JSON
3. "fingerprint" - Compute the bthash (exact backtrace) and duphash (crash bucket)
4. "load_source_map" - Register a source map for a generated file in this session
5. "remap_stacktrace" - Rewrite frames of generated files to their original sources

Notes:
- Frames keep the runtime's 1-based line and column numbers
- Source maps are kept per session; maps configured on the server are preloaded
- Parse errors report "line:column: message" positions within the submitted text
`,
	})

	server.AddReceivingMiddleware(createSessionInjectionMiddleware(sessionMgr))
	server.AddReceivingMiddleware(createLoggingMiddleware())

	// Register parse_stacktrace tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_stacktrace",
		Description: "Parse a JavaScript stack trace into its exception name, frames and platform. Returns JSON.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ParseStacktraceArgs) (*mcp.CallToolResult, any, error) {
		trace, err := t.parseStacktrace(args.Text, args.Runtime, args.RuntimeVersion)
		if err != nil {
			return nil, nil, err
		}

		result, err := jsonResult(trace)
		return result, nil, err
	})

	// Register parse_frame tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "parse_frame",
		Description: "Parse a single stack frame line ('at function (file:line:column)'). Returns JSON.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args ParseFrameArgs) (*mcp.CallToolResult, any, error) {
		platform, err := t.platformFor(args.Runtime, "")
		if err != nil {
			return nil, nil, err
		}

		frame, _, err := platform.ParseFrame(args.Text)
		metrics.RecordParse("frame", err)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to parse frame: %w", err)
		}

		result, err := jsonResult(frame)
		return result, nil, err
	})

	// Register fingerprint tool
	mcp.AddTool(server, &mcp.Tool{
		Name: "fingerprint",
		Description: `Compute crash fingerprints of a JavaScript stack trace.

- bthash: SHA-1 over every frame (file, line, function); identifies the exact backtrace
- duphash: SHA-1 over the file locations of the innermost frames; groups duplicate crashes
- reason: one-line crash summary ("<exception> at <file>:<line>")
`,
	}, func(ctx context.Context, req *mcp.CallToolRequest, args FingerprintArgs) (*mcp.CallToolResult, any, error) {
		trace, err := t.parseStacktrace(args.Text, args.Runtime, "")
		if err != nil {
			return nil, nil, err
		}
		if args.Frames < 0 {
			return nil, nil, fmt.Errorf("frames must not be negative, got %d", args.Frames)
		}

		opts := fingerprint.Options{Frames: t.duphashFrames, NoHash: args.Plain}
		if args.Frames > 0 {
			opts.Frames = args.Frames
		}

		out := FingerprintResult{
			Duphash: fingerprint.Duphash(trace, opts),
			Reason:  trace.Reason(),
		}
		if args.Plain {
			out.Bthash = fingerprint.BthashText(trace)
		} else {
			out.Bthash = fingerprint.Bthash(trace)
		}
		metrics.RecordFingerprint()

		result, err := jsonResult(out)
		return result, nil, err
	})

	// Register load_source_map tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "load_source_map",
		Description: "Register a source map for a generated file. Frames whose file name matches are remapped by remap_stacktrace for the rest of the session.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args LoadSourceMapArgs) (*mcp.CallToolResult, any, error) {
		sessionCtx, err := getSessionFromContext(ctx)
		if err != nil {
			return nil, nil, err
		}
		if args.FileName == "" {
			return nil, nil, fmt.Errorf("file_name is required")
		}

		if err := sessionCtx.SourceMaps.Add(args.FileName, []byte(args.SourceMap)); err != nil {
			return nil, nil, err
		}

		return textResult(fmt.Sprintf("Loaded source map for %s (%d files mapped in this session)",
			args.FileName, sessionCtx.SourceMaps.Files())), nil, nil
	})

	// Register remap_stacktrace tool
	mcp.AddTool(server, &mcp.Tool{
		Name:        "remap_stacktrace",
		Description: "Rewrite the frames of a stack trace to original source positions using the session's source maps. Frames without a map are kept as-is and listed at the end.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args RemapStacktraceArgs) (*mcp.CallToolResult, any, error) {
		sessionCtx, err := getSessionFromContext(ctx)
		if err != nil {
			return nil, nil, err
		}

		trace, err := t.parseStacktrace(args.Text, args.Runtime, "")
		if err != nil {
			return nil, nil, err
		}

		remapped, unmapped := sourcemap.RemapWith(sessionCtx.SourceMaps, trace)
		metrics.RecordRemap(len(trace.Frames)-len(unmapped), len(unmapped))

		var output strings.Builder
		output.WriteString(remapped.String())
		if len(unmapped) > 0 {
			output.WriteString("\n\nUnmapped frames:")
			for _, frame := range unmapped {
				fmt.Fprintf(&output, "\n    %s", frame.String())
			}
		}

		return textResult(output.String()), nil, nil
	})

	return server, nil
}
