package jsstack

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Engine identifies the JavaScript engine that formatted a stack trace
type Engine uint8

// Runtime identifies the environment embedding the engine
type Runtime uint8

// The zero value of Engine and Runtime means "unset".
const (
	EngineV8 Engine = 1 + iota
	engineUpperBound
)

const (
	RuntimeNodeJS Runtime = 1 + iota
	runtimeUpperBound
)

// unknownName is printed for unregistered engine or runtime codes
const unknownName = "<unknown>"

// ErrInvalidPlatform is returned when a platform carries an unregistered engine or
// runtime code. The condition is also logged as a warning.
var ErrInvalidPlatform = errors.New("invalid JavaScript platform")

type engineMeta struct {
	name string
}

type runtimeMeta struct {
	name string
	// The single engine the runtime embeds
	engine Engine
}

// Registry tables, indexed by code. Slot 0 is the unset value. Read-only after init.
var (
	engines = [engineUpperBound]engineMeta{
		EngineV8: {name: "V8"},
	}

	runtimes = [runtimeUpperBound]runtimeMeta{
		RuntimeNodeJS: {name: "Node.js", engine: EngineV8},
	}
)

// Valid reports whether e is a registered engine
func (e Engine) Valid() bool {
	return e > 0 && e < engineUpperBound
}

// String returns the canonical engine name
func (e Engine) String() string {
	if !e.Valid() {
		return unknownName
	}
	return engines[e].name
}

// Valid reports whether r is a registered runtime
func (r Runtime) Valid() bool {
	return r > 0 && r < runtimeUpperBound
}

// String returns the canonical runtime name
func (r Runtime) String() string {
	if !r.Valid() {
		return unknownName
	}
	return runtimes[r].name
}

// EngineFromString looks up an engine by its exact, case-sensitive name.
// It returns the unset engine when nothing matches.
func EngineFromString(name string) Engine {
	for e := Engine(1); e < engineUpperBound; e++ {
		if engines[e].name == name {
			return e
		}
	}
	return 0
}

// RuntimeFromString looks up a runtime by its exact, case-sensitive name.
// It returns the unset runtime when nothing matches.
func RuntimeFromString(name string) Runtime {
	for r := Runtime(1); r < runtimeUpperBound; r++ {
		if runtimes[r].name == name {
			return r
		}
	}
	return 0
}

// Platform is the (engine, runtime) pair that selects a parser dialect
type Platform struct {
	Engine  Engine
	Runtime Runtime
}

// NodeJS is the V8 on Node.js platform
var NodeJS = Platform{Engine: EngineV8, Runtime: RuntimeNodeJS}

// PlatformFromString resolves a runtime name, and the engine it embeds, into a
// platform. The version is only used in error messages.
func PlatformFromString(runtimeName, runtimeVersion string) (Platform, error) {
	runtime := RuntimeFromString(runtimeName)
	if runtime == 0 {
		return Platform{}, fmt.Errorf("No known JavaScript platform with runtime '%s'", runtimeName)
	}

	engine := runtimes[runtime].engine
	if engine == 0 {
		version := ""
		if runtimeVersion != "" {
			version = " " + runtimeVersion
		}
		return Platform{}, fmt.Errorf("No known JavaScript engine for runtime by '%s%s'", runtimeName, version)
	}

	return Platform{Engine: engine, Runtime: runtime}, nil
}

// IsZero reports whether the platform is unset
func (p Platform) IsZero() bool {
	return p.Engine == 0 && p.Runtime == 0
}

// Valid reports whether both codes are registered
func (p Platform) Valid() bool {
	return p.Engine.Valid() && p.Runtime.Valid()
}

// String returns "<engine>/<runtime>"
func (p Platform) String() string {
	return p.Engine.String() + "/" + p.Runtime.String()
}

// check logs and rejects unregistered codes before dispatch
func (p Platform) check() error {
	if !p.Runtime.Valid() {
		log.Warn().Msgf("Invalid JavaScript runtime code %x", uint8(p.Runtime))
		return ErrInvalidPlatform
	}
	if !p.Engine.Valid() {
		log.Warn().Msgf("Invalid JavaScript engine code %x", uint8(p.Engine))
		return ErrInvalidPlatform
	}
	return nil
}

// ParseFrame parses a single frame in the platform's dialect. On success it
// returns the frame and the input left after it, starting at the line terminator.
// Failures are reported as *ParseError, positioned relative to the start of input.
func (p Platform) ParseFrame(input string) (*Frame, string, error) {
	if err := p.check(); err != nil {
		return nil, input, err
	}

	// No runtime overrides its engine's dialect yet.
	loc := startLocation()
	switch p.Engine {
	case EngineV8:
		return parseFrameV8(input, &loc)
	default:
		return nil, input, ErrInvalidPlatform
	}
}

// ParseStacktrace parses a whole stack trace in the platform's dialect and attaches
// the platform to the result. The entire input must be consumed.
func (p Platform) ParseStacktrace(input string) (*Stacktrace, error) {
	if err := p.check(); err != nil {
		return nil, err
	}

	loc := startLocation()
	var (
		trace *Stacktrace
		err   error
	)
	switch p.Engine {
	case EngineV8:
		trace, err = parseStacktraceV8(input, &loc)
	default:
		return nil, ErrInvalidPlatform
	}
	if err != nil {
		return nil, err
	}

	trace.Platform = p
	return trace, nil
}
