package jsstack

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type frameJSON struct {
	FileName     *string `json:"file_name,omitempty"`
	FunctionName *string `json:"function_name,omitempty"`
	FileLine     uint32  `json:"file_line,omitempty"`
	LineColumn   uint32  `json:"line_column,omitempty"`
}

// MarshalJSON encodes the frame. Absent names and zero numbers are omitted.
func (f Frame) MarshalJSON() ([]byte, error) {
	return json.Marshal(frameJSON{
		FileName:     f.FileName,
		FunctionName: f.FunctionName,
		FileLine:     f.FileLine,
		LineColumn:   f.LineColumn,
	})
}

// UnmarshalJSON decodes a frame object. Every key is optional; a key of the wrong
// type or a number outside uint32 fails the decode.
func (f *Frame) UnmarshalJSON(data []byte) error {
	if err := expectObject(data, "frame"); err != nil {
		return err
	}

	if err := rejectNullMembers(data, "frame"); err != nil {
		return err
	}

	var raw frameJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid frame: %w", err)
	}

	*f = Frame{
		FileName:     raw.FileName,
		FunctionName: raw.FunctionName,
		FileLine:     raw.FileLine,
		LineColumn:   raw.LineColumn,
	}
	return nil
}

type platformJSON struct {
	Engine  *string `json:"engine"`
	Runtime *string `json:"runtime"`
}

// MarshalJSON encodes the platform by its engine and runtime names
func (p Platform) MarshalJSON() ([]byte, error) {
	engine, runtime := p.Engine.String(), p.Runtime.String()
	return json.Marshal(platformJSON{Engine: &engine, Runtime: &runtime})
}

// UnmarshalJSON decodes {"engine": ..., "runtime": ...}. Both members are required
// and must name registered values.
func (p *Platform) UnmarshalJSON(data []byte) error {
	if err := expectObject(data, "platform"); err != nil {
		return err
	}

	var raw platformJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid platform: %w", err)
	}

	if raw.Engine == nil {
		return fmt.Errorf("No 'engine' member")
	}
	engine := EngineFromString(*raw.Engine)
	if engine == 0 {
		return fmt.Errorf("Unknown JavaScript engine '%s'", *raw.Engine)
	}

	if raw.Runtime == nil {
		return fmt.Errorf("No 'runtime' member")
	}
	runtime := RuntimeFromString(*raw.Runtime)
	if runtime == 0 {
		return fmt.Errorf("Unknown JavaScript runtime '%s'", *raw.Runtime)
	}

	*p = Platform{Engine: engine, Runtime: runtime}
	return nil
}

type stacktraceJSON struct {
	ExceptionName string    `json:"exception_name,omitempty"`
	Frames        []Frame   `json:"stacktrace,omitempty"`
	Platform      *Platform `json:"platform,omitempty"`
}

// MarshalJSON encodes the trace. An unset platform is omitted.
func (s Stacktrace) MarshalJSON() ([]byte, error) {
	raw := stacktraceJSON{
		ExceptionName: s.ExceptionName,
		Frames:        s.Frames,
	}
	if !s.Platform.IsZero() {
		raw.Platform = &s.Platform
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes a trace object. "{}" decodes to an empty trace.
func (s *Stacktrace) UnmarshalJSON(data []byte) error {
	if err := expectObject(data, "stacktrace"); err != nil {
		return err
	}

	var raw stacktraceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid stacktrace: %w", err)
	}

	*s = Stacktrace{
		ExceptionName: raw.ExceptionName,
		Frames:        raw.Frames,
	}
	if raw.Platform != nil {
		s.Platform = *raw.Platform
	}
	return nil
}

func expectObject(data []byte, what string) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("invalid %s: expected a JSON object", what)
	}
	return nil
}

// rejectNullMembers fails when any member of the object is a JSON null, which
// encoding/json would otherwise leave as the zero value.
func rejectNullMembers(data []byte, what string) error {
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return fmt.Errorf("invalid %s: %w", what, err)
	}
	for key, value := range members {
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return fmt.Errorf("invalid %s: member '%s' is null", what, key)
		}
	}
	return nil
}
