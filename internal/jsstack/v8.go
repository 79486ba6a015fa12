package jsstack

import (
	"strconv"
	"strings"
)

// Error messages of the V8 dialect
const (
	msgFrameBeginning   = "Expected frame beginning."
	msgNoOpeningBrace   = "Opening brace with file information not found."
	msgNoLineColumn     = "Unable to locate line column."
	msgBadLineColumn    = "Failed to parse line column."
	msgNoFileLine       = "Unable to locate file line."
	msgBadFileLine      = "Failed to parse file line."
	msgNoExceptionColon = "Unable to find the colon right behind exception type."
	msgEmptyException   = "Zero length exception type."
	msgNoMessageColon   = "Unable to find the colon after first exception type."
	msgNoFrames         = "Stack trace does not include any frames."
	msgNoFrameNewline   = "Expected newline after stacktrace frame."
	msgNoDialect        = "The frame does not match any JavaScript dialect"
)

const frameMarker = "at "

// ParseFrame parses a frame without knowing which dialect produced it. Only the V8
// dialect exists today; its failure is wrapped as the cause of the returned error.
func ParseFrame(input string) (*Frame, string, error) {
	loc := startLocation()
	frame, rest, err := parseFrameV8(input, &loc)
	if err != nil {
		return nil, input, &ParseError{Location: loc, Message: msgNoDialect, Cause: err}
	}
	return frame, rest, nil
}

// parseFrameV8 parses one of
//
//	at Object.<anonymous> ([stdin]-wrapper:6:22)
//	at bootstrap_node.js:357:29
//
// File names may contain colons, brackets or spaces, so the location part is read
// backwards from the end of the line. The line terminator is not consumed.
func parseFrameV8(input string, loc *Location) (*Frame, string, error) {
	lineEnd := strings.IndexByte(input, '\n')
	if lineEnd < 0 {
		lineEnd = len(input)
	}
	line := strings.TrimSuffix(input[:lineEnd], "\r")

	//      at Object.<anonymous> ([stdin]-wrapper:6:22)
	// ^^^^^^^^
	indented := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(indented, frameMarker) {
		return nil, input, loc.fail(msgFrameBeginning)
	}
	loc.Column += len(line) - len(indented) + len(frameMarker)

	body := indented[len(frameMarker):]
	origin := loc.Column
	frame := &Frame{}

	// Object.<anonymous> ([stdin]-wrapper:6:22)
	//                    ^^^^^^^^^^^^^^^^^^^^^
	info, infoStart := body, 0
	if strings.HasSuffix(body, ")") {
		open := strings.IndexByte(body, '(')
		if open < 0 {
			return nil, input, loc.failAt(origin+len(body), msgNoOpeningBrace)
		}
		frame.FunctionName = stringPtr(strings.TrimRight(body[:open], " "))
		info, infoStart = body[open+1:len(body)-1], open+1
	}
	infoOrigin := origin + infoStart

	// [stdin]-wrapper:6:22
	//                  ^^^
	colon := strings.LastIndexByte(info, ':')
	if colon <= 0 {
		return nil, input, loc.failAt(infoOrigin, msgNoLineColumn)
	}
	column, n, ok := parseUint32(info[colon+1:])
	if !ok {
		return nil, input, loc.failAt(infoOrigin+colon+1+n, msgBadLineColumn)
	}
	frame.LineColumn = column

	// [stdin]-wrapper:6:22
	//               ^^
	fileColon := strings.LastIndexByte(info[:colon], ':')
	if fileColon <= 0 {
		return nil, input, loc.failAt(infoOrigin, msgNoFileLine)
	}
	fileLine, n, ok := parseUint32(info[fileColon+1 : colon])
	if !ok {
		return nil, input, loc.failAt(infoOrigin+fileColon+1+n, msgBadFileLine)
	}
	frame.FileLine = fileLine

	// [stdin]-wrapper:6:22
	// ^^^^^^^^^^^^^^^
	frame.FileName = stringPtr(info[:fileColon])

	loc.Column = origin + len(body)
	return frame, input[lineEnd:], nil
}

// parseUint32 parses the whole field as a decimal uint32. On failure n is the
// number of leading digits, i.e. where parsing stopped.
func parseUint32(field string) (value uint32, n int, ok bool) {
	for n < len(field) && field[n] >= '0' && field[n] <= '9' {
		n++
	}
	v, err := strconv.ParseUint(field, 10, 32)
	if err != nil {
		return 0, n, false
	}
	return uint32(v), n, true
}

// parseStacktraceV8 parses
//
//	ReferenceError: nonexistentFunc is not defined
//	    at Object.<anonymous> ([stdin]-wrapper:6:22)
//	    at bootstrap_node.js:357:29
func parseStacktraceV8(input string, loc *Location) (*Stacktrace, error) {
	headerEnd := strings.IndexByte(input, '\n')
	if headerEnd < 0 {
		headerEnd = len(input)
	}

	// ReferenceError: nonexistentFunc is not defined
	// ^^^^^^^^^^^^^^
	nameEnd := strings.IndexByte(input[:headerEnd], ':')
	if nameEnd < 0 {
		return nil, loc.fail(msgNoExceptionColon)
	}
	if nameEnd == 0 {
		return nil, loc.fail(msgEmptyException)
	}
	trace := &Stacktrace{ExceptionName: input[:nameEnd]}
	loc.Column += nameEnd

	// ReferenceError: nonexistentFunc is not defined
	//               ^^
	if !strings.HasPrefix(input[nameEnd:], ": ") {
		return nil, loc.fail(msgNoMessageColon)
	}

	// The message is skipped because it may contain sensitive data.
	if headerEnd == len(input) {
		return nil, loc.failAt(headerEnd, msgNoFrames)
	}
	loc.nextLine()
	input = skipMessageLines(input[headerEnd+1:], loc)

	for input != "" {
		frame, rest, err := parseFrameV8(input, loc)
		if err != nil {
			return nil, err
		}
		trace.Frames = append(trace.Frames, *frame)
		input = rest

		// Eat the newline, except at the end of input. parseFrameV8 stops at the
		// line terminator, so the check only guards against that changing.
		if input != "" {
			if input[0] != '\n' {
				return nil, loc.fail(msgNoFrameNewline)
			}
			input = input[1:]
		}
		loc.nextLine()
	}

	if len(trace.Frames) == 0 {
		return nil, loc.fail(msgNoFrames)
	}
	return trace, nil
}

// skipMessageLines drops continuation lines of a multi-line exception message,
// stopping at the first line that looks like a frame.
func skipMessageLines(input string, loc *Location) string {
	for input != "" {
		lineEnd := strings.IndexByte(input, '\n')
		if lineEnd < 0 {
			lineEnd = len(input)
		}
		if strings.HasPrefix(strings.TrimLeft(input[:lineEnd], " \t"), frameMarker) {
			return input
		}
		if lineEnd == len(input) {
			return ""
		}
		input = input[lineEnd+1:]
		loc.nextLine()
	}
	return input
}
