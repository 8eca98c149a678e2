package patch

import (
	"strings"
)

// Markers of the patch document dialect
const (
	BeginMarker      = "*** Begin Patch"
	EndMarker        = "*** End Patch"
	AddFilePrefix    = "*** Add File: "
	DeleteFilePrefix = "*** Delete File: "
	UpdateFilePrefix = "*** Update File: "
	MoveToPrefix     = "*** Move to: "
	EndOfFileMarker  = "*** End of File"
)

var sectionPrefixes = []string{
	EndMarker,
	AddFilePrefix,
	DeleteFilePrefix,
	UpdateFilePrefix,
}

// parser walks the patch document line by line. Index only moves forward;
// every read either consumes the current line or leaves it for the caller.
type parser struct {
	Lines []string
	Index int
}

// isDone reports whether the parser is at the end of input or positioned on
// one of the given prefixes.
func (p *parser) isDone(prefixes []string) bool {
	if p.Index >= len(p.Lines) {
		return true
	}

	for _, prefix := range prefixes {
		if strings.HasPrefix(p.Lines[p.Index], prefix) {
			return true
		}
	}

	return false
}

// startsWith checks if the current line starts with a prefix
func (p *parser) startsWith(prefix string) bool {
	return p.Index < len(p.Lines) && strings.HasPrefix(p.Lines[p.Index], prefix)
}

// readString reads a line with the given prefix and returns the rest,
// consuming the line. It returns "" without consuming when the prefix does
// not match.
func (p *parser) readString(prefix string) string {
	if p.startsWith(prefix) {
		text := strings.TrimPrefix(p.Lines[p.Index], prefix)
		p.Index++
		return text
	}

	return ""
}

// Parse parses a patch document into its ordered file operations. The text
// must be framed by the Begin/End markers; an optional heredoc wrapper
// (<<TAG ... TAG) around the whole body is stripped first.
func Parse(text string) ([]Operation, error) {
	lines, err := documentLines(text)
	if err != nil {
		return nil, err
	}

	p := &parser{Lines: lines, Index: 1} // skip the Begin Patch line

	var ops []Operation
	seen := make(map[string]bool)

	for !p.isDone([]string{EndMarker}) {
		op, ok, err := p.parseOperation()
		if err != nil {
			return nil, err
		}
		if !ok {
			// Stray line between sections, skip it
			p.Index++
			continue
		}

		if seen[op.Path] {
			return nil, malformedf("duplicate path %q", op.Path)
		}
		seen[op.Path] = true
		ops = append(ops, op)
	}

	if !p.startsWith(EndMarker) {
		return nil, malformedf("missing %q", EndMarker)
	}
	if len(ops) == 0 {
		return nil, malformedf("patch contains no file operations")
	}

	return ops, nil
}

// FilesNeeded returns the paths of files a patch reads or deletes, in
// document order. It tolerates malformed documents; callers wanting errors
// should use Parse.
func FilesNeeded(text string) []string {
	lines, err := documentLines(text)
	if err != nil {
		return nil
	}

	var paths []string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, UpdateFilePrefix):
			paths = append(paths, strings.TrimPrefix(line, UpdateFilePrefix))
		case strings.HasPrefix(line, DeleteFilePrefix):
			paths = append(paths, strings.TrimPrefix(line, DeleteFilePrefix))
		}
	}

	return paths
}

// documentLines strips an optional heredoc wrapper, validates the Begin/End
// frame and splits the document into lines.
func documentLines(text string) ([]string, error) {
	text = stripHeredoc(strings.TrimSpace(text))
	if text == "" {
		return nil, malformedf("empty patch")
	}

	lines := strings.Split(text, "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[0], BeginMarker) {
		return nil, malformedf("missing %q", BeginMarker)
	}
	if strings.TrimSpace(lines[len(lines)-1]) != EndMarker {
		return nil, malformedf("missing %q", EndMarker)
	}

	return lines, nil
}

// stripHeredoc removes a shell heredoc wrapper (<<TAG ... TAG) when the text
// carries one, returning the body between the markers.
func stripHeredoc(text string) string {
	if !strings.HasPrefix(text, "<<") {
		return text
	}

	newline := strings.IndexByte(text, '\n')
	if newline < 0 {
		return text
	}

	tag := strings.TrimSpace(strings.TrimPrefix(text[:newline], "<<"))
	tag = strings.Trim(tag, "'\"")
	if tag == "" {
		return text
	}

	body := text[newline+1:]
	if end := strings.LastIndex(body, "\n"+tag); end >= 0 {
		rest := strings.TrimSpace(body[end+1+len(tag):])
		if rest == "" {
			return strings.TrimSpace(body[:end])
		}
	}

	return text
}

// parseOperation parses one file section starting at the current line. It
// returns ok=false when the current line starts no known section.
func (p *parser) parseOperation() (Operation, bool, error) {
	if path := p.readString(AddFilePrefix); path != "" {
		content, err := p.parseAddBody(path)
		if err != nil {
			return Operation{}, false, err
		}
		return Operation{Type: OpAdd, Path: path, Content: content}, true, nil
	}

	if path := p.readString(DeleteFilePrefix); path != "" {
		return Operation{Type: OpDelete, Path: path}, true, nil
	}

	if path := p.readString(UpdateFilePrefix); path != "" {
		movePath := p.readString(MoveToPrefix)
		chunks, err := p.parseChunks(path)
		if err != nil {
			return Operation{}, false, err
		}
		return Operation{Type: OpUpdate, Path: path, MovePath: movePath, Chunks: chunks}, true, nil
	}

	return Operation{}, false, nil
}

// parseAddBody reads the +-prefixed content lines of an Add File section.
func (p *parser) parseAddBody(path string) (string, error) {
	var lines []string

	for !p.isDone(sectionPrefixes) {
		line := p.Lines[p.Index]
		if !strings.HasPrefix(line, "+") {
			return "", malformedf("invalid add line %q in %s", line, path)
		}
		lines = append(lines, line[1:])
		p.Index++
	}

	return strings.Join(lines, "\n"), nil
}

// parseChunks reads the @@ chunks of an Update File section.
func (p *parser) parseChunks(path string) ([]Chunk, error) {
	var chunks []Chunk

	for !p.isDone(sectionPrefixes) {
		line := p.Lines[p.Index]

		switch {
		case strings.HasPrefix(line, "@@"):
			p.Index++
			chunk, err := p.parseChunkBody(strings.TrimSpace(strings.TrimPrefix(line, "@@")))
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, chunk)
		case line == EndOfFileMarker:
			// Marker with no open chunk attaches to the previous one
			if len(chunks) > 0 {
				chunks[len(chunks)-1].IsEndOfFile = true
			}
			p.Index++
		case strings.TrimSpace(line) == "":
			p.Index++
		default:
			// Chunk body without a leading @@ header
			chunk, err := p.parseChunkBody("")
			if err != nil {
				return nil, err
			}
			chunks = append(chunks, chunk)
		}
	}

	if len(chunks) == 0 {
		return nil, malformedf("update section for %s has no chunks", path)
	}

	return chunks, nil
}

// parseChunkBody reads prefixed lines until the next @@ header or *** marker.
// Space-prefixed (or unprefixed, tolerated) lines are context and appear on
// both sides; - lines only in OldLines, + lines only in NewLines.
func (p *parser) parseChunkBody(context string) (Chunk, error) {
	chunk := Chunk{Context: context}

	for p.Index < len(p.Lines) {
		line := p.Lines[p.Index]

		if strings.HasPrefix(line, "@@") {
			return chunk, nil
		}
		if line == EndOfFileMarker {
			chunk.IsEndOfFile = true
			p.Index++
			return chunk, nil
		}
		if strings.HasPrefix(line, "***") {
			return chunk, nil
		}

		p.Index++

		switch {
		case strings.HasPrefix(line, "+"):
			chunk.NewLines = append(chunk.NewLines, line[1:])
		case strings.HasPrefix(line, "-"):
			chunk.OldLines = append(chunk.OldLines, line[1:])
		case strings.HasPrefix(line, " "):
			chunk.OldLines = append(chunk.OldLines, line[1:])
			chunk.NewLines = append(chunk.NewLines, line[1:])
		default:
			// Tolerate context lines missing the leading space
			chunk.OldLines = append(chunk.OldLines, line)
			chunk.NewLines = append(chunk.NewLines, line)
		}
	}

	return chunk, nil
}
