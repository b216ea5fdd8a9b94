// Package codec implements the counted-resolution wire format: a pure,
// positional text format for conflict-hunk resolutions and the parser that
// applies it to a conflicted file without ever inspecting hunk content.
package codec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/kdevan/forkpin/internal/domain/entities"
)

const (
	fileHeaderPrefix  = "--- "
	conflictHeader    = "CONFLICT"
	conflictMarkerLen = 7
	oursMarkerPrefix  = "<<<<<<<"
)

// Fingerprint returns the SHA-256 hex digest of a conflict hunk's three
// sections, joined by a boundary marker (spec §3, invariant d).
func Fingerprint(ours, base, theirs []string) string {
	payload := strings.Join(ours, "\n") + "\n---BOUNDARY---\n" +
		strings.Join(base, "\n") + "\n---BOUNDARY---\n" +
		strings.Join(theirs, "\n")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// Emit renders a FileResolution block: a "--- path" header followed by one
// CONFLICT record per hunk, in order.
func Emit(fr entities.FileResolution) string {
	var sb strings.Builder
	sb.WriteString(fileHeaderPrefix)
	sb.WriteString(fr.Path)
	sb.WriteString("\n")
	for _, rec := range fr.Records {
		sb.WriteString(fmt.Sprintf(
			"%s ours=%d base=%d theirs=%d resolution=%d sha=%s\n",
			conflictHeader, rec.OursLines, rec.BaseLines, rec.TheirsLines,
			len(rec.Resolution), rec.SHA,
		))
		for _, line := range rec.Resolution {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// EmitAll concatenates every file's block into one res-K.resolution payload.
func EmitAll(files []entities.FileResolution) string {
	var sb strings.Builder
	for _, fr := range files {
		sb.WriteString(Emit(fr))
	}
	return sb.String()
}

// ParseAll splits a full res-K.resolution payload into its per-file blocks,
// in payload order, each carrying its repo-relative path.
func ParseAll(data string) ([]entities.FileResolution, error) {
	lines := splitLines(data)
	var files []entities.FileResolution
	var cur *entities.FileResolution

	i := 0
	for i < len(lines) {
		line := lines[i]
		switch {
		case strings.HasPrefix(line, fileHeaderPrefix):
			if cur != nil {
				files = append(files, *cur)
			}
			cur = &entities.FileResolution{Path: strings.TrimPrefix(line, fileHeaderPrefix)}
			i++
		case strings.HasPrefix(line, conflictHeader+" "):
			if cur == nil {
				return nil, fmt.Errorf("%w: CONFLICT record before any file header", entities.ErrResolutionFormat)
			}
			rec, consumed, err := parseConflictRecord(lines, i)
			if err != nil {
				return nil, err
			}
			cur.Records = append(cur.Records, rec)
			i += consumed
		default:
			return nil, fmt.Errorf("%w: unexpected line %q", entities.ErrResolutionFormat, line)
		}
	}
	if cur != nil {
		files = append(files, *cur)
	}
	return files, nil
}

// parseConflictRecord parses one "CONFLICT ..." header plus its R lines of
// resolution text, returning the record and the number of lines consumed.
func parseConflictRecord(lines []string, at int) (entities.ConflictRecord, int, error) {
	header := lines[at]
	fields := strings.Fields(header)
	rec := entities.ConflictRecord{}
	resolutionCount := -1

	for _, field := range fields[1:] {
		key, val, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "ours":
			rec.OursLines, _ = strconv.Atoi(val)
		case "base":
			rec.BaseLines, _ = strconv.Atoi(val)
		case "theirs":
			rec.TheirsLines, _ = strconv.Atoi(val)
		case "resolution":
			resolutionCount, _ = strconv.Atoi(val)
		case "sha":
			rec.SHA = val
		}
	}
	if resolutionCount < 0 {
		return rec, 0, fmt.Errorf("%w: CONFLICT record missing resolution count: %q", entities.ErrResolutionFormat, header)
	}
	if at+1+resolutionCount > len(lines) {
		return rec, 0, fmt.Errorf("%w: CONFLICT record resolution runs off the end", entities.ErrResolutionFormat)
	}
	rec.Resolution = append([]string{}, lines[at+1:at+1+resolutionCount]...)
	return rec, 1 + resolutionCount, nil
}

// Apply walks a conflicted file's lines, consuming diff3-marker hunks
// positionally and emitting the matching CONFLICT record's resolution text
// in their place. It never inspects the content of the lines it consumes —
// only their count — which is the invariant that makes replay immune to
// content drift inside otherwise-unchanged hunks.
func Apply(records []entities.ConflictRecord, conflicted string) (string, error) {
	lines := splitLines(conflicted)
	var out strings.Builder
	k := 0
	i := 0

	for i < len(lines) {
		line := lines[i]
		if !strings.HasPrefix(line, oursMarkerPrefix) || len(strings.Fields(line)[0]) != conflictMarkerLen {
			out.WriteString(line)
			out.WriteString("\n")
			i++
			continue
		}
		if k >= len(records) {
			return "", fmt.Errorf("%w: more conflict markers than CONFLICT records", entities.ErrResolutionFormat)
		}
		rec := records[k]
		consumed := 1 + rec.OursLines + 1 + rec.BaseLines + 1 + rec.TheirsLines + 1
		if i+consumed > len(lines) {
			return "", fmt.Errorf("%w: hunk %d runs off the end of the file", entities.ErrResolutionFormat, k)
		}
		for _, rline := range rec.Resolution {
			out.WriteString(rline)
			out.WriteString("\n")
		}
		i += consumed
		k++
	}

	if k != len(records) {
		return "", fmt.Errorf(
			"%w: found %d conflict markers, expected %d", entities.ErrResolutionFormat, k, len(records),
		)
	}
	return out.String(), nil
}

// splitLines splits text on "\n" without keeping a trailing empty element
// when the input ends in a newline, matching how git writes working-tree
// files.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}
