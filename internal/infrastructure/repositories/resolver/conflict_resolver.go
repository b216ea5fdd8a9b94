// Package resolver implements the tiered conflict-resolution pipeline:
// deterministic, reuse, advisor-classified strategy, and advisor-generated
// fallback, in that order (spec §4.5).
package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/kdevan/forkpin/internal/domain/codec"
	"github.com/kdevan/forkpin/internal/domain/entities"
	"github.com/kdevan/forkpin/internal/domain/repositories"
)

const (
	oursMarker   = "<<<<<<<"
	baseMarker   = "|||||||"
	splitMarker  = "======="
	theirsMarker = ">>>>>>>"
)

// isMarkerLine reports whether line opens with marker as its whole first
// token, matching codec.Apply's exact-length check so both parsers agree
// on what counts as a diff3 marker line rather than one merely starting
// with marker's characters.
func isMarkerLine(line, marker string) bool {
	if !strings.HasPrefix(line, marker) {
		return false
	}
	return len(strings.Fields(line)[0]) == len(marker)
}

type strategy string

const (
	strategyOurs     strategy = "OURS"
	strategyTheirs   strategy = "THEIRS"
	strategyBothOT   strategy = "BOTH_OT"
	strategyBothTO   strategy = "BOTH_TO"
	strategyGenerate strategy = "GENERATE"
)

// TieredResolver implements repositories.ConflictResolver.
type TieredResolver struct {
	advisor repositories.Advisor
}

var _ repositories.ConflictResolver = (*TieredResolver)(nil)

// NewTieredResolver constructs a TieredResolver backed by the given advisor.
func NewTieredResolver(advisor repositories.Advisor) *TieredResolver {
	return &TieredResolver{advisor: advisor}
}

func (r *TieredResolver) Resolve(
	ctx context.Context,
	path string,
	conflicted string,
	prior *entities.FileResolution,
) (string, entities.FileResolution, error) {
	hunks, err := extractHunks(conflicted)
	if err != nil {
		return "", entities.FileResolution{}, err
	}

	resolutions := make([]*[]string, len(hunks))
	shas := make([]string, len(hunks))
	for i, h := range hunks {
		shas[i] = codec.Fingerprint(h.Ours, h.Base, h.Theirs)
	}

	var pending []int
	for i, h := range hunks {
		if res := tier0(h); res != nil {
			resolutions[i] = res
			continue
		}
		pending = append(pending, i)
	}

	var stillPending []int
	for _, i := range pending {
		if res := reuse(prior, i, shas[i], hunks[i]); res != nil {
			resolutions[i] = res
			continue
		}
		stillPending = append(stillPending, i)
	}
	pending = stillPending

	generateIdx, err := r.classifyTier(ctx, hunks, pending, resolutions)
	if err != nil {
		return "", entities.FileResolution{}, err
	}

	if len(generateIdx) > 0 {
		if genErr := r.generateTier(ctx, hunks, generateIdx, resolutions); genErr != nil {
			return "", entities.FileResolution{}, genErr
		}
	}

	records := make([]entities.ConflictRecord, len(hunks))
	for i, h := range hunks {
		if resolutions[i] == nil {
			return "", entities.FileResolution{}, fmt.Errorf(
				"%w: hunk %d in %s has no resolution", entities.ErrResolutionFormat, i, path,
			)
		}
		records[i] = entities.ConflictRecord{
			OursLines:   len(h.Ours),
			BaseLines:   len(h.Base),
			TheirsLines: len(h.Theirs),
			Resolution:  *resolutions[i],
			SHA:         shas[i],
		}
	}

	fr := entities.FileResolution{Path: path, Records: records}
	resolved, applyErr := codec.Apply(records, conflicted)
	if applyErr != nil {
		return "", entities.FileResolution{}, applyErr
	}
	if strings.Contains(resolved, oursMarker) {
		return "", entities.FileResolution{}, fmt.Errorf(
			"%w: resolved file %s still contains conflict markers", entities.ErrResolutionFormat, path,
		)
	}
	return resolved, fr, nil
}

func tier0(h entities.ConflictHunk) *[]string {
	switch {
	case equalLines(h.Ours, h.Base):
		return &h.Theirs
	case equalLines(h.Theirs, h.Base):
		return &h.Ours
	case equalLines(h.Ours, h.Theirs):
		return &h.Ours
	default:
		return nil
	}
}

func reuse(prior *entities.FileResolution, idx int, sha string, h entities.ConflictHunk) *[]string {
	if prior == nil || idx >= len(prior.Records) {
		return nil
	}
	rec := prior.Records[idx]
	if rec.SHA != "" {
		if rec.SHA == sha {
			return &rec.Resolution
		}
		return nil
	}
	if rec.OursLines == len(h.Ours) && rec.BaseLines == len(h.Base) && rec.TheirsLines == len(h.Theirs) {
		return &rec.Resolution
	}
	return nil
}

// classifyTier batches all still-pending hunks into one advisor request and
// applies the returned strategy to each, except GENERATE, which is
// returned for the next tier.
func (r *TieredResolver) classifyTier(
	ctx context.Context, hunks []entities.ConflictHunk, pending []int, resolutions []*[]string,
) ([]int, error) {
	if len(pending) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	for _, i := range pending {
		h := hunks[i]
		fmt.Fprintf(&sb, "CONFLICT %d\nOURS:\n%s\nBASE:\n%s\nTHEIRS:\n%s\n\n",
			i, strings.Join(h.Ours, "\n"), strings.Join(h.Base, "\n"), strings.Join(h.Theirs, "\n"))
	}

	resp, err := r.advisor.Classify(ctx, sb.String())
	if err != nil {
		return nil, err
	}
	strategies := parseClassifyResponse(resp)

	var generateIdx []int
	for _, i := range pending {
		s, ok := strategies[i]
		if !ok {
			s = strategyGenerate
		}
		h := hunks[i]
		switch s {
		case strategyOurs:
			resolutions[i] = &h.Ours
		case strategyTheirs:
			resolutions[i] = &h.Theirs
		case strategyBothOT:
			combined := append(append([]string{}, h.Ours...), h.Theirs...)
			resolutions[i] = &combined
		case strategyBothTO:
			combined := append(append([]string{}, h.Theirs...), h.Ours...)
			resolutions[i] = &combined
		default:
			generateIdx = append(generateIdx, i)
		}
	}
	return generateIdx, nil
}

// parseClassifyResponse parses "N STRATEGY" lines, tolerant of extra
// whitespace and lines whose first token isn't an integer.
func parseClassifyResponse(resp string) map[int]strategy {
	out := map[int]strategy{}
	for _, line := range strings.Split(resp, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		out[n] = strategy(strings.ToUpper(fields[1]))
	}
	return out
}

func (r *TieredResolver) generateTier(
	ctx context.Context, hunks []entities.ConflictHunk, generateIdx []int, resolutions []*[]string,
) error {
	var sb strings.Builder
	for _, i := range generateIdx {
		h := hunks[i]
		fmt.Fprintf(&sb, "CONFLICT %d\nOURS:\n%s\nBASE:\n%s\nTHEIRS:\n%s\n\n",
			i, strings.Join(h.Ours, "\n"), strings.Join(h.Base, "\n"), strings.Join(h.Theirs, "\n"))
	}

	resp, err := r.advisor.Generate(ctx, sb.String())
	if err != nil {
		return err
	}
	blocks := parseGenerateResponse(resp)

	for _, i := range generateIdx {
		lines, ok := blocks[i]
		if !ok {
			return fmt.Errorf("%w: advisor did not return a resolution for conflict %d", entities.ErrAdvisor, i)
		}
		resolutions[i] = &lines
	}
	return nil
}

// parseGenerateResponse splits a generate response into its
// "=== RESOLUTION N ===" blocks, retaining leading blank lines verbatim.
func parseGenerateResponse(resp string) map[int][]string {
	out := map[int][]string{}
	lines := strings.Split(resp, "\n")
	current := -1
	var buf []string

	flush := func() {
		if current >= 0 {
			out[current] = buf
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "=== RESOLUTION") && strings.HasSuffix(trimmed, "===") {
			flush()
			n := extractResolutionNumber(trimmed)
			current = n
			buf = nil
			continue
		}
		if current >= 0 {
			buf = append(buf, line)
		}
	}
	flush()
	return out
}

func extractResolutionNumber(header string) int {
	fields := strings.Fields(header)
	for _, f := range fields {
		if n, err := strconv.Atoi(strings.Trim(f, "=")); err == nil {
			return n
		}
	}
	return -1
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// extractHunks partitions a diff3-marker conflicted file into its ordered
// conflict hunks. Edit/delete conflicts yield empty buffers for the
// missing side, never omitted ones.
func extractHunks(conflicted string) ([]entities.ConflictHunk, error) {
	lines := strings.Split(strings.TrimSuffix(conflicted, "\n"), "\n")
	var hunks []entities.ConflictHunk
	i := 0
	for i < len(lines) {
		if !isMarkerLine(lines[i], oursMarker) {
			i++
			continue
		}
		i++
		var ours, base, theirs []string
		for i < len(lines) && !isMarkerLine(lines[i], baseMarker) {
			ours = append(ours, lines[i])
			i++
		}
		if i >= len(lines) {
			return nil, fmt.Errorf("%w: unterminated conflict hunk (missing base marker)", entities.ErrResolutionFormat)
		}
		i++
		for i < len(lines) && !isMarkerLine(lines[i], splitMarker) {
			base = append(base, lines[i])
			i++
		}
		if i >= len(lines) {
			return nil, fmt.Errorf("%w: unterminated conflict hunk (missing split marker)", entities.ErrResolutionFormat)
		}
		i++
		for i < len(lines) && !isMarkerLine(lines[i], theirsMarker) {
			theirs = append(theirs, lines[i])
			i++
		}
		if i >= len(lines) {
			return nil, fmt.Errorf("%w: unterminated conflict hunk (missing theirs marker)", entities.ErrResolutionFormat)
		}
		i++
		hunks = append(hunks, entities.ConflictHunk{Ours: ours, Base: base, Theirs: theirs})
	}
	logger.Debugf("extracted %d conflict hunks", len(hunks))
	return hunks, nil
}
