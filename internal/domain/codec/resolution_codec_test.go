//go:build unit

package codec_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kdevan/forkpin/internal/domain/codec"
	"github.com/kdevan/forkpin/internal/domain/entities"
)

func sampleResolution() entities.FileResolution {
	return entities.FileResolution{
		Path: "pkg/thing.go",
		Records: []entities.ConflictRecord{
			{
				OursLines:   2,
				BaseLines:   1,
				TheirsLines: 2,
				Resolution:  []string{"merged line one", "merged line two"},
				SHA:         codec.Fingerprint([]string{"a", "b"}, []string{"a"}, []string{"c", "d"}),
			},
			{
				OursLines:   1,
				BaseLines:   0,
				TheirsLines: 1,
				Resolution:  []string{"theirs wins"},
				SHA:         codec.Fingerprint([]string{"x"}, []string{}, []string{"theirs wins"}),
			},
		},
	}
}

func TestEmitGolden(t *testing.T) {
	t.Parallel()

	// given
	g := goldie.New(t)
	fr := sampleResolution()

	// when
	out := codec.Emit(fr)

	// then
	g.Assert(t, "resolution_emit", []byte(out))
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("should reconstruct the original resolved content from conflicted markers", func(t *testing.T) {
		t.Parallel()

		// given
		fr := sampleResolution()
		conflicted := "package pkg\n" +
			"<<<<<<< ours\n" +
			"a\nb\n" +
			"||||||| base\n" +
			"a\n" +
			"=======\n" +
			"c\nd\n" +
			">>>>>>> theirs\n" +
			"<<<<<<< ours\n" +
			"x\n" +
			"||||||| base\n" +
			"=======\n" +
			"theirs wins\n" +
			">>>>>>> theirs\n"

		// when
		result, err := codec.Apply(fr.Records, conflicted)

		// then
		require.NoError(t, err)
		assert.Equal(t, "package pkg\nmerged line one\nmerged line two\ntheirs wins\n", result)
	})

	t.Run("should ignore the content of non-marker lines (positional, not content-aware)", func(t *testing.T) {
		t.Parallel()

		// given
		fr := sampleResolution()
		conflictedA := "<<<<<<< ours\naaa\nbbb\n||||||| base\nccc\n=======\nddd\neee\n>>>>>>> theirs\n" +
			"<<<<<<< ours\nfff\n||||||| base\n=======\nggg\n>>>>>>> theirs\n"
		conflictedB := "<<<<<<< ours\nzzz\nyyy\n||||||| base\nxxx\n=======\nwww\nvvv\n>>>>>>> theirs\n" +
			"<<<<<<< ours\nuuu\n||||||| base\n=======\nttt\n>>>>>>> theirs\n"

		// when
		resultA, errA := codec.Apply(fr.Records, conflictedA)
		resultB, errB := codec.Apply(fr.Records, conflictedB)

		// then
		require.NoError(t, errA)
		require.NoError(t, errB)
		assert.Equal(t, resultA, resultB)
	})

	t.Run("should fail when marker count exceeds CONFLICT record count", func(t *testing.T) {
		t.Parallel()

		// given
		records := sampleResolution().Records[:1]
		conflicted := "<<<<<<< ours\na\nb\n||||||| base\na\n=======\nc\nd\n>>>>>>> theirs\n" +
			"<<<<<<< ours\nx\n||||||| base\n=======\ny\n>>>>>>> theirs\n"

		// when
		_, err := codec.Apply(records, conflicted)

		// then
		require.Error(t, err)
	})

	t.Run("should fail when CONFLICT record count exceeds marker count", func(t *testing.T) {
		t.Parallel()

		// given
		records := sampleResolution().Records
		conflicted := "<<<<<<< ours\na\nb\n||||||| base\na\n=======\nc\nd\n>>>>>>> theirs\n"

		// when
		_, err := codec.Apply(records, conflicted)

		// then
		require.Error(t, err)
	})
}

func TestParseAll(t *testing.T) {
	t.Parallel()

	t.Run("should round-trip Emit through ParseAll", func(t *testing.T) {
		t.Parallel()

		// given
		fr := sampleResolution()
		encoded := codec.Emit(fr)

		// when
		parsed, err := codec.ParseAll(encoded)

		// then
		require.NoError(t, err)
		require.Len(t, parsed, 1)
		assert.Equal(t, fr.Path, parsed[0].Path)
		assert.Equal(t, fr.Records, parsed[0].Records)
	})

	t.Run("should parse multiple file blocks in order", func(t *testing.T) {
		t.Parallel()

		// given
		a := entities.FileResolution{Path: "a.go", Records: []entities.ConflictRecord{
			{OursLines: 1, BaseLines: 1, TheirsLines: 1, Resolution: []string{"x"}, SHA: "s1"},
		}}
		b := entities.FileResolution{Path: "b.go", Records: []entities.ConflictRecord{
			{OursLines: 0, BaseLines: 0, TheirsLines: 0, Resolution: []string{"y"}, SHA: "s2"},
		}}
		encoded := codec.EmitAll([]entities.FileResolution{a, b})

		// when
		parsed, err := codec.ParseAll(encoded)

		// then
		require.NoError(t, err)
		require.Len(t, parsed, 2)
		assert.Equal(t, "a.go", parsed[0].Path)
		assert.Equal(t, "b.go", parsed[1].Path)
	})
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	t.Run("should be stable for identical inputs", func(t *testing.T) {
		t.Parallel()

		// given/when
		a := codec.Fingerprint([]string{"1", "2"}, []string{"1"}, []string{"3"})
		b := codec.Fingerprint([]string{"1", "2"}, []string{"1"}, []string{"3"})

		// then
		assert.Equal(t, a, b)
	})

	t.Run("should differ when any section differs", func(t *testing.T) {
		t.Parallel()

		// given/when
		a := codec.Fingerprint([]string{"1"}, []string{}, []string{"3"})
		b := codec.Fingerprint([]string{"2"}, []string{}, []string{"3"})

		// then
		assert.NotEqual(t, a, b)
	})
}
