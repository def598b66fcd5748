package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRhymes serves canned rhyme sets keyed by word, counting lookups.
type fakeRhymes struct {
	sets  map[string][]string
	calls []string
	err   error
}

func (f *fakeRhymes) GetOrCompute(ctx context.Context, word string) (map[string]struct{}, error) {
	f.calls = append(f.calls, word)
	if f.err != nil {
		return nil, f.err
	}
	return set(f.sets[word]...), nil
}

func newAssembler(sentences []string, rhymes *fakeRhymes, bound int) (*Assembler, *loopingSupplier) {
	supplier := &loopingSupplier{sentences: sentences}
	return NewAssembler(supplier, rhymes, NewSearcher(supplier, bound)), supplier
}

func TestAssemblerRun(t *testing.T) {
	ctx := context.Background()

	t.Run("paired unit emits two rhyming distinct lines", func(t *testing.T) {
		rhymes := &fakeRhymes{sets: map[string][]string{
			"cat": {"hat", "mat"},
			"hat": {"cat", "mat"},
		}}
		asm, _ := newAssembler([]string{
			"I once had a cat",
			"the dog ran away",
			"it slept in a hat",
		}, rhymes, 100)

		lines, err := asm.Run(ctx, NewAttempt("aa"))
		require.NoError(t, err)
		assert.Equal(t, []string{"I once had a cat", "it slept in a hat"}, lines)
	})

	t.Run("stanza break becomes a blank line", func(t *testing.T) {
		rhymes := &fakeRhymes{sets: map[string][]string{
			"sea": {"tree", "free", "sea"},
		}}
		asm, _ := newAssembler([]string{
			"waves upon the sea",
			"shade beneath a tree",
			"a sail on the sea",
			"birds flying free",
		}, rhymes, 100)

		lines, err := asm.Run(ctx, NewAttempt("aa/aa"))
		require.NoError(t, err)
		require.Len(t, lines, 5)
		assert.Equal(t, "", lines[2])
	})

	t.Run("single-occurrence units skip the rhyme lookup", func(t *testing.T) {
		rhymes := &fakeRhymes{sets: map[string][]string{
			"night": {"light", "bright"},
		}}
		asm, _ := newAssembler([]string{
			"we wandered in the dark",
			"and then we heard a lark",
			"the moon was out last night",
			"the stars were shining bright",
		}, rhymes, 100)

		// 'a' and 'b' appear once each, so only the 'c' group needs the
		// rhyme source: once to seed, none to close.
		lines, err := asm.Run(ctx, NewAttempt("ab/cc"))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"we wandered in the dark",
			"and then we heard a lark",
			"",
			"the moon was out last night",
			"the stars were shining bright",
		}, lines)
		assert.Equal(t, []string{"night"}, rhymes.calls)
	})

	t.Run("search skips a rhyming duplicate", func(t *testing.T) {
		rhymes := &fakeRhymes{sets: map[string][]string{
			"cat": {"hat", "cat"},
		}}
		// The second draw repeats the seed line verbatim; it rhymes with
		// itself but must be rejected as a duplicate.
		asm, _ := newAssembler([]string{
			"I once had a cat",
			"I once had a cat",
			"it slept in a hat",
		}, rhymes, 100)

		lines, err := asm.Run(ctx, NewAttempt("aa"))
		require.NoError(t, err)
		assert.Equal(t, []string{"I once had a cat", "it slept in a hat"}, lines)
	})

	t.Run("seed skips a duplicate even on a final occurrence", func(t *testing.T) {
		asm, _ := newAssembler([]string{
			"I once had a cat",
			"I once had a cat",
			"it slept in a hat",
		}, &fakeRhymes{}, 100)

		// Both units occur once, so no rhyme lookups happen, but the
		// repeated line still may not appear twice.
		lines, err := asm.Run(ctx, NewAttempt("ab"))
		require.NoError(t, err)
		assert.Equal(t, []string{"I once had a cat", "it slept in a hat"}, lines)
	})

	t.Run("seed draws again when the rhyme set is empty", func(t *testing.T) {
		rhymes := &fakeRhymes{sets: map[string][]string{
			"orange": nil,
			"cat":    {"hat"},
			"hat":    {"cat"},
		}}
		asm, _ := newAssembler([]string{
			"nothing rhymes with orange",
			"I once had a cat",
			"it slept in a hat",
		}, rhymes, 100)

		lines, err := asm.Run(ctx, NewAttempt("aa"))
		require.NoError(t, err)
		assert.Equal(t, "I once had a cat", lines[0])
		assert.Equal(t, []string{"orange", "cat"}, rhymes.calls)
	})

	t.Run("rhyme pool grows across a three-line group", func(t *testing.T) {
		rhymes := &fakeRhymes{sets: map[string][]string{
			"day":  {"way"},
			"way":  {"stay"},
			"stay": {"day"},
		}}
		// "stay" rhymes only via "way"'s set, so acceptance of the third
		// line proves the pool grew after the second.
		asm, _ := newAssembler([]string{
			"at the break of day",
			"we went along the way",
			"and decided we would stay",
		}, rhymes, 100)

		lines, err := asm.Run(ctx, NewAttempt("aaa"))
		require.NoError(t, err)
		require.Len(t, lines, 3)
		assert.Equal(t, "and decided we would stay", lines[2])
		// Seed lookup for "day", growth lookup for "way"; the final
		// occurrence "stay" needs none.
		assert.Equal(t, []string{"day", "way"}, rhymes.calls)
	})

	t.Run("search budget failure carries the live counts", func(t *testing.T) {
		rhymes := &fakeRhymes{sets: map[string][]string{
			"cat": {"hat"},
		}}
		asm, _ := newAssembler([]string{
			"I once had a cat",
			"nothing here will match",
		}, rhymes, 20)

		att := NewAttempt("aba")
		_, err := asm.Run(ctx, att)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrLineNotFound)

		var lnf *LineNotFoundError
		require.ErrorAs(t, err, &lnf)
		assert.Equal(t, "aba", lnf.Scheme)
		// Two lines were emitted before the failing third, so their
		// counts are already decremented, and the map is att's own.
		assert.Equal(t, map[rune]int{'a': 1, 'b': 0}, lnf.Counts)
		assert.Equal(t, att.Counts, lnf.Counts)
		assert.Equal(t, att.StartedAt, lnf.StartedAt)
	})

	t.Run("rhyme source failure propagates unchanged", func(t *testing.T) {
		wantErr := errors.New("rhyme source unavailable")
		rhymes := &fakeRhymes{err: wantErr}
		asm, _ := newAssembler([]string{"any line at all"}, rhymes, 100)

		_, err := asm.Run(ctx, NewAttempt("aa"))
		assert.ErrorIs(t, err, wantErr)
	})

	t.Run("cancelled context stops assembly", func(t *testing.T) {
		rhymes := &fakeRhymes{sets: map[string][]string{}}
		asm, _ := newAssembler([]string{"any line at all"}, rhymes, 100)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := asm.Run(cancelled, NewAttempt("ab"))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("empty scheme yields an empty poem", func(t *testing.T) {
		asm, supplier := newAssembler([]string{"unused"}, &fakeRhymes{}, 100)

		lines, err := asm.Run(ctx, NewAttempt(""))
		require.NoError(t, err)
		assert.Empty(t, lines)
		assert.Zero(t, supplier.draws)
	})
}

func TestNewAttempt(t *testing.T) {
	att := NewAttempt("abab")
	assert.Equal(t, "abab", att.Scheme)
	assert.Equal(t, []rune("abab"), att.Units)
	assert.Equal(t, map[rune]int{'a': 2, 'b': 2}, att.Counts)
	assert.WithinDuration(t, time.Now(), att.StartedAt, time.Second)
}
