package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePair(ts, filename string) HistoryPair {
	return HistoryPair{
		Original:    []byte("orig-" + filename),
		Screenshot:  []byte("draw-" + filename),
		Timestamp:   ts,
		CroquisTime: 300,
		Metadata:    ImageMetadata{Filename: filename, Width: 800, Height: 1200},
	}
}

func TestAppendHistoryPairNaming(t *testing.T) {
	s := newTestStore(t)

	name, err := s.AppendHistoryPair(samplePair("20260827_140000", "gesture01.png"))
	require.NoError(t, err)
	assert.Equal(t, "20260827_140000_gesture01.croq", name)

	// No reference filename falls back to "unknown".
	name, err = s.AppendHistoryPair(samplePair("20260827_140100", ""))
	require.NoError(t, err)
	assert.Equal(t, "20260827_140100_unknown.croq", name)
}

func TestAppendHistoryPairFillsTimestamp(t *testing.T) {
	s := newTestStore(t)

	name, err := s.AppendHistoryPair(samplePair("", "a.png"))
	require.NoError(t, err)

	pair, err := s.LoadPair(name)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Timestamp)
	assert.NotEmpty(t, PairDate(pair))
}

func TestListHistoryNewestFirst(t *testing.T) {
	s := newTestStore(t)
	for _, ts := range []string{"20260825_090000", "20260827_140000", "20260826_120000"} {
		_, err := s.AppendHistoryPair(samplePair(ts, "a.png"))
		require.NoError(t, err)
	}

	entries, err := s.ListHistory()
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "20260827_140000", entries[0].Pair.Timestamp)
	assert.Equal(t, "20260826_120000", entries[1].Pair.Timestamp)
	assert.Equal(t, "20260825_090000", entries[2].Pair.Timestamp)
}

func TestListHistorySkipsCorruptPairs(t *testing.T) {
	s := newTestStore(t)
	for _, ts := range []string{"20260825_090000", "20260826_090000", "20260827_090000"} {
		_, err := s.AppendHistoryPair(samplePair(ts, "a.png"))
		require.NoError(t, err)
	}
	bad := filepath.Join(s.PairsDir(), "20260828_000000_bad.croq")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0o644))

	entries, err := s.ListHistory()
	require.NoError(t, err)
	assert.Len(t, entries, 3)
	for _, e := range entries {
		assert.NotEqual(t, "20260828_000000_bad.croq", e.File)
	}
}

func TestLoadPairRoundTrip(t *testing.T) {
	s := newTestStore(t)
	pair := samplePair("20260827_140000", "gesture01.png")
	name, err := s.AppendHistoryPair(pair)
	require.NoError(t, err)

	got, err := s.LoadPair(name)
	require.NoError(t, err)
	assert.Equal(t, pair, got)

	_, err = s.LoadPair("missing.croq")
	assert.True(t, IsNotFound(err))
}

func TestSetMemoPreservesOtherFields(t *testing.T) {
	s := newTestStore(t)
	name, err := s.AppendHistoryPair(samplePair("20260827_140000", "a.png"))
	require.NoError(t, err)

	require.NoError(t, s.SetMemo(name, "팔 비율 확인"))
	got, err := s.LoadPair(name)
	require.NoError(t, err)
	assert.Equal(t, "팔 비율 확인", got.Memo)
	assert.Equal(t, []byte("orig-a.png"), got.Original)
	assert.Equal(t, 300, got.CroquisTime)

	// Last write wins.
	require.NoError(t, s.SetMemo(name, "수정"))
	assert.Equal(t, "수정", s.Memo(name))
}

func TestMemoEmptyOnMissingPair(t *testing.T) {
	s := newTestStore(t)
	assert.Equal(t, "", s.Memo("missing.croq"))
}

func TestFilterHistoryByDate(t *testing.T) {
	entries := []HistoryEntry{
		{File: "a", Pair: samplePair("20260827_140000", "a.png")},
		{File: "b", Pair: samplePair("20260827_090000", "b.png")},
		{File: "c", Pair: samplePair("20260826_090000", "c.png")},
	}

	assert.Len(t, FilterHistoryByDate(entries, ""), 3)

	got := FilterHistoryByDate(entries, "2026-08-27")
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].File)

	assert.Empty(t, FilterHistoryByDate(entries, "2026-01-01"))
}

func TestHistoryDates(t *testing.T) {
	entries := []HistoryEntry{
		{Pair: samplePair("20260826_090000", "a.png")},
		{Pair: samplePair("20260827_140000", "b.png")},
		{Pair: samplePair("20260827_090000", "c.png")},
		{Pair: HistoryPair{Timestamp: "garbled"}},
	}

	assert.Equal(t, []string{"2026-08-27", "2026-08-26"}, HistoryDates(entries))
}
