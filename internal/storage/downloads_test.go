// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *DownloadStore {
	t.Helper()
	store, err := NewDownloadStoreWithDir(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndList(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.Save(Record{
		StudyID: "s-1",
		Kind:    KindConsentArchive,
	}, "consents.zip", []byte("zip-bytes"))
	require.NoError(t, err)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, int64(9), rec.Size)

	data, err := os.ReadFile(rec.Path)
	require.NoError(t, err)
	assert.Equal(t, "zip-bytes", string(data))

	recs, err := store.List()
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec.ID, recs[0].ID)
	assert.Equal(t, "s-1", recs[0].StudyID)
	assert.Equal(t, KindConsentArchive, recs[0].Kind)
}

func TestSaveRejectsEmptyArtifact(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Save(Record{StudyID: "s-1", Kind: KindMetricCSV}, "data.csv", nil)
	require.ErrorIs(t, err, ErrEmptyArtifact)
}

func TestSaveSanitizesFilename(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.Save(Record{
		StudyID: "s-1",
		Kind:    KindMetricCSV,
	}, "../../etc/passwd", []byte("csv"))
	require.NoError(t, err)

	// The artifact must land inside the store directory.
	assert.Equal(t, store.BaseDir, rec.Path[:len(store.BaseDir)])
	assert.NotContains(t, rec.Path[len(store.BaseDir):], "..")
}

func TestListByStudy(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(Record{StudyID: "s-1", Kind: KindMetricCSV, Metric: "Heartrate"}, "hr.csv", []byte("a"))
	require.NoError(t, err)
	_, err = store.Save(Record{StudyID: "s-2", Kind: KindMetricCSV, Metric: "Heartrate"}, "hr.csv", []byte("b"))
	require.NoError(t, err)

	recs, err := store.ListByStudy("s-1")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "s-1", recs[0].StudyID)
}

func TestDeleteRemovesRowAndFile(t *testing.T) {
	store := newTestStore(t)

	rec, err := store.Save(Record{StudyID: "s-1", Kind: KindChartImage, Metric: "Heartrate"}, "chart.png", []byte("png"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(rec.ID))

	_, err = os.Stat(rec.Path)
	assert.True(t, os.IsNotExist(err))

	recs, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, recs)

	assert.ErrorIs(t, store.Delete(rec.ID), ErrRecordNotFound)
}

func TestPruneKeepsNewest(t *testing.T) {
	store := newTestStore(t)
	store.MaxRecords = 0 // prune manually

	var ids []int64
	for i := 0; i < 5; i++ {
		rec, err := store.Save(Record{StudyID: "s-1", Kind: KindMetricCSV}, "data.csv", []byte{byte('a' + i)})
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}

	removed, err := store.Prune(2)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)

	recs, err := store.List()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	// Newest two survive.
	assert.Equal(t, ids[4], recs[0].ID)
	assert.Equal(t, ids[3], recs[1].ID)
}

func TestEnforceLimitOnSave(t *testing.T) {
	store := newTestStore(t)
	store.MaxRecords = 2

	for i := 0; i < 4; i++ {
		_, err := store.Save(Record{StudyID: "s-1", Kind: KindMetricCSV}, "data.csv", []byte{byte('a' + i)})
		require.NoError(t, err)
	}

	recs, err := store.List()
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestEnforceLimitReportsOutcome(t *testing.T) {
	store := newTestStore(t)
	store.MaxRecords = 2

	for i := 0; i < 4; i++ {
		_, err := store.Save(Record{StudyID: "s-1", Kind: KindMetricCSV}, "data.csv", []byte{byte('a' + i)})
		require.NoError(t, err)
	}

	// Under the limit: nothing to do, no error.
	removed, err := store.enforceLimit()
	require.NoError(t, err)
	assert.Zero(t, removed)

	// A broken ledger surfaces as an error instead of passing silently.
	_, err = store.db.Exec(`DROP TABLE downloads`)
	require.NoError(t, err)
	_, err = store.enforceLimit()
	assert.Error(t, err)
}
