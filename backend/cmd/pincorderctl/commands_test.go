package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pincorder/backend/models"
	"pincorder/backend/storage"
	"pincorder/backend/store"
	"pincorder/backend/store/storetest"
)

func run(t *testing.T, s *store.Store, args ...string) (string, error) {
	t.Helper()
	return runWith(t, s, storage.NewLocalStorage(t.TempDir()), args...)
}

func runWith(t *testing.T, s *store.Store, files storage.FileStorage, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out, func() (*store.Store, storage.FileStorage, error) { return s, files, nil })
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSeedAndListUniversities(t *testing.T) {
	s := storetest.New(t)
	file := filepath.Join(t.TempDir(), "unis.csv")
	require.NoError(t, os.WriteFile(file, []byte("name,short_name\nUniversity of Seville,US\nUniversity of Granada,UGR\n"), 0o644))

	out, err := run(t, s, "seed-universities", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 universities.")

	// Re-running is idempotent.
	_, err = run(t, s, "seed-universities", "-f", file)
	require.NoError(t, err)
	unis, err := s.ListUniversities()
	require.NoError(t, err)
	assert.Len(t, unis, 2)

	out, err = run(t, s, "universities")
	require.NoError(t, err)
	assert.Contains(t, out, "University of Granada")
	assert.Contains(t, out, "UGR")
}

func TestSeedUniversitiesRequiresFile(t *testing.T) {
	s := storetest.New(t)
	_, err := run(t, s, "seed-universities")
	assert.Error(t, err)

	_, err = run(t, s, "seed-universities", "--file", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestUniversitiesEmpty(t *testing.T) {
	s := storetest.New(t)
	out, err := run(t, s, "universities")
	require.NoError(t, err)
	assert.Contains(t, out, "No universities found.")
}

func TestMigrateAndDeleteUser(t *testing.T) {
	s := storetest.New(t)
	_, err := run(t, s, "migrate")
	require.NoError(t, err)

	alice := storetest.User(t, s, "alice")
	files := storage.NewLocalStorage(t.TempDir())
	path, err := files.Save("talk.mp3", strings.NewReader("audio"))
	require.NoError(t, err)
	rec := &models.Recording{Name: "Lecture1", Date: time.Now(), UserID: alice.ID}
	require.NoError(t, s.CreateRecording(rec))
	require.NoError(t, s.AttachRecordingFile(&models.RecordingFile{RecordingID: rec.ID, FileURL: path, UploadDate: time.Now()}))

	out, err := runWith(t, s, files, "delete-user", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted user alice (1 files).")
	_, err = os.Stat(filepath.Join(files.Root, path))
	assert.True(t, os.IsNotExist(err))

	_, err = s.GetUserByUsername("alice")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = run(t, s, "delete-user", "alice")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
