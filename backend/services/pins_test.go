package services_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pincorder/backend/models"
	"pincorder/backend/services"
	"pincorder/backend/store/storetest"
)

func pinTimes(pins []models.Pin) []int {
	times := make([]int, len(pins))
	for i, p := range pins {
		times[i] = p.Time
	}
	return times
}

func TestAddPinRejectsDuplicateTime(t *testing.T) {
	f := newFixture(t)
	owner := storetest.User(t, f.store, "owner")
	rec := f.recording(t, owner, "Lecture1", nil)

	_, err := f.svc.Pins.Add(owner, rec.ID, services.PinInput{Time: intPtr(100), Text: strPtr("first")})
	require.NoError(t, err)
	_, err = f.svc.Pins.Add(owner, rec.ID, services.PinInput{Time: intPtr(100), Text: strPtr("second")})
	assert.ErrorIs(t, err, services.ErrConflict)

	pins, err := f.svc.Pins.List(owner, rec.ID)
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, "first", pins[0].Text)
}

func TestAddPinValidation(t *testing.T) {
	f := newFixture(t)
	owner := storetest.User(t, f.store, "owner")
	stranger := storetest.User(t, f.store, "stranger")
	rec := f.recording(t, owner, "Lecture1", nil)

	var verr *services.ValidationError
	_, err := f.svc.Pins.Add(owner, rec.ID, services.PinInput{Text: strPtr("no time")})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "time", verr.Field)

	_, err = f.svc.Pins.Add(owner, rec.ID, services.PinInput{
		Time:  intPtr(1),
		Image: &services.Upload{Filename: "slide.gif", Body: strings.NewReader("x")},
	})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "media_url", verr.Field)

	_, err = f.svc.Pins.Add(stranger, rec.ID, services.PinInput{Time: intPtr(1)})
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = f.svc.Pins.List(stranger, rec.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPinImageLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := storetest.User(t, f.store, "owner")
	rec := f.recording(t, owner, "Lecture1", nil)

	pin, err := f.svc.Pins.Add(owner, rec.ID, services.PinInput{
		Time:  intPtr(12),
		Image: &services.Upload{Filename: "board.JPG", Body: strings.NewReader("jpeg")},
	})
	require.NoError(t, err)
	require.NotEmpty(t, pin.MediaURL)
	first := filepath.Join(f.root, pin.MediaURL)
	_, err = os.Stat(first)
	require.NoError(t, err)

	updated, err := f.svc.Pins.Update(owner, rec.ID, services.PinInput{
		Time:  intPtr(12),
		Image: &services.Upload{Filename: "board.png", Body: strings.NewReader("png")},
	})
	require.NoError(t, err)
	assert.NotEqual(t, pin.MediaURL, updated.MediaURL)
	_, err = os.Stat(first)
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, f.svc.Pins.Delete(owner, rec.ID, intPtr(12)))
	_, err = os.Stat(filepath.Join(f.root, updated.MediaURL))
	assert.True(t, os.IsNotExist(err))
}

func TestUpdateAndDeletePin(t *testing.T) {
	f := newFixture(t)
	owner := storetest.User(t, f.store, "owner")
	rec := f.recording(t, owner, "Lecture1", nil)
	_, err := f.svc.Pins.Add(owner, rec.ID, services.PinInput{Time: intPtr(7), Text: strPtr("old")})
	require.NoError(t, err)

	pin, err := f.svc.Pins.Update(owner, rec.ID, services.PinInput{Time: intPtr(7), Text: strPtr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", pin.Text)

	pin, err = f.svc.Pins.Update(owner, rec.ID, services.PinInput{Time: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, "", pin.Text)

	_, err = f.svc.Pins.Update(owner, rec.ID, services.PinInput{Time: intPtr(8)})
	assert.ErrorIs(t, err, services.ErrNotFound)

	require.NoError(t, f.svc.Pins.Delete(owner, rec.ID, intPtr(7)))
	assert.ErrorIs(t, f.svc.Pins.Delete(owner, rec.ID, intPtr(7)), services.ErrNotFound)
}

func TestAddPinBatch(t *testing.T) {
	f := newFixture(t)
	owner := storetest.User(t, f.store, "owner")
	rec := f.recording(t, owner, "Lecture1", nil)
	for _, tm := range []int{10, 20} {
		_, err := f.svc.Pins.Add(owner, rec.ID, services.PinInput{Time: intPtr(tm), Text: strPtr("orig")})
		require.NoError(t, err)
	}

	pins, err := f.svc.Pins.AddBatch(owner, rec.ID, []services.PinBatchEntry{
		{Time: intPtr(30), Text: strPtr("new")},
		{Time: intPtr(10), Text: strPtr("edited")},
		{Time: intPtr(20), Deleted: boolPtr(true)},
		{Time: intPtr(40), Deleted: boolPtr(true)},
		{Time: intPtr(5)},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{5, 10, 30}, pinTimes(pins))
	assert.Equal(t, "", pins[0].Text)
	assert.Equal(t, "edited", pins[1].Text)
	assert.Equal(t, "new", pins[2].Text)
}

func TestAddPinBatchDeleteThenRecreate(t *testing.T) {
	f := newFixture(t)
	owner := storetest.User(t, f.store, "owner")
	rec := f.recording(t, owner, "Lecture1", nil)
	_, err := f.svc.Pins.Add(owner, rec.ID, services.PinInput{Time: intPtr(100), Text: strPtr("before")})
	require.NoError(t, err)

	pins, err := f.svc.Pins.AddBatch(owner, rec.ID, []services.PinBatchEntry{
		{Time: intPtr(100), Deleted: boolPtr(true)},
		{Time: intPtr(100), Text: strPtr("x")},
	})
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, 100, pins[0].Time)
	assert.Equal(t, "x", pins[0].Text)
}

func TestAddPinBatchDeletedFalseUpdates(t *testing.T) {
	f := newFixture(t)
	owner := storetest.User(t, f.store, "owner")
	rec := f.recording(t, owner, "Lecture1", nil)
	_, err := f.svc.Pins.Add(owner, rec.ID, services.PinInput{Time: intPtr(1), Text: strPtr("a")})
	require.NoError(t, err)

	pins, err := f.svc.Pins.AddBatch(owner, rec.ID, []services.PinBatchEntry{
		{Time: intPtr(1), Text: strPtr("b"), Deleted: boolPtr(false)},
	})
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, "b", pins[0].Text)
}

func TestAddPinBatchRejectedAsAWhole(t *testing.T) {
	f := newFixture(t)
	owner := storetest.User(t, f.store, "owner")
	stranger := storetest.User(t, f.store, "stranger")
	rec := f.recording(t, owner, "Lecture1", nil)

	var verr *services.ValidationError
	_, err := f.svc.Pins.AddBatch(owner, rec.ID, []services.PinBatchEntry{
		{Time: intPtr(1), Text: strPtr("ok")},
		{Text: strPtr("no time")},
	})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "batch[1].time", verr.Field)

	_, err = f.svc.Pins.AddBatch(owner, rec.ID, nil)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "batch", verr.Field)

	_, err = f.svc.Pins.AddBatch(stranger, rec.ID, []services.PinBatchEntry{{Time: intPtr(1)}})
	assert.ErrorIs(t, err, services.ErrNotFound)

	pins, err := f.svc.Pins.List(owner, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, pins)

	pins, err = f.svc.Pins.AddBatch(owner, rec.ID, []services.PinBatchEntry{})
	require.NoError(t, err)
	assert.Empty(t, pins)
}

func TestAddPinBatchCannotAdoptAnotherUsersImage(t *testing.T) {
	f := newFixture(t)
	alice := storetest.User(t, f.store, "alice")
	bob := storetest.User(t, f.store, "bob")
	lecture := f.recording(t, alice, "Lecture1", nil)
	_, err := f.svc.Pins.Add(alice, lecture.ID, services.PinInput{
		Time:  intPtr(3),
		Image: &services.Upload{Filename: "slide.png", Body: strings.NewReader("png")},
	})
	require.NoError(t, err)
	require.NoError(t, f.svc.Sharing.ShareRecordingWithUser(alice, lecture.ID, uintPtr(bob.ID)))

	visible, err := f.svc.Pins.List(bob, lecture.ID)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	path := visible[0].MediaURL
	require.NotEmpty(t, path)

	notes := f.recording(t, bob, "Notes", nil)
	_, err = f.svc.Pins.Add(bob, notes.ID, services.PinInput{Time: intPtr(1)})
	require.NoError(t, err)

	var verr *services.ValidationError
	_, err = f.svc.Pins.AddBatch(bob, notes.ID, []services.PinBatchEntry{
		{Time: intPtr(2), Text: strPtr("fine")},
		{Time: intPtr(9), MediaURL: strPtr(path)},
	})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "batch[1].media_url", verr.Field)

	_, err = f.svc.Pins.AddBatch(bob, notes.ID, []services.PinBatchEntry{
		{Time: intPtr(1), MediaURL: strPtr(path)},
	})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "batch[0].media_url", verr.Field)

	pins, err := f.svc.Pins.List(bob, notes.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, pinTimes(pins), "a rejected batch changes nothing")
	assert.Empty(t, pins[0].MediaURL)

	require.NoError(t, f.svc.Pins.Delete(bob, notes.ID, intPtr(1)))
	_, err = os.Stat(filepath.Join(f.root, path))
	assert.NoError(t, err, "alice's image is untouched")
}

func TestAddPinBatchKeepsOrDropsOwnImage(t *testing.T) {
	f := newFixture(t)
	owner := storetest.User(t, f.store, "owner")
	rec := f.recording(t, owner, "Lecture1", nil)
	pin, err := f.svc.Pins.Add(owner, rec.ID, services.PinInput{
		Time:  intPtr(4),
		Image: &services.Upload{Filename: "board.jpg", Body: strings.NewReader("jpeg")},
	})
	require.NoError(t, err)
	file := filepath.Join(f.root, pin.MediaURL)

	pins, err := f.svc.Pins.AddBatch(owner, rec.ID, []services.PinBatchEntry{
		{Time: intPtr(4), Text: strPtr("same image"), MediaURL: strPtr(pin.MediaURL)},
	})
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Equal(t, pin.MediaURL, pins[0].MediaURL)
	_, err = os.Stat(file)
	require.NoError(t, err)

	pins, err = f.svc.Pins.AddBatch(owner, rec.ID, []services.PinBatchEntry{
		{Time: intPtr(4), Text: strPtr("no image"), MediaURL: strPtr("")},
	})
	require.NoError(t, err)
	require.Len(t, pins, 1)
	assert.Empty(t, pins[0].MediaURL)
	_, err = os.Stat(file)
	assert.True(t, os.IsNotExist(err))
}
