package ui_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/blogclient/pkg/ui"
)

func TestStore_Loading(t *testing.T) {
	t.Parallel()

	var changes int
	store := ui.New(ui.WithOnChange(func(ui.State) { changes++ }))

	assert.False(t, store.Loading())
	store.SetLoading(true)
	store.SetLoading(true)
	assert.True(t, store.Loading())
	store.SetLoading(false)
	assert.False(t, store.Loading())
	assert.Equal(t, 2, changes)
}

func TestStore_AlertAutoHide(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := ui.New(ui.WithClock(clock))

	store.ShowAlert("Saved", ui.AlertSuccess)
	assert.Equal(t, ui.Alert{Show: true, Message: "Saved", Type: ui.AlertSuccess}, store.Alert())

	clock.Advance(ui.DefaultAlertTimeout - time.Millisecond)
	assert.True(t, store.Alert().Show)

	clock.Advance(time.Millisecond)
	assert.Eventually(t, func() bool { return !store.Alert().Show }, time.Second, 5*time.Millisecond)
}

func TestStore_AlertCustomTimeout(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := ui.New(ui.WithClock(clock), ui.WithAlertTimeout(time.Second))

	store.ShowAlert("short", ui.AlertInfo)
	clock.Advance(time.Second)
	assert.Eventually(t, func() bool { return !store.Alert().Show }, time.Second, 5*time.Millisecond)

	store.ShowAlertFor("longer", ui.AlertWarning, 3*time.Second)
	clock.Advance(time.Second)
	assert.True(t, store.Alert().Show)
}

func TestStore_AlertZeroTimeoutStays(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := ui.New(ui.WithClock(clock))

	store.ShowAlertFor("sticky", ui.AlertError, 0)
	clock.Advance(time.Hour)
	assert.True(t, store.Alert().Show)

	store.HideAlert()
	assert.False(t, store.Alert().Show)
	assert.Empty(t, store.Alert().Message)
}

func TestStore_NewAlertCancelsOldTimer(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	store := ui.New(ui.WithClock(clock))

	store.ShowAlert("first", ui.AlertInfo)
	clock.Advance(3 * time.Second)
	store.ShowAlert("second", ui.AlertInfo)

	// The first alert's deadline passes; the second must stay visible.
	clock.Advance(2 * time.Second)
	time.Sleep(20 * time.Millisecond)
	require.True(t, store.Alert().Show)
	assert.Equal(t, "second", store.Alert().Message)

	clock.Advance(2 * time.Second)
	assert.Eventually(t, func() bool { return !store.Alert().Show }, time.Second, 5*time.Millisecond)
}

func TestStore_Confirm(t *testing.T) {
	t.Parallel()

	t.Run("resolved", func(t *testing.T) {
		t.Parallel()
		store := ui.New()

		done := make(chan bool, 1)
		go func() {
			ok, err := store.Confirm(context.Background(), "Delete", "Delete post?")
			assert.NoError(t, err)
			done <- ok
		}()

		require.Eventually(t, func() bool {
			_, pending := store.PendingConfirm()
			return pending
		}, time.Second, 5*time.Millisecond)

		req, _ := store.PendingConfirm()
		assert.Equal(t, ui.ConfirmRequest{Title: "Delete", Message: "Delete post?"}, req)
		require.NotNil(t, store.State().Confirm)

		assert.True(t, store.ResolveConfirm(true))
		assert.True(t, <-done)
		assert.Nil(t, store.State().Confirm)
		assert.False(t, store.ResolveConfirm(false))
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		store := ui.New()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ok, err := store.Confirm(ctx, "t", "m")
		require.ErrorIs(t, err, context.Canceled)
		assert.False(t, ok)
		_, pending := store.PendingConfirm()
		assert.False(t, pending)
	})

	t.Run("replaced", func(t *testing.T) {
		t.Parallel()
		store := ui.New()

		first := make(chan error, 1)
		go func() {
			_, err := store.Confirm(context.Background(), "first", "")
			first <- err
		}()
		require.Eventually(t, func() bool {
			_, pending := store.PendingConfirm()
			return pending
		}, time.Second, 5*time.Millisecond)

		second := make(chan bool, 1)
		go func() {
			ok, _ := store.Confirm(context.Background(), "second", "")
			second <- ok
		}()

		require.ErrorIs(t, <-first, ui.ErrConfirmReplaced)
		req, pending := store.PendingConfirm()
		require.True(t, pending)
		assert.Equal(t, "second", req.Title)

		store.ResolveConfirm(false)
		assert.False(t, <-second)
	})
}

func TestStore_ConcurrentUse(t *testing.T) {
	t.Parallel()

	store := ui.New(ui.WithClock(clockwork.NewFakeClock()))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.SetLoading(i%2 == 0)
			store.ShowAlert("msg", ui.AlertInfo)
			_ = store.State()
			store.HideAlert()
		}()
	}
	wg.Wait()
}
