package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hammamikhairi/powernap/internal/domain"
	"github.com/hammamikhairi/powernap/internal/logger"
	"github.com/hammamikhairi/powernap/internal/storage"
)

// fakeTimers records AfterFunc calls so tests can fire them by hand.
type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

type fakeTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
}

func (f *fakeTimer) Stop() bool {
	was := !f.stopped
	f.stopped = true
	return was
}

func (f *fakeTimers) after(d time.Duration, fn func()) TimerHandle {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{delay: d, fn: fn}
	f.timers = append(f.timers, t)
	return t
}

func (f *fakeTimers) last() *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.timers[len(f.timers)-1]
}

// recordingNotifier captures delivered notifications.
type recordingNotifier struct {
	mu     sync.Mutex
	titles []string
	err    error
}

func (r *recordingNotifier) Notify(_ context.Context, title, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	return r.err
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.titles)
}

var fixedNow = time.Date(2026, 10, 16, 14, 20, 30, 0, time.UTC)

func setupCenter(t *testing.T) (*LocalCenter, *fakeTimers, *recordingNotifier) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	timers := &fakeTimers{}
	rec := &recordingNotifier{}
	c := NewLocalCenter(storage.NewPendingStore(log), rec, log,
		WithAfterFunc(timers.after),
		WithNow(func() time.Time { return fixedNow }),
	)
	return c, timers, rec
}

func TestCalendarTriggerNext(t *testing.T) {
	tests := []struct {
		name    string
		trigger CalendarTrigger
		after   time.Time
		want    time.Time
	}{
		{
			name:    "later this hour",
			trigger: CalendarTrigger{Minute: 25, Second: 30},
			after:   fixedNow,
			want:    time.Date(2026, 10, 16, 14, 25, 30, 0, time.UTC),
		},
		{
			name:    "rolls to next hour",
			trigger: CalendarTrigger{Minute: 5, Second: 0},
			after:   fixedNow,
			want:    time.Date(2026, 10, 16, 15, 5, 0, 0, time.UTC),
		},
		{
			name:    "same instant is not after",
			trigger: CalendarTrigger{Minute: 20, Second: 30},
			after:   fixedNow,
			want:    time.Date(2026, 10, 16, 15, 20, 30, 0, time.UTC),
		},
		{
			name:    "rolls over midnight",
			trigger: CalendarTrigger{Minute: 1, Second: 0},
			after:   time.Date(2026, 10, 16, 23, 59, 0, 0, time.UTC),
			want:    time.Date(2026, 10, 17, 0, 1, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.trigger.Next(tt.after))
		})
	}
}

func TestCalendarTriggerDropsHour(t *testing.T) {
	// Ninety minutes from now only keeps minute and second, so the
	// trigger fires thirty minutes from now.
	trig := CalendarTriggerFor(fixedNow.Add(90 * time.Minute))
	assert.Equal(t, fixedNow.Add(30*time.Minute), trig.Next(fixedNow))
}

func TestParseTriggerMode(t *testing.T) {
	m, err := ParseTriggerMode("Interval")
	require.NoError(t, err)
	assert.Equal(t, TriggerInterval, m)

	m, err = ParseTriggerMode("")
	require.NoError(t, err)
	assert.Equal(t, TriggerCalendar, m)

	_, err = ParseTriggerMode("cron")
	assert.Error(t, err)
}

func TestCenterAddReplacesSameID(t *testing.T) {
	c, timers, _ := setupCenter(t)
	ctx := context.Background()

	var results []error
	done := func(err error) { results = append(results, err) }

	c.Add(ctx, domain.NotificationRequest{ID: "n", Title: "first", Trigger: IntervalTrigger{Delay: time.Minute}}, done)
	first := timers.last()
	c.Add(ctx, domain.NotificationRequest{ID: "n", Title: "second", Trigger: IntervalTrigger{Delay: 2 * time.Minute}}, done)

	assert.Equal(t, []error{nil, nil}, results)
	assert.True(t, first.stopped)

	pending := c.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "second", pending[0].Title)
	assert.Equal(t, fixedNow.Add(2*time.Minute), pending[0].FireAt)
	assert.Equal(t, 2*time.Minute, timers.last().delay)
}

func TestCenterRejectsInvalidRequest(t *testing.T) {
	c, _, _ := setupCenter(t)

	var got error
	c.Add(context.Background(), domain.NotificationRequest{ID: "x"}, func(err error) { got = err })
	assert.ErrorIs(t, got, domain.ErrInvalidRequest)
	assert.Empty(t, c.Pending())

	// A nil done callback is fine.
	c.Add(context.Background(), domain.NotificationRequest{Trigger: IntervalTrigger{}}, nil)
}

func TestCenterFireDeliversOnce(t *testing.T) {
	c, timers, rec := setupCenter(t)

	c.Add(context.Background(), domain.NotificationRequest{ID: "n", Title: "wake", Trigger: IntervalTrigger{Delay: time.Second}}, nil)
	fire := timers.last().fn

	fire()
	fire()

	assert.Equal(t, 1, rec.count())
	assert.Empty(t, c.Pending())
}

func TestCenterSupersededFireDropped(t *testing.T) {
	c, timers, rec := setupCenter(t)
	ctx := context.Background()

	c.Add(ctx, domain.NotificationRequest{ID: "n", Trigger: IntervalTrigger{Delay: time.Second}}, nil)
	stale := timers.last().fn
	c.Add(ctx, domain.NotificationRequest{ID: "n", Trigger: IntervalTrigger{Delay: time.Minute}}, nil)

	stale()
	assert.Equal(t, 0, rec.count())
	assert.Len(t, c.Pending(), 1)
}

func TestCenterRemovePending(t *testing.T) {
	c, timers, rec := setupCenter(t)

	c.Add(context.Background(), domain.NotificationRequest{ID: "n", Trigger: IntervalTrigger{Delay: time.Second}}, nil)
	armed := timers.last()

	c.RemovePending("n", "unknown")
	assert.True(t, armed.stopped)
	assert.Empty(t, c.Pending())

	armed.fn()
	assert.Equal(t, 0, rec.count())

	// Nothing pending: still fine.
	c.RemovePending("n")
	assert.Empty(t, c.Pending())
}

func TestCenterDeliveryErrorIsLoggedOnly(t *testing.T) {
	c, timers, rec := setupCenter(t)
	rec.err = errors.New("daemon down")

	c.Add(context.Background(), domain.NotificationRequest{ID: "n", Trigger: IntervalTrigger{Delay: time.Second}}, nil)
	timers.last().fn()

	assert.Equal(t, 1, rec.count())
	assert.Empty(t, c.Pending())
}

func TestCenterClose(t *testing.T) {
	c, timers, _ := setupCenter(t)
	c.Add(context.Background(), domain.NotificationRequest{ID: "a", Trigger: IntervalTrigger{Delay: time.Second}}, nil)
	c.Add(context.Background(), domain.NotificationRequest{ID: "b", Trigger: IntervalTrigger{Delay: time.Second}}, nil)

	c.Close()
	assert.Empty(t, c.Pending())
	for _, ft := range timers.timers {
		assert.True(t, ft.stopped)
	}
}

func TestAlertsScheduleSnoozeLength(t *testing.T) {
	c, _, _ := setupCenter(t)
	a := NewAlerts(c, logger.New(logger.LevelOff, nil), WithClock(func() time.Time { return fixedNow }))

	a.Schedule(300 * time.Second)

	pending := c.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, domain.TimerNotificationID, pending[0].ID)
	assert.Equal(t, DefaultTitle, pending[0].Title)
	assert.Equal(t, fixedNow.Add(300*time.Second), pending[0].FireAt)
	assert.Equal(t, CalendarTrigger{Minute: 25, Second: 30}, pending[0].Trigger)
}

func TestAlertsAtMostOnePending(t *testing.T) {
	c, _, _ := setupCenter(t)
	a := NewAlerts(c, logger.New(logger.LevelOff, nil),
		WithClock(func() time.Time { return fixedNow }),
		WithTriggerMode(TriggerInterval),
		WithContent("t", "b"),
	)

	for _, d := range []time.Duration{10 * time.Second, time.Minute, 2 * time.Hour} {
		a.Schedule(d)
		pending := c.Pending()
		require.Len(t, pending, 1)
		assert.Equal(t, fixedNow.Add(d), pending[0].FireAt)
		assert.Equal(t, "t", pending[0].Title)
	}
}

func TestAlertsCancelIdempotent(t *testing.T) {
	c, _, _ := setupCenter(t)
	a := NewAlerts(c, logger.New(logger.LevelOff, nil))

	a.Cancel()
	assert.Empty(t, c.Pending())

	a.Schedule(time.Minute)
	a.Cancel()
	a.Cancel()
	assert.Empty(t, c.Pending())
}

// failingCenter rejects every request.
type failingCenter struct{ removed int }

func (f *failingCenter) Add(_ context.Context, _ domain.NotificationRequest, done func(error)) {
	done(errors.New("not authorized"))
}

func (f *failingCenter) RemovePending(...string) { f.removed++ }

func TestAlertsScheduleFailureNotSurfaced(t *testing.T) {
	fc := &failingCenter{}
	a := NewAlerts(fc, logger.New(logger.LevelOff, nil))

	assert.NotPanics(t, func() { a.Schedule(time.Minute) })
	a.Cancel()
	assert.Equal(t, 1, fc.removed)
}

func TestFanoutJoinsErrors(t *testing.T) {
	ok := &recordingNotifier{}
	bad := &recordingNotifier{err: errors.New("no speakers")}
	after := &recordingNotifier{}

	err := Fanout{ok, bad, after}.Notify(context.Background(), "t", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no speakers")
	assert.Equal(t, 1, ok.count())
	assert.Equal(t, 1, after.count())

	assert.NoError(t, Fanout{ok}.Notify(context.Background(), "t", "b"))
}

func TestDesktopWrapsSendError(t *testing.T) {
	d := NewDesktop(logger.New(logger.LevelOff, nil))
	var gotTitle string
	d.send = func(title, body string) error {
		gotTitle = title
		return errors.New("dbus")
	}

	err := d.Notify(context.Background(), "Time to Wake Up!", "body")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "desktop notification")
	assert.Equal(t, "Time to Wake Up!", gotTitle)
}
