package streak

import (
	"context"
	"errors"
	"testing"
	"time"

	"serotonyl.ru/ghostcards/internal/common"
	"serotonyl.ru/ghostcards/internal/config"
)

type fakeStore struct {
	streaks   map[int64]*Streak
	past      []PastStreak
	resets    int
	breakErr  error
	reminders map[int64]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		streaks:   make(map[int64]*Streak),
		reminders: make(map[int64]bool),
	}
}

func (f *fakeStore) Create(_ context.Context, userID int64) error {
	if _, ok := f.streaks[userID]; !ok {
		f.streaks[userID] = &Streak{UserID: userID}
	}
	return nil
}

func (f *fakeStore) GetByUserID(_ context.Context, userID int64) (*Streak, error) {
	s, ok := f.streaks[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStore) IncrementReviews(_ context.Context, userID int64, at time.Time) (*Streak, error) {
	s, ok := f.streaks[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	s.ReviewsToday++
	s.LastReviewAt = &at
	cp := *s
	return &cp, nil
}

func (f *fakeStore) CompleteQuota(_ context.Context, c QuotaCompletion) (bool, error) {
	s := f.streaks[c.UserID]
	if s.QuotaCompletedToday {
		return false, nil
	}
	s.QuotaCompletedToday = true
	s.CurrentStreak = c.NewStreak
	s.LongestStreak = c.LongestStreak
	s.TotalQuotasCompleted = c.TotalCompleted
	started, done := c.StartedOn, c.QuotaDate
	s.StreakStartedOn = &started
	s.LastQuotaCompletion = &done
	return true, nil
}

func (f *fakeStore) GetAll(context.Context) ([]*Streak, error) {
	out := make([]*Streak, 0, len(f.streaks))
	for _, s := range f.streaks {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeStore) GetByMinStreak(_ context.Context, minStreak int) ([]*Streak, error) {
	var out []*Streak
	for _, s := range f.streaks {
		if s.CurrentStreak >= minStreak {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeStore) BreakStreak(_ context.Context, past PastStreak) error {
	if f.breakErr != nil {
		return f.breakErr
	}
	f.past = append(f.past, past)
	s := f.streaks[past.UserID]
	s.CurrentStreak = 0
	s.StreakStartedOn = nil
	return nil
}

func (f *fakeStore) ResetDaily(context.Context) error {
	f.resets++
	for _, s := range f.streaks {
		s.ReviewsToday = 0
		s.QuotaCompletedToday = false
		s.ReminderSentToday = false
	}
	return nil
}

func (f *fakeStore) MarkReminderSent(_ context.Context, userID int64) error {
	f.streaks[userID].ReminderSentToday = true
	f.reminders[userID] = true
	return nil
}

func (f *fakeStore) ListPast(_ context.Context, userID int64) ([]PastStreak, error) {
	var out []PastStreak
	for _, p := range f.past {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

type recordingNotifier struct {
	sent map[int64]string
	err  error
}

func (n *recordingNotifier) Send(_ context.Context, userID int64, text string) error {
	if n.err != nil {
		return n.err
	}
	if n.sent == nil {
		n.sent = make(map[int64]string)
	}
	n.sent[userID] = text
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		AppTimezone:             "UTC",
		StreakReviewsNeed:       3,
		StreakReminderThreshold: 7,
		StreakInactiveHours:     10,
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountsForStreak(t *testing.T) {
	for q := -2; q <= 7; q++ {
		want := q >= 0 && q <= 5
		if got := CountsForStreak(q); got != want {
			t.Fatalf("CountsForStreak(%d) = %v, want %v", q, got, want)
		}
	}
}

func TestRecordStudy_CompletesQuota(t *testing.T) {
	store := newFakeStore()
	now := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc := NewService(store, testConfig(), func() time.Time { return now })
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := svc.RecordStudy(ctx, 1, 4); err != nil {
			t.Fatalf("RecordStudy: %v", err)
		}
	}
	if s := store.streaks[1]; s.QuotaCompletedToday || s.CurrentStreak != 0 {
		t.Fatalf("quota should not be complete yet: %+v", s)
	}

	if err := svc.RecordStudy(ctx, 1, 0); err != nil {
		t.Fatalf("RecordStudy: %v", err)
	}
	s := store.streaks[1]
	if !s.QuotaCompletedToday || s.CurrentStreak != 1 || s.LongestStreak != 1 {
		t.Fatalf("expected completed quota and streak 1: %+v", s)
	}
	if s.StreakStartedOn == nil || !s.StreakStartedOn.Equal(date(2024, 5, 10)) {
		t.Fatalf("expected streak to start today, got %v", s.StreakStartedOn)
	}

	// после выполнения нормы счётчик больше не растёт
	if err := svc.RecordStudy(ctx, 1, 5); err != nil {
		t.Fatalf("RecordStudy: %v", err)
	}
	if store.streaks[1].ReviewsToday != 3 {
		t.Fatalf("reviews after completion should be ignored, got %d", store.streaks[1].ReviewsToday)
	}
}

func TestRecordStudy_IgnoresInvalidQuality(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testConfig(), nil)

	if err := svc.RecordStudy(context.Background(), 1, 9); err != nil {
		t.Fatalf("RecordStudy: %v", err)
	}
	if _, ok := store.streaks[1]; ok {
		t.Fatal("invalid quality must not create a streak row")
	}
}

func TestRecordStudy_KeepsStartAndRaisesRecord(t *testing.T) {
	store := newFakeStore()
	started := date(2024, 5, 1)
	store.streaks[1] = &Streak{UserID: 1, CurrentStreak: 5, LongestStreak: 5, StreakStartedOn: &started, ReviewsToday: 2}
	now := time.Date(2024, 5, 6, 20, 0, 0, 0, time.UTC)
	svc := NewService(store, testConfig(), func() time.Time { return now })

	if err := svc.RecordStudy(context.Background(), 1, 3); err != nil {
		t.Fatalf("RecordStudy: %v", err)
	}
	s := store.streaks[1]
	if s.CurrentStreak != 6 || s.LongestStreak != 6 {
		t.Fatalf("expected 6/6, got %d/%d", s.CurrentStreak, s.LongestStreak)
	}
	if !s.StreakStartedOn.Equal(started) {
		t.Fatalf("start date changed: %v", s.StreakStartedOn)
	}
}

// staleStore отдаёт снимок, прочитанный до того, как другой запрос закрыл норму.
type staleStore struct {
	*fakeStore
	snapshot   *Streak
	staleWrite bool
}

func (s *staleStore) GetByUserID(ctx context.Context, userID int64) (*Streak, error) {
	if s.snapshot != nil {
		cp := *s.snapshot
		return &cp, nil
	}
	return s.fakeStore.GetByUserID(ctx, userID)
}

func (s *staleStore) IncrementReviews(ctx context.Context, userID int64, at time.Time) (*Streak, error) {
	updated, err := s.fakeStore.IncrementReviews(ctx, userID, at)
	if err != nil || !s.staleWrite {
		return updated, err
	}
	cp := *s.snapshot
	cp.ReviewsToday = updated.ReviewsToday
	return &cp, nil
}

func TestRecordStudy_ConcurrentCompletionCountsOnce(t *testing.T) {
	tests := []struct {
		name       string
		staleWrite bool
	}{
		{"increment sees completed quota", false},
		{"increment returns stale row", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := newFakeStore()
			started := date(2024, 5, 1)
			inner.streaks[1] = &Streak{
				UserID: 1, CurrentStreak: 5, LongestStreak: 5,
				ReviewsToday: 2, StreakStartedOn: &started, TotalQuotasCompleted: 5,
			}
			before := *inner.streaks[1]
			now := time.Date(2024, 5, 6, 20, 0, 0, 0, time.UTC)
			ctx := context.Background()

			first := NewService(inner, testConfig(), func() time.Time { return now })
			if err := first.RecordStudy(ctx, 1, 4); err != nil {
				t.Fatalf("first RecordStudy: %v", err)
			}

			store := &staleStore{fakeStore: inner, snapshot: &before, staleWrite: tt.staleWrite}
			second := NewService(store, testConfig(), func() time.Time { return now })
			if err := second.RecordStudy(ctx, 1, 4); err != nil {
				t.Fatalf("second RecordStudy: %v", err)
			}

			s := inner.streaks[1]
			if s.CurrentStreak != 6 || s.LongestStreak != 6 || s.TotalQuotasCompleted != 6 {
				t.Fatalf("one day must add one to the streak, got current=%d longest=%d total=%d",
					s.CurrentStreak, s.LongestStreak, s.TotalQuotasCompleted)
			}
		})
	}
}

func TestDailyReset_ArchivesBrokenStreaks(t *testing.T) {
	store := newFakeStore()
	started := date(2024, 5, 1)
	lastDone := date(2024, 5, 8)
	doneYesterday := date(2024, 5, 9)
	store.streaks[1] = &Streak{UserID: 1, CurrentStreak: 8, LongestStreak: 12, StreakStartedOn: &started, LastQuotaCompletion: &lastDone}
	store.streaks[2] = &Streak{UserID: 2, CurrentStreak: 4, QuotaCompletedToday: true, LastQuotaCompletion: &doneYesterday}
	store.streaks[3] = &Streak{UserID: 3}
	store.streaks[4] = &Streak{UserID: 4, CurrentStreak: 3, LastQuotaCompletion: &lastDone}

	now := time.Date(2024, 5, 10, 0, 0, 5, 0, time.UTC)
	svc := NewService(store, testConfig(), func() time.Time { return now })

	if err := svc.DailyReset(context.Background()); err != nil {
		t.Fatalf("DailyReset: %v", err)
	}

	if len(store.past) != 2 {
		t.Fatalf("expected 2 archived streaks, got %d", len(store.past))
	}
	byUser := map[int64]PastStreak{}
	for _, p := range store.past {
		byUser[p.UserID] = p
	}
	if p := byUser[1]; p.StreakLength != 8 || !p.StartDate.Equal(started) || !p.EndDate.Equal(lastDone) {
		t.Fatalf("unexpected archive for user 1: %+v", p)
	}
	// без streak_started_on начало считается от даты последней нормы
	if p := byUser[4]; !p.StartDate.Equal(date(2024, 5, 6)) || !p.EndDate.Equal(lastDone) {
		t.Fatalf("unexpected archive for user 4: %+v", p)
	}

	if store.streaks[1].CurrentStreak != 0 || store.streaks[2].CurrentStreak != 4 {
		t.Fatalf("unexpected streaks after reset: %+v / %+v", store.streaks[1], store.streaks[2])
	}
	if store.resets != 1 || store.streaks[2].QuotaCompletedToday {
		t.Fatal("daily counters should be reset")
	}
}

func TestDailyReset_ContinuesOnBreakError(t *testing.T) {
	store := newFakeStore()
	store.streaks[1] = &Streak{UserID: 1, CurrentStreak: 2}
	store.breakErr = errors.New("db down")
	svc := NewService(store, testConfig(), nil)

	if err := svc.DailyReset(context.Background()); err != nil {
		t.Fatalf("DailyReset: %v", err)
	}
	if store.resets != 1 {
		t.Fatal("daily counters should still be reset")
	}
}

func TestSendReminders(t *testing.T) {
	now := time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)
	longAgo := now.Add(-12 * time.Hour)
	recent := now.Add(-2 * time.Hour)

	store := newFakeStore()
	store.streaks[1] = &Streak{UserID: 1, CurrentStreak: 9, LastReviewAt: &longAgo}
	store.streaks[2] = &Streak{UserID: 2, CurrentStreak: 9, LastReviewAt: &recent}
	store.streaks[3] = &Streak{UserID: 3, CurrentStreak: 9, QuotaCompletedToday: true}
	store.streaks[4] = &Streak{UserID: 4, CurrentStreak: 9, ReminderSentToday: true}
	store.streaks[5] = &Streak{UserID: 5, CurrentStreak: 3}
	store.streaks[6] = &Streak{UserID: 6, CurrentStreak: 7, ReviewsToday: 2}

	svc := NewService(store, testConfig(), func() time.Time { return now })
	notifier := &recordingNotifier{}

	if err := svc.SendReminders(context.Background(), notifier); err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if len(notifier.sent) != 2 {
		t.Fatalf("expected reminders for users 1 and 6, got %v", notifier.sent)
	}
	if got := notifier.sent[6]; got != "⚠️ Your ghost is 7 days old! Review 1 card today to keep your streak alive." {
		t.Fatalf("unexpected reminder text: %q", got)
	}
	if !store.reminders[1] || !store.reminders[6] || store.reminders[2] {
		t.Fatalf("unexpected reminder marks: %v", store.reminders)
	}

	// повторный запуск в тот же день ничего не шлёт
	notifier.sent = nil
	if err := svc.SendReminders(context.Background(), notifier); err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("expected no repeated reminders, got %v", notifier.sent)
	}
}

func TestSendReminders_FailedSendNotMarked(t *testing.T) {
	store := newFakeStore()
	store.streaks[1] = &Streak{UserID: 1, CurrentStreak: 10}
	svc := NewService(store, testConfig(), nil)

	err := svc.SendReminders(context.Background(), &recordingNotifier{err: common.ErrNoTelegramChat})
	if err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if store.streaks[1].ReminderSentToday {
		t.Fatal("reminder should not be marked when delivery failed")
	}
}

func TestHistory(t *testing.T) {
	store := newFakeStore()
	store.streaks[1] = &Streak{UserID: 1, CurrentStreak: 2, LongestStreak: 9}
	store.past = []PastStreak{
		{UserID: 1, StreakLength: 9, StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 9)},
		{UserID: 2, StreakLength: 4, StartDate: date(2024, 1, 1), EndDate: date(2024, 1, 4)},
		{UserID: 1, StreakLength: 3, StartDate: date(2024, 2, 1), EndDate: date(2024, 2, 3)},
	}
	svc := NewService(store, testConfig(), nil)

	h, err := svc.History(context.Background(), 1)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if h.Current != 2 || h.Longest != 9 || len(h.PastStreaks) != 2 {
		t.Fatalf("unexpected history: %+v", h)
	}
	if h.PastStreaks[0].StreakLength != 9 || h.PastStreaks[1].StreakLength != 3 {
		t.Fatalf("history order changed: %+v", h.PastStreaks)
	}

	empty, err := svc.History(context.Background(), 42)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if empty.PastStreaks == nil || empty.Current != 0 || empty.Longest != 0 {
		t.Fatalf("unexpected empty history: %+v", empty)
	}
}

func TestGetStatus(t *testing.T) {
	store := newFakeStore()
	store.streaks[1] = &Streak{UserID: 1, CurrentStreak: 4, LongestStreak: 6, ReviewsToday: 1}
	svc := NewService(store, testConfig(), nil)

	st, err := svc.GetStatus(context.Background(), 1)
	if err != nil {
		t.Fatalf("GetStatus: %v", err)
	}
	if st.Remaining != 2 || st.ReviewsNeed != 3 || st.Current != 4 {
		t.Fatalf("unexpected status: %+v", st)
	}
}
