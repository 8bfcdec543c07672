package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/akyairhashvil/streakboard/internal/models"
	"github.com/akyairhashvil/streakboard/internal/testutil"
	"github.com/akyairhashvil/streakboard/internal/util"
)

var base = testutil.Epoch

func dueIn(id string, d time.Duration) models.Task {
	return testutil.NewTask().WithID(id).WithTitle("Task " + id).WithDue(base.Add(d)).Build()
}

func TestKindFor(t *testing.T) {
	tests := []struct {
		minutes float64
		want    Kind
		ok      bool
	}{
		{45, "", false},
		{30.5, "", false},
		{30, KindThirtyMinuteWarning, true},
		{0.01, KindThirtyMinuteWarning, true},
		{0, KindDueNow, true},
		{-0.99, KindDueNow, true},
		{-1, KindJustOverdue, true},
		{-1.99, KindJustOverdue, true},
		{-2, "", false},
		{-90, "", false},
	}
	for _, tc := range tests {
		got, ok := KindFor(tc.minutes)
		if got != tc.want || ok != tc.ok {
			t.Errorf("KindFor(%v) = %q,%v want %q,%v", tc.minutes, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCheck_FortyFiveThenTwentyFive(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := NewMockNotifier(ctrl)
	notifier.EXPECT().Permission().Return(PermissionDefault).Times(1)

	s := NewScheduler(notifier, NewToastQueue(0), zap.NewNop())
	task := dueIn("a", 45*time.Minute)

	if fired := s.Check(context.Background(), base, []models.Task{task}); len(fired) != 0 {
		t.Fatalf("45 minutes out should not fire, got %+v", fired)
	}
	fired := s.Check(context.Background(), base.Add(20*time.Minute), []models.Task{task})
	if len(fired) != 1 || fired[0].Kind != KindThirtyMinuteWarning || fired[0].TaskID != "a" {
		t.Fatalf("expected one thirty-minute warning, got %+v", fired)
	}
	if s.Toasts().Len() != 1 {
		t.Fatalf("expected one toast, got %d", s.Toasts().Len())
	}
}

func TestCheck_FiresOncePerPair(t *testing.T) {
	s := NewScheduler(nil, nil, nil)
	task := dueIn("a", 25*time.Minute)
	total := 0
	for i := 0; i < 10; i++ {
		total += len(s.Check(context.Background(), base.Add(time.Duration(i)*time.Minute), []models.Task{task}))
	}
	if total != 1 {
		t.Fatalf("pair fired %d times, want 1", total)
	}
	if !s.Fired("a", KindThirtyMinuteWarning) {
		t.Fatalf("pair not marked")
	}
}

func TestCheck_WalksEveryKind(t *testing.T) {
	s := NewScheduler(nil, nil, nil)
	task := dueIn("a", 10*time.Minute)
	var kinds []Kind
	for m := 0; m <= 15; m++ {
		for _, n := range s.Check(context.Background(), base.Add(time.Duration(m)*time.Minute), []models.Task{task}) {
			kinds = append(kinds, n.Kind)
		}
	}
	if len(kinds) != 3 || kinds[0] != KindThirtyMinuteWarning || kinds[1] != KindDueNow || kinds[2] != KindJustOverdue {
		t.Fatalf("unexpected sequence %v", kinds)
	}
}

func TestCheck_SkipsDoneAndUndated(t *testing.T) {
	s := NewScheduler(nil, nil, nil)
	done := testutil.NewTask().WithID("d").WithDue(base.Add(5 * time.Minute)).CompletedAt(base).Build()
	undated := testutil.NewTask().WithID("u").Build()
	if fired := s.Check(context.Background(), base, []models.Task{done, undated}); len(fired) != 0 {
		t.Fatalf("expected nothing, got %+v", fired)
	}
}

func TestCheck_GrantedShowsOSNotification(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := NewMockNotifier(ctrl)
	notifier.EXPECT().Permission().Return(PermissionGranted)
	notifier.EXPECT().Show(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n Notification) error {
		if n.Tag != "a:due-now" || !n.RequireInteraction {
			t.Errorf("unexpected notification %+v", n)
		}
		return nil
	})
	s := NewScheduler(notifier, nil, zap.NewNop())
	s.Check(context.Background(), base, []models.Task{dueIn("a", 0)})
}

func TestCheck_OSFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := NewMockNotifier(ctrl)
	notifier.EXPECT().Permission().Return(PermissionGranted)
	notifier.EXPECT().Show(gomock.Any(), gomock.Any()).Return(errors.New("dbus gone"))

	core, logs := observer.New(zap.WarnLevel)
	s := NewScheduler(notifier, nil, zap.New(core))
	fired := s.Check(context.Background(), base, []models.Task{dueIn("a", 10*time.Minute)})
	if len(fired) != 1 || s.Toasts().Len() != 1 {
		t.Fatalf("toast must still fire when the OS fails")
	}
	if logs.FilterMessage("os_notification_failed").Len() != 1 {
		t.Fatalf("expected failure to be logged")
	}
}

func TestCheck_NoOSCallWithoutPermission(t *testing.T) {
	for _, p := range []Permission{PermissionDenied, PermissionDefault, PermissionUnsupported} {
		ctrl := gomock.NewController(t)
		notifier := NewMockNotifier(ctrl)
		notifier.EXPECT().Permission().Return(p)
		s := NewScheduler(notifier, nil, nil)
		s.Check(context.Background(), base, []models.Task{dueIn("a", 10*time.Minute)})
	}
}

func TestCheck_DueDateChangeRearms(t *testing.T) {
	s := NewScheduler(nil, nil, nil)
	task := dueIn("a", 10*time.Minute)
	if n := len(s.Check(context.Background(), base, []models.Task{task})); n != 1 {
		t.Fatalf("first check fired %d", n)
	}
	moved := dueIn("a", 20*time.Minute)
	if n := len(s.Check(context.Background(), base, []models.Task{moved})); n != 1 {
		t.Fatalf("moved due date should re-arm, fired %d", n)
	}
	if n := len(s.Check(context.Background(), base, []models.Task{moved})); n != 0 {
		t.Fatalf("same due date must not re-fire, fired %d", n)
	}
}

func TestForget(t *testing.T) {
	s := NewScheduler(nil, nil, nil)
	task := dueIn("a", 10*time.Minute)
	s.Check(context.Background(), base, []models.Task{task})
	s.Forget("a")
	if s.Fired("a", KindThirtyMinuteWarning) {
		t.Fatalf("Forget should clear the pair")
	}
}

func TestSchedulersAreIndependent(t *testing.T) {
	a := NewScheduler(nil, nil, nil)
	b := NewScheduler(nil, nil, nil)
	task := dueIn("x", 10*time.Minute)
	a.Check(context.Background(), base, []models.Task{task})
	if n := len(b.Check(context.Background(), base, []models.Task{task})); n != 1 {
		t.Fatalf("second scheduler must not see the first one's state")
	}
}

func TestRun_ChecksOnStartAndNudge(t *testing.T) {
	clock := util.NewManualClock(base)
	s := NewScheduler(nil, nil, nil, WithClock(clock), WithInterval(time.Hour))

	tasks := make(chan []models.Task, 4)
	tasks <- nil
	source := func() []models.Task {
		select {
		case list := <-tasks:
			return list
		default:
			return nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, source) }()

	tasks <- []models.Task{dueIn("a", 5*time.Minute)}
	deadline := time.After(2 * time.Second)
	for s.Toasts().Len() == 0 {
		s.Nudge()
		select {
		case <-deadline:
			t.Fatalf("nudge did not trigger a check")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run returned %v", err)
	}
}
