package scoringqueue

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/fantasy-frolf-bot/app/events"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQueue struct {
	QueueService
	scheduled []ScoringRefreshJob
	at        []time.Time
	cancelled []string
}

func (f *fakeQueue) ScheduleRefresh(_ context.Context, job ScoringRefreshJob, at time.Time) error {
	f.scheduled = append(f.scheduled, job)
	f.at = append(f.at, at)
	return nil
}

func (f *fakeQueue) CancelEventJobs(_ context.Context, eventName string) error {
	f.cancelled = append(f.cancelled, eventName)
	return nil
}

func completedMessage(t *testing.T, eventName string, final bool) *message.Message {
	t.Helper()
	data, err := json.Marshal(events.ScoringRunCompletedPayloadV1{
		EventName: eventName,
		Final:     final,
	})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), data)
}

func TestRefresher_HandleScoringRunCompleted(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	base := time.Date(2026, time.April, 18, 12, 0, 0, 0, time.UTC)

	t.Run("live run schedules the next refresh", func(t *testing.T) {
		queue := &fakeQueue{}
		r := NewRefresher(queue, 15*time.Minute, logger)
		r.now = func() time.Time { return base }

		require.NoError(t, r.HandleScoringRunCompleted(completedMessage(t, "Jonesboro Open", false)))

		require.Len(t, queue.scheduled, 1)
		assert.Equal(t, ScoringRefreshJob{EventName: "Jonesboro Open"}, queue.scheduled[0])
		assert.Equal(t, base.Add(15*time.Minute), queue.at[0])
		assert.Empty(t, queue.cancelled)
	})

	t.Run("final run cancels pending refreshes", func(t *testing.T) {
		queue := &fakeQueue{}
		r := NewRefresher(queue, 15*time.Minute, logger)

		require.NoError(t, r.HandleScoringRunCompleted(completedMessage(t, "Jonesboro Open", true)))

		assert.Empty(t, queue.scheduled)
		assert.Equal(t, []string{"Jonesboro Open"}, queue.cancelled)
	})

	t.Run("malformed payload errors", func(t *testing.T) {
		r := NewRefresher(&fakeQueue{}, 15*time.Minute, logger)
		err := r.HandleScoringRunCompleted(message.NewMessage(watermill.NewUUID(), []byte("{not json")))
		assert.Error(t, err)
	})
}
