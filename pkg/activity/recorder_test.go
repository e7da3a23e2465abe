package activity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/activity"
	"github.com/Ramsey-B/clover/pkg/models"
)

type fakeActivityRepo struct {
	entries   []models.ActivityEntry
	insertErr error
}

func (f *fakeActivityRepo) Insert(_ context.Context, entry *models.ActivityEntry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeActivityRepo) ListRecent(_ context.Context, limit int) ([]models.ActivityEntry, error) {
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], nil
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestRecorder_Record(t *testing.T) {
	repo := &fakeActivityRepo{}
	recorder := activity.NewRecorder(repo, nil, noopLogger())

	agentID := uuid.New()
	recorder.Record(context.Background(), &agentID, "Scout", "Workflow created", models.ActivitySuccess)

	require.Len(t, repo.entries, 1)
	entry := repo.entries[0]
	assert.Equal(t, agentID, *entry.AgentID)
	assert.Equal(t, "Scout", entry.AgentName)
	assert.Equal(t, "Workflow created", entry.Message)
	assert.Equal(t, models.ActivitySuccess, entry.EventType)
}

func TestRecorder_DefaultsEventType(t *testing.T) {
	repo := &fakeActivityRepo{}
	recorder := activity.NewRecorder(repo, nil, noopLogger())

	recorder.Record(context.Background(), nil, "System", "Startup complete", "")

	require.Len(t, repo.entries, 1)
	assert.Equal(t, models.ActivityInfo, repo.entries[0].EventType)
	assert.Nil(t, repo.entries[0].AgentID)
}

func TestRecorder_SwallowsInsertError(t *testing.T) {
	repo := &fakeActivityRepo{insertErr: errors.New("connection refused")}
	recorder := activity.NewRecorder(repo, nil, noopLogger())

	// Must not panic or propagate the failure.
	recorder.Error(context.Background(), nil, "System", "Something broke")
	assert.Empty(t, repo.entries)
}

func TestRecorder_Helpers(t *testing.T) {
	repo := &fakeActivityRepo{}
	recorder := activity.NewRecorder(repo, nil, noopLogger())
	ctx := context.Background()

	recorder.Success(ctx, nil, "A", "ok")
	recorder.Info(ctx, nil, "A", "fyi")
	recorder.Warning(ctx, nil, "A", "careful")
	recorder.Error(ctx, nil, "A", "boom")

	require.Len(t, repo.entries, 4)
	assert.Equal(t, models.ActivitySuccess, repo.entries[0].EventType)
	assert.Equal(t, models.ActivityInfo, repo.entries[1].EventType)
	assert.Equal(t, models.ActivityWarning, repo.entries[2].EventType)
	assert.Equal(t, models.ActivityError, repo.entries[3].EventType)
}
