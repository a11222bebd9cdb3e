package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"gatekeeper/internal/gate/models"
)

func TestFileStoreAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verifications.log")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	ts := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Append(ctx, models.AuditRecord{
		Timestamp: ts,
		Outcome:   models.OutcomeSuccess,
		User:      models.User{ID: 555, Handle: "bob"},
		Detail:    "user @bob (ID: 555) verified",
	}))
	require.NoError(t, store.Append(ctx, models.AuditRecord{
		Timestamp: ts.Add(time.Minute),
		Outcome:   models.OutcomeWarning,
		User:      models.User{ID: 556},
		Detail:    "user 556 (ID: 556) verified but not removed",
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t,
		"2025-06-01T12:00:00Z - Success: user @bob (ID: 555) verified\n"+
			"2025-06-01T12:01:00Z - Warning: user 556 (ID: 556) verified but not removed\n",
		string(data))
}

func TestFileStoreReopensExistingLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "verifications.log")
	ctx := context.Background()
	rec := models.AuditRecord{
		Timestamp: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Outcome:   models.OutcomeError,
		Detail:    "something broke",
	}

	first, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Append(ctx, rec))
	require.NoError(t, first.Close())

	// A process restart must append, never truncate.
	second, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, second.Append(ctx, rec))
	require.NoError(t, second.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, rec.Line()+rec.Line(), string(data))
}

type stubMessenger struct {
	mu      sync.Mutex
	chatIDs []int64
	texts   []string
	sendErr error
}

func (m *stubMessenger) SendMessage(_ context.Context, chatID int64, text string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return 0, m.sendErr
	}
	m.chatIDs = append(m.chatIDs, chatID)
	m.texts = append(m.texts, text)
	return len(m.texts), nil
}

func (m *stubMessenger) DeleteMessage(context.Context, int64, int) error { return nil }

func TestOperatorNotifier(t *testing.T) {
	msgr := &stubMessenger{}
	n, err := NewOperatorNotifier(msgr, -403)
	require.NoError(t, err)

	require.NoError(t, n.Notify(context.Background(), "Success: verified"))
	require.Equal(t, []int64{-403}, msgr.chatIDs)
	require.Equal(t, []string{"Success: verified"}, msgr.texts)

	msgr.sendErr = errors.New("blocked")
	require.Error(t, n.Notify(context.Background(), "Error: broke"))
}
