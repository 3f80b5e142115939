package queue

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteAuditLine(t *testing.T) {
	var buf bytes.Buffer
	err := WriteAuditLine(&buf, EntityChangedEvent{
		Entity: "product", Action: ActionDeleted, EntityID: 9, ActorID: 1,
		OccurredAt: "2025-01-01T00:00:00Z",
	})
	require.NoError(t, err)
	require.Equal(t, "[2025-01-01T00:00:00Z] product deleted | id=9 | actor_id=1\n", buf.String())
}

func TestHandleAppendsToLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "audit.log")
	c := NewAuditConsumer("amqp://unused", path)

	for _, id := range []uint64{1, 2} {
		body, err := json.Marshal(EntityChangedEvent{Entity: "category", Action: ActionCreated, EntityID: id})
		require.NoError(t, err)
		require.NoError(t, c.handle(body))
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 2, bytes.Count(data, []byte("\n")))

	require.Error(t, c.handle([]byte("{")))
}
