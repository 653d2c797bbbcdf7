package sheet

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-scheduler/internal/model"
)

func TestCommunicationRepositoryEmptyLog(t *testing.T) {
	repo := NewCommunicationRepository(filepath.Join(t.TempDir(), "communications_log.csv"), nil)

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCommunicationRepositoryAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "communications_log.csv")
	repo := NewCommunicationRepository(path, nil)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &model.CommunicationRecord{
		Timestamp: "2024-06-01T10:15:00",
		Channel:   model.ChannelEmail,
		To:        "aarav.patel@example.com",
		Subject:   "Appointment Confirmation",
		Message:   "Your appointment is confirmed.",
		BookingID: "ab12cd34",
	}))
	require.NoError(t, repo.Append(ctx, &model.CommunicationRecord{
		Timestamp: "2024-06-01T10:15:01",
		Channel:   model.ChannelSMS,
		To:        "5550100001",
		Subject:   "Appointment Confirmation",
		Message:   "Reply YES to confirm.",
		BookingID: "ab12cd34",
	}))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, model.ChannelEmail, records[0].Channel)
	assert.Equal(t, model.ChannelSMS, records[1].Channel)
	assert.Equal(t, "ab12cd34", records[1].BookingID)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "timestamp,"))
}
