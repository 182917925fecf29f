package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-resources/internal/model"
)

func TestStatusService_GetSystemStatus(t *testing.T) {
	db := newTestDB(t)
	createUser(t, db, "a@example.com")
	createUser(t, db, "b@example.com")
	for i, st := range []model.ResourceStatus{model.StatusPending, model.StatusPending, model.StatusApproved, model.StatusRejected} {
		createResource(t, db, model.Resource{Title: "r", Category: "c", URL: "https://example.com/" + string(rune('a'+i)), Status: st})
	}

	status, err := NewStatusService(db).GetSystemStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), status.TotalResources)
	assert.Equal(t, int64(2), status.PendingResources)
	assert.Equal(t, int64(1), status.ApprovedResources)
	assert.Equal(t, int64(1), status.RejectedResources)
	assert.Equal(t, int64(2), status.TotalUsers)
}
