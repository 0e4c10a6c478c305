package policy_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/portal-comunitario-api/internal/domain"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/entity"
	"github.com/jhoicas/portal-comunitario-api/internal/domain/policy"
)

func TestReviewAccessRequest_SoloDesdePending(t *testing.T) {
	next, err := policy.ReviewAccessRequest(policy.RequestPending, policy.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, policy.RequestApproved, next)

	next, err = policy.ReviewAccessRequest("", policy.DecisionReject)
	require.NoError(t, err, "un estado vacío cuenta como pendiente")
	assert.Equal(t, policy.RequestRejected, next)

	for _, from := range []string{policy.RequestApproved, policy.RequestRejected} {
		for _, d := range []policy.Decision{policy.DecisionApprove, policy.DecisionReject} {
			_, err := policy.ReviewAccessRequest(from, d)
			assert.ErrorIs(t, err, domain.ErrAlreadyProcessed, "%s -> %s", from, d)
		}
	}
}

func TestReviewSecurity_AprobarDejaActive(t *testing.T) {
	next, err := policy.ReviewSecurity(policy.SecurityPending, policy.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, policy.SecurityActive, next)

	_, err = policy.ReviewSecurity(policy.SecurityActive, policy.DecisionReject)
	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
}

func TestCanEditSecurityNotes(t *testing.T) {
	assert.NoError(t, policy.CanEditSecurityNotes(policy.SecurityRejected))
	assert.ErrorIs(t, policy.CanEditSecurityNotes(policy.SecurityActive), domain.ErrNotesLocked)
	assert.ErrorIs(t, policy.CanEditSecurityNotes(policy.SecurityPending), domain.ErrNotesLocked)
}

func TestNextEventStatus_NoDependeDelOrigen(t *testing.T) {
	cases := map[policy.EventAction]string{
		policy.EventActionConfirm: policy.EventConfirmed,
		policy.EventActionBlock:   policy.EventBlocked,
		policy.EventActionUnblock: policy.EventConfirmed,
	}
	for action, want := range cases {
		got, err := policy.NextEventStatus(action)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := policy.NextEventStatus("archive")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCanCancelEvent(t *testing.T) {
	assert.NoError(t, policy.CanCancelEvent(policy.EventPending))
	assert.NoError(t, policy.CanCancelEvent(policy.EventConfirmed))
	assert.ErrorIs(t, policy.CanCancelEvent(policy.EventBlocked), domain.ErrConflict)
	assert.ErrorIs(t, policy.CanCancelEvent(policy.EventCancelled), domain.ErrConflict)
}

func TestGrantActive(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	assert.True(t, policy.GrantActive(entity.CameraGrant{}, now), "sin vencimiento")
	assert.True(t, policy.GrantActive(entity.CameraGrant{ExpiresAt: &future}, now))
	assert.False(t, policy.GrantActive(entity.CameraGrant{ExpiresAt: &past}, now))
	assert.False(t, policy.GrantActive(entity.CameraGrant{ExpiresAt: &now}, now), "vence en el instante exacto")
}
