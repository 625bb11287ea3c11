package invitations

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_EffectiveStatus_DerivesExpiryFromTime(t *testing.T) {
	pending := &Invitation{
		Status:    InvitationStatusPending,
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}
	assert.Equal(t, InvitationStatusPending, pending.EffectiveStatus())

	lapsed := &Invitation{
		Status:    InvitationStatusPending,
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}
	assert.Equal(t, InvitationStatusExpired, lapsed.EffectiveStatus())

	// Acceptance is terminal; a past expiry does not undo it.
	accepted := &Invitation{
		Status:    InvitationStatusAccepted,
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	assert.Equal(t, InvitationStatusAccepted, accepted.EffectiveStatus())
}
