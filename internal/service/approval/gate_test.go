package approval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
)

func TestAuthorize(t *testing.T) {
	gate, err := NewGate("admin-secret", "spoil-secret")
	require.NoError(t, err)

	tests := []struct {
		name    string
		action  Action
		secret  string
		allowed bool
	}{
		{name: "reset with privileged", action: ActionReset, secret: "admin-secret", allowed: true},
		{name: "delete with privileged", action: ActionItemDelete, secret: " admin-secret ", allowed: true},
		{name: "spoilage with spoilage", action: ActionSpoilage, secret: "spoil-secret", allowed: true},
		{name: "spoilage with privileged", action: ActionSpoilage, secret: "admin-secret"},
		{name: "edit with wrong secret", action: ActionItemEdit, secret: "nope"},
		{name: "empty secret", action: ActionReset, secret: ""},
		{name: "unknown action", action: Action("drop"), secret: "admin-secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := gate.Authorize(tt.action, tt.secret)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperror.HasCode(err, apperror.CodeAuthorizationDenied))
		})
	}
}

func TestNewGateRejectsEmptySecrets(t *testing.T) {
	_, err := NewGate("", "x")
	assert.Error(t, err)
}

func TestConfiguredSecretsAreTrimmed(t *testing.T) {
	gate, err := NewGate(" admin-secret\n", "\tspoil-secret ")
	require.NoError(t, err)

	assert.NoError(t, gate.Authorize(ActionReset, "admin-secret"))
	assert.NoError(t, gate.Authorize(ActionItemEdit, " admin-secret\n"))
	assert.NoError(t, gate.Authorize(ActionSpoilage, "spoil-secret"))

	_, err = NewGate("   ", "x")
	assert.Error(t, err)
}
