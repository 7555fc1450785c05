// Package approval checks the shared operator secrets that unlock
// privileged workspace operations.
package approval

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/stockbook/internal/core/apperror"
)

// Action names a privileged operation.
type Action string

const (
	ActionItemEdit   Action = "item-edit"
	ActionItemDelete Action = "item-delete"
	ActionReset      Action = "reset"
	ActionSpoilage   Action = "spoilage"
)

// Gate holds bcrypt hashes of the configured secrets.
type Gate struct {
	hashes map[Action][]byte
}

// NewGate hashes the privileged secret (item edit, item delete, reset) and the
// spoilage secret.
func NewGate(privileged, spoilage string) (*Gate, error) {
	privHash, err := hash(privileged)
	if err != nil {
		return nil, fmt.Errorf("hash privileged password: %w", err)
	}
	spoilHash, err := hash(spoilage)
	if err != nil {
		return nil, fmt.Errorf("hash spoilage password: %w", err)
	}

	return &Gate{hashes: map[Action][]byte{
		ActionItemEdit:   privHash,
		ActionItemDelete: privHash,
		ActionReset:      privHash,
		ActionSpoilage:   spoilHash,
	}}, nil
}

// hash trims secret the same way Authorize trims its input.
func hash(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, fmt.Errorf("secret must not be empty")
	}
	return bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
}

// Authorize returns AuthorizationDenied unless secret matches the action's hash.
func (g *Gate) Authorize(action Action, secret string) error {
	input := strings.TrimSpace(secret)
	h, ok := g.hashes[action]
	if !ok || input == "" {
		return apperror.NewAuthorizationDenied(string(action))
	}
	if bcrypt.CompareHashAndPassword(h, []byte(input)) != nil {
		return apperror.NewAuthorizationDenied(string(action))
	}
	return nil
}
