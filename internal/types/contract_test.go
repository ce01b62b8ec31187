package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContractStatusTransitions(t *testing.T) {
	assert.True(t, ContractStatusActive.CanTransitionTo(ContractStatusExpired))
	assert.True(t, ContractStatusActive.CanTransitionTo(ContractStatusTerminated))

	// Terminal states have no exits
	assert.False(t, ContractStatusExpired.CanTransitionTo(ContractStatusActive))
	assert.False(t, ContractStatusExpired.CanTransitionTo(ContractStatusTerminated))
	assert.False(t, ContractStatusTerminated.CanTransitionTo(ContractStatusActive))
	assert.False(t, ContractStatusTerminated.CanTransitionTo(ContractStatusExpired))

	// Writing the current status again is a valid no-op
	assert.True(t, ContractStatusActive.CanTransitionTo(ContractStatusActive))
	assert.True(t, ContractStatusExpired.CanTransitionTo(ContractStatusExpired))
}

func TestContractStatusIsTerminal(t *testing.T) {
	assert.False(t, ContractStatusActive.IsTerminal())
	assert.True(t, ContractStatusExpired.IsTerminal())
	assert.True(t, ContractStatusTerminated.IsTerminal())
}

func TestContractStatusValidate(t *testing.T) {
	assert.NoError(t, ContractStatusActive.Validate())
	assert.Error(t, ContractStatus("PAUSED").Validate())
}

func TestPayoutTypeValidate(t *testing.T) {
	assert.NoError(t, PayoutTypeMonthly.Validate())
	assert.NoError(t, PayoutTypeYearly.Validate())
	assert.Error(t, PayoutType("WEEKLY").Validate())
}
