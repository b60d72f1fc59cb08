package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyVerification(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	p := &Profile{WalletAddress: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}

	assert.True(t, p.ApplyVerification(true, now))
	assert.True(t, p.WalletVerified)
	if assert.NotNil(t, p.WalletVerifiedAt) {
		assert.Equal(t, now, *p.WalletVerifiedAt)
	}

	// Same state again is a no-op.
	assert.False(t, p.ApplyVerification(true, now.Add(time.Hour)))
	assert.Equal(t, now, *p.WalletVerifiedAt)

	assert.True(t, p.ApplyVerification(false, now.Add(time.Hour)))
	assert.False(t, p.WalletVerified)
	assert.Nil(t, p.WalletVerifiedAt)

	assert.False(t, p.ApplyVerification(false, now))
}

func TestApplyWalletBindingReverifies(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	p := &Profile{
		WalletAddress:  "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		WalletVerified: false,
	}

	p.ApplyWalletBinding("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", now)

	assert.Equal(t, "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", p.WalletAddress)
	assert.True(t, p.WalletVerified)
	if assert.NotNil(t, p.WalletVerifiedAt) {
		assert.Equal(t, now, *p.WalletVerifiedAt)
	}
}
