package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewAndWrap(t *testing.T) {
	base := New(CodeConflict, "wallet already registered")
	assert.Equal(t, "wallet already registered", base.Error())
	assert.Equal(t, CodeConflict, CodeOf(base))

	cause := errors.New("pq: duplicate key")
	wrapped := Wrap(cause, CodeDependency, "failed to create profile")
	assert.Equal(t, "failed to create profile: pq: duplicate key", wrapped.Error())
	assert.ErrorIs(t, wrapped, cause)
}

func TestHasCodeWalksChain(t *testing.T) {
	inner := New(CodeConflict, "wallet already registered")
	outer := Wrap(inner, CodeDependency, "registration failed")

	assert.True(t, HasCode(outer, CodeDependency))
	assert.True(t, HasCode(outer, CodeConflict))
	assert.False(t, HasCode(outer, CodeNotFound))
	assert.False(t, HasCode(nil, CodeConflict))
}

func TestHasCodeThroughForeignWrapping(t *testing.T) {
	inner := New(CodeNotFound, "profile not found")
	outer := fmt.Errorf("loading: %w", inner)

	assert.True(t, HasCode(outer, CodeNotFound))
}

func TestCodeOfUncoded(t *testing.T) {
	assert.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
	assert.Equal(t, "internal error", MessageOf(errors.New("boom")))
}

func TestMessageOf(t *testing.T) {
	err := Wrap(errors.New("socket closed"), CodeDependency, "identity provider unreachable")
	assert.Equal(t, "identity provider unreachable", MessageOf(err))
}
