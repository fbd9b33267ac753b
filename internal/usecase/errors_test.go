package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRefusal(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRefusal(ErrNotFreeAgent))
	assert.True(t, IsRefusal(fmt.Errorf("propose: %w", ErrCapacityExceeded)))
	assert.False(t, IsRefusal(persistenceErr("insert offer", errors.New("disk full"))))
	assert.False(t, IsRefusal(membershipErr("grant roles", errors.New("502"))))
	assert.False(t, IsRefusal(nil))
}
