package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapMatchesSentinel(t *testing.T) {
	err := Wrap(ErrProjectNotFound, "project %s not found", "p1")

	assert.True(t, errors.Is(err, ErrProjectNotFound))
	assert.False(t, errors.Is(err, ErrUserNotFound))
	assert.Equal(t, "project p1 not found", err.Error())
}

func TestWrapSurvivesFurtherWrapping(t *testing.T) {
	err := fmt.Errorf("saving: %w", Wrap(ErrDuplicateEmail, "taken"))
	assert.True(t, errors.Is(err, ErrDuplicateEmail))
}
