package sl_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rackethub/club-organizer/internal/lib/sl"
)

func TestErr(t *testing.T) {
	attr := sl.Err(errors.New("connection refused"))

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, "connection refused", attr.Value.String())
}

func TestErr_WrappedError(t *testing.T) {
	err := fmt.Errorf("club.Create: %w", errors.New("quota exceeded"))
	attr := sl.Err(err)

	assert.Equal(t, "club.Create: quota exceeded", attr.Value.String())
}
