package availability

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert.True(t, Ready().IsReady())
	assert.Equal(t, "ready", Ready().String())

	s := Unavailable("missing key")
	assert.False(t, s.IsReady())
	assert.Equal(t, "missing key", s.Reason())
	assert.Equal(t, "unavailable: missing key", s.String())

	// The zero value is never ready.
	assert.False(t, Status{}.IsReady())
	assert.Equal(t, "not initialized", Unavailable("").Reason())
}

func TestFromError(t *testing.T) {
	assert.True(t, FromError(nil).IsReady())
	s := FromError(errors.New("dial tcp: refused"))
	assert.False(t, s.IsReady())
	assert.Equal(t, "dial tcp: refused", s.Reason())
}

func TestAll(t *testing.T) {
	assert.True(t, All().IsReady())
	assert.True(t, All(Ready(), Ready()).IsReady())

	s := All(Ready(), Unavailable("first"), Unavailable("second"))
	assert.False(t, s.IsReady())
	assert.Equal(t, "first", s.Reason())
}
