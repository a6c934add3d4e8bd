package sl_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/coach-platform/internal/lib/sl"
)

func TestErr(t *testing.T) {
	err := errors.New("store unavailable")
	attr := sl.Err(err)

	assert.Equal(t, "error", attr.Key)
	assert.Equal(t, slog.StringValue("store unavailable"), attr.Value)
}
