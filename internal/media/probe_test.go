package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "00:00", FormatDuration(0))
	assert.Equal(t, "00:42", FormatDuration(42.7))
	assert.Equal(t, "03:05", FormatDuration(185))
	assert.Equal(t, "1:01:01", FormatDuration(3661))
	assert.Equal(t, "2:00:00", FormatDuration(7200))
}
