package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "sunset", escapeLike("sunset"))
	assert.Equal(t, `100\%`, escapeLike("100%"))
	assert.Equal(t, `kiln\_01`, escapeLike("kiln_01"))
	assert.Equal(t, `a\\b`, escapeLike(`a\b`))
}
