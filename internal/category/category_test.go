package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	for _, c := range []string{"happy", "sad", "laugh", "cry", "questioning"} {
		assert.True(t, IsValid(c), c)
	}

	for _, c := range []string{"", "dance", "Happy", " sad", "happy ", "hap"} {
		assert.False(t, IsValid(c), "%q should be rejected", c)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	assert.Len(t, all, 5)

	all[0] = "dance"
	assert.Equal(t, Happy, All()[0])
	assert.False(t, IsValid("dance"))
}
