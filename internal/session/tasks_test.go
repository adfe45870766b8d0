package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStopAllRunsInReverseOrder(t *testing.T) {
	var tasks Tasks
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		tasks.Add(func() { order = append(order, i) })
	}

	tasks.StopAll()
	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestStopAllRunsOnce(t *testing.T) {
	var tasks Tasks
	calls := 0
	tasks.Add(func() { calls++ })

	tasks.StopAll()
	tasks.StopAll()
	assert.Equal(t, 1, calls)
}

func TestStopAllEmpty(t *testing.T) {
	var tasks Tasks
	tasks.StopAll()
}
