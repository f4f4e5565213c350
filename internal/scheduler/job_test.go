package scheduler

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobHistory_KeepsLast100(t *testing.T) {
	history := &JobHistory{}

	for i := 0; i < 150; i++ {
		history.AddResult(JobResult{
			JobName:   "daily_scan",
			StartTime: time.Now(),
			Success:   i%2 == 0,
		})
	}

	assert.Len(t, history.Results, 100)
}

func TestJobHistory_SuccessRate(t *testing.T) {
	history := &JobHistory{}
	assert.Equal(t, 0.0, history.SuccessRate())

	history.AddResult(JobResult{Success: true})
	history.AddResult(JobResult{Success: true})
	history.AddResult(JobResult{Success: false})

	assert.InDelta(t, 2.0/3.0, history.SuccessRate(), 1e-9)
}

func TestJobHistory_LastResult(t *testing.T) {
	history := &JobHistory{}

	_, ok := history.LastResult()
	assert.False(t, ok)

	for i := 0; i < 3; i++ {
		history.AddResult(JobResult{JobName: fmt.Sprintf("job_%d", i)})
	}

	last, ok := history.LastResult()
	require.True(t, ok)
	assert.Equal(t, "job_2", last.JobName)
}
