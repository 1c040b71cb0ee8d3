package compliance_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/tacho-tracker/internal/compliance"
	"github.com/Tiliavir/tacho-tracker/internal/model"
)

func TestValidateAcceptsContiguousDay(t *testing.T) {
	events, _ := day(span{model.StatusDrive, 60}, span{model.StatusRest, 45})
	assert.NoError(t, compliance.Validate(events))
	assert.NoError(t, compliance.Validate(nil))
}

func TestValidateReportsEveryProblem(t *testing.T) {
	events, _ := day(span{model.StatusDrive, 60}, span{model.StatusRest, 45}, span{model.StatusWork, 10})
	before := events[0].Start.Add(-time.Minute)
	events[0].End = &before
	events[1].DurationMinutes = -5
	events[2].Kind = "Ferry"
	events[2].Start = events[2].Start.Add(time.Minute)

	err := compliance.Validate(events)
	require.Error(t, err)
	assert.True(t, errors.Is(err, compliance.ErrEndBeforeStart))
	assert.True(t, errors.Is(err, compliance.ErrNegativeDuration))
	assert.True(t, errors.Is(err, compliance.ErrUnknownKind))
	assert.True(t, errors.Is(err, compliance.ErrNotContiguous))
}

func TestValidateOutOfOrder(t *testing.T) {
	events, _ := day(span{model.StatusDrive, 60}, span{model.StatusRest, 45})
	events[0], events[1] = events[1], events[0]
	assert.ErrorIs(t, compliance.Validate(events), compliance.ErrOutOfOrder)
}
