package diag_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/knitgraph/compiler/diag"
)

func TestSideOtherInvolution(t *testing.T) {
	assert.Equal(t, diag.Back, diag.Front.Other())
	assert.Equal(t, diag.Front, diag.Back.Other())
	assert.Equal(t, diag.Both, diag.Both.Other())
}

func TestSeverityOfMatchesTheFixedTable(t *testing.T) {
	cases := map[diag.Kind]diag.Severity{
		diag.KindTooManyCourseNeighbors:  diag.SeverityFatal,
		diag.KindOverlappingStitch:       diag.SeverityError,
		diag.KindUndefinedCourseDirection: diag.SeverityWarning,
		diag.KindOptimizerNonconvergence: diag.SeverityNotice,
	}
	for k, want := range cases {
		assert.Equal(t, want, diag.SeverityOf(k), "kind %s", k)
	}
}

func TestSeverityOfDefaultsToErrorForUnknownKind(t *testing.T) {
	assert.Equal(t, diag.SeverityError, diag.SeverityOf(diag.Kind("made-up")))
}

func TestNewDerivesSeverityAndSentinelError(t *testing.T) {
	e := diag.New(diag.KindNoContinuityPath, 3, 1, diag.Back, "no path")
	assert.Equal(t, diag.SeverityFatal, e.Severity)
	assert.Equal(t, 3, e.Time)
	assert.Equal(t, 1, e.Index)
	assert.Equal(t, diag.Back, e.Side)
	assert.ErrorIs(t, e.Err, diag.ErrNoContinuityPath)
}

func TestWithFlowAndWithGroupCopyRatherThanMutate(t *testing.T) {
	base := diag.New(diag.KindKnitOverMisses, 0, 0, diag.Front, "m")
	withFlow := base.WithFlow("flow-marker")
	withGroup := base.WithGroup("panel-a")

	assert.Nil(t, base.Flow)
	assert.Empty(t, base.Group)
	assert.Equal(t, "flow-marker", withFlow.Flow)
	assert.Equal(t, "panel-a", withGroup.Group)
}

func TestFatalWrapsSentinelWithContextButPreservesErrorsIs(t *testing.T) {
	err := diag.Fatal(diag.KindSuspendedAtEnd, "builder.Build")
	require.Error(t, err)
	assert.True(t, errors.Is(err, diag.ErrSuspendedAtEnd))
	assert.Contains(t, err.Error(), "builder.Build")
}

func TestErrOfReturnsNilForUnknownKind(t *testing.T) {
	assert.Nil(t, diag.ErrOf(diag.Kind("made-up")))
}
