package onboarding

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blastline/console/internal/logging"
)

func newSequencer() *Sequencer {
	return New(logging.NewTestLogger(nil))
}

// advance walks a fresh sequencer up to the given step through the normal
// transitions.
func advance(t *testing.T, s *Sequencer, to Step) {
	t.Helper()
	if to >= StepBusinessInfo {
		s.AccountReady()
	}
	if to >= StepConnect {
		require.NoError(t, s.BeginBusinessSubmit(BusinessInfo{Category: "retail"}))
		s.BusinessSubmitted()
	}
	if to >= StepFinish {
		require.True(t, s.BeginConnect())
		s.ConnectEstablished()
		require.True(t, s.ContinueToFinish())
	}
	require.Equal(t, to, s.Step())
}

func TestHappyPath(t *testing.T) {
	s := newSequencer()
	assert.Equal(t, StepAccount, s.Step())
	assert.Equal(t, ConnIdle, s.Connection())

	s.AccountReady()
	assert.Equal(t, StepBusinessInfo, s.Step())

	require.NoError(t, s.BeginBusinessSubmit(BusinessInfo{Category: "software", Country: "US"}))
	assert.True(t, s.InFlight())
	s.BusinessSubmitted()
	assert.False(t, s.InFlight())
	assert.Equal(t, StepConnect, s.Step())

	require.True(t, s.BeginConnect())
	assert.Equal(t, ConnConnecting, s.Connection())
	s.ConnectEstablished()
	assert.Equal(t, ConnConnected, s.Connection())

	require.True(t, s.ContinueToFinish())
	assert.Equal(t, StepFinish, s.Step())

	require.NoError(t, s.BeginFinish())
	s.FinishSucceeded()
	assert.False(t, s.InFlight())
	assert.Equal(t, StepFinish, s.Step())
}

func TestStepsNeverGoBackwards(t *testing.T) {
	s := newSequencer()
	advance(t, s, StepFinish)

	// Replaying earlier transitions must not rewind the wizard.
	s.AccountReady()
	assert.Equal(t, StepFinish, s.Step())
	assert.ErrorIs(t, s.BeginBusinessSubmit(BusinessInfo{Category: "retail"}), ErrWrongStep)
	s.BusinessSubmitted()
	assert.Equal(t, StepFinish, s.Step())
	assert.False(t, s.BeginConnect())
	assert.False(t, s.ContinueToFinish())
	assert.Equal(t, StepFinish, s.Step())
}

func TestBusinessSubmitValidation(t *testing.T) {
	s := newSequencer()

	err := s.BeginBusinessSubmit(BusinessInfo{Category: "retail"})
	assert.ErrorIs(t, err, ErrWrongStep, "submit before step 2 must be rejected")

	s.AccountReady()
	err = s.BeginBusinessSubmit(BusinessInfo{Country: "US"})
	assert.ErrorIs(t, err, ErrCategoryRequired)
	assert.False(t, s.InFlight())

	require.NoError(t, s.BeginBusinessSubmit(BusinessInfo{Category: "retail"}))
	err = s.BeginBusinessSubmit(BusinessInfo{Category: "retail"})
	assert.ErrorIs(t, err, ErrInFlight, "double submit must be rejected")
}

func TestBusinessSubmitFailureStaysOnStep(t *testing.T) {
	s := newSequencer()
	s.AccountReady()
	require.NoError(t, s.BeginBusinessSubmit(BusinessInfo{Category: "finance"}))

	s.BusinessSubmitFailed(errors.New("422: unknown category"))
	assert.Equal(t, StepBusinessInfo, s.Step())
	assert.False(t, s.InFlight())
	assert.Equal(t, "422: unknown category", s.ErrText())

	// The form is editable again and a retry clears the banner.
	require.NoError(t, s.BeginBusinessSubmit(BusinessInfo{Category: "finance"}))
	assert.Empty(t, s.ErrText())
	s.BusinessSubmitted()
	assert.Equal(t, StepConnect, s.Step())
}

func TestContinueBlockedUntilConnected(t *testing.T) {
	s := newSequencer()
	advance(t, s, StepConnect)

	assert.False(t, s.ContinueToFinish(), "idle channel must not pass")
	require.True(t, s.BeginConnect())
	assert.False(t, s.ContinueToFinish(), "connecting channel must not pass")

	s.ConnectEstablished()
	assert.True(t, s.ContinueToFinish())
	assert.Equal(t, StepFinish, s.Step())
}

func TestBeginConnectOnlyFromIdle(t *testing.T) {
	s := newSequencer()
	advance(t, s, StepConnect)

	require.True(t, s.BeginConnect())
	assert.False(t, s.BeginConnect(), "pairing already started")

	s.ConnectEstablished()
	assert.False(t, s.BeginConnect(), "pairing already done")
	assert.Equal(t, ConnConnected, s.Connection())
}

func TestConnectEstablishedIgnoredWhenNotConnecting(t *testing.T) {
	s := newSequencer()
	advance(t, s, StepConnect)

	s.ConnectEstablished()
	assert.Equal(t, ConnIdle, s.Connection(), "stray confirmation must not connect an idle channel")
}

func TestFinishFailureRetriable(t *testing.T) {
	s := newSequencer()
	advance(t, s, StepFinish)

	require.NoError(t, s.BeginFinish())
	assert.ErrorIs(t, s.BeginFinish(), ErrInFlight)

	s.FinishFailed(errors.New("500: persist failed"))
	assert.Equal(t, StepFinish, s.Step())
	assert.Equal(t, "500: persist failed", s.ErrText())

	require.NoError(t, s.BeginFinish())
	s.FinishSucceeded()
	assert.False(t, s.InFlight())
}

func TestStepString(t *testing.T) {
	assert.Equal(t, "Account", StepAccount.String())
	assert.Equal(t, "Business Info", StepBusinessInfo.String())
	assert.Equal(t, "WhatsApp", StepConnect.String())
	assert.Equal(t, "Finish", StepFinish.String())
}
