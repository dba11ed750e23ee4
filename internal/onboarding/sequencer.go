// Package onboarding implements the first-run setup wizard as a state
// machine independent of any UI. Steps advance strictly forward; the whole
// sequencer is discarded and restarts at step 1 when its owner goes away.
//
// Network calls run outside the sequencer (in Bubble Tea commands); the
// paired Begin/Succeeded/Failed methods keep every state mutation on the
// single event loop, matching the app's one-logical-thread model.
package onboarding

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Step is the wizard position.
type Step int

const (
	StepAccount Step = iota + 1
	StepBusinessInfo
	StepConnect
	StepFinish
)

// String returns the step's display name.
func (s Step) String() string {
	switch s {
	case StepAccount:
		return "Account"
	case StepBusinessInfo:
		return "Business Info"
	case StepConnect:
		return "WhatsApp"
	case StepFinish:
		return "Finish"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// ConnectionStatus is the step-3 pairing sub-state.
type ConnectionStatus int

const (
	ConnIdle ConnectionStatus = iota
	ConnConnecting
	ConnConnected
)

// BusinessInfo is the step-2 submission payload.
type BusinessInfo struct {
	Category string
	Country  string
	Timezone string
}

// Validation and guard errors.
var (
	ErrCategoryRequired = errors.New("business category is required")
	ErrWrongStep        = errors.New("action not available on this step")
	ErrInFlight         = errors.New("a submission is already in flight")
)

// Sequencer drives the four onboarding steps. It is not safe for concurrent
// use; call it only from the UI event loop.
type Sequencer struct {
	log zerolog.Logger

	step     Step
	conn     ConnectionStatus
	inFlight bool
	errText  string
}

// New creates a sequencer at step 1 with an idle connection.
func New(log zerolog.Logger) *Sequencer {
	return &Sequencer{
		log:  log.With().Str("component", "onboarding").Logger(),
		step: StepAccount,
		conn: ConnIdle,
	}
}

// Step returns the current wizard position.
func (s *Sequencer) Step() Step { return s.step }

// Connection returns the step-3 pairing status.
func (s *Sequencer) Connection() ConnectionStatus { return s.conn }

// InFlight reports whether a submission is outstanding; submit actions are
// disabled while it is true.
func (s *Sequencer) InFlight() bool { return s.inFlight }

// ErrText returns the banner text for the last failed submission, or "".
func (s *Sequencer) ErrText() string { return s.errText }

// AccountReady advances 1→2. The caller triggers it after the cosmetic
// confirmation delay; it is unconditional but a no-op on any other step.
func (s *Sequencer) AccountReady() {
	if s.step == StepAccount {
		s.step = StepBusinessInfo
	}
}

// BeginBusinessSubmit validates the payload and marks a submission in
// flight. The caller then performs the network call and reports back with
// BusinessSubmitted or BusinessSubmitFailed.
func (s *Sequencer) BeginBusinessSubmit(info BusinessInfo) error {
	if s.step != StepBusinessInfo {
		return ErrWrongStep
	}
	if s.inFlight {
		return ErrInFlight
	}
	if info.Category == "" {
		return ErrCategoryRequired
	}
	s.inFlight = true
	s.errText = ""
	return nil
}

// BusinessSubmitted records a successful step-2 submission and advances to
// the connect step.
func (s *Sequencer) BusinessSubmitted() {
	if s.step != StepBusinessInfo || !s.inFlight {
		return
	}
	s.inFlight = false
	s.step = StepConnect
}

// BusinessSubmitFailed records a failed step-2 submission. The wizard stays
// on step 2 with the form editable and the error surfaced.
func (s *Sequencer) BusinessSubmitFailed(err error) {
	if s.step != StepBusinessInfo {
		return
	}
	s.inFlight = false
	s.errText = err.Error()
	s.log.Warn().Err(err).Msg("business info submission failed")
}

// BeginConnect starts pairing: idle→connecting. Returns false when pairing
// is not startable (wrong step or already past idle).
func (s *Sequencer) BeginConnect() bool {
	if s.step != StepConnect || s.conn != ConnIdle {
		return false
	}
	s.conn = ConnConnecting
	return true
}

// ConnectEstablished resolves pairing: connecting→connected. The caller
// fires it when the pairing confirmation arrives.
func (s *Sequencer) ConnectEstablished() {
	if s.step == StepConnect && s.conn == ConnConnecting {
		s.conn = ConnConnected
	}
}

// ContinueToFinish advances 3→4. It is a manual user action and is blocked
// until the channel is connected; a premature call is a no-op returning
// false.
func (s *Sequencer) ContinueToFinish() bool {
	if s.step != StepConnect || s.conn != ConnConnected {
		return false
	}
	s.step = StepFinish
	return true
}

// BeginFinish marks the completion call in flight. The caller performs
// the network call and reports back with FinishSucceeded or FinishFailed.
func (s *Sequencer) BeginFinish() error {
	if s.step != StepFinish {
		return ErrWrongStep
	}
	if s.inFlight {
		return ErrInFlight
	}
	s.inFlight = true
	s.errText = ""
	return nil
}

// FinishSucceeded records backend completion. The caller is responsible for
// patching the session profile and navigating to the dashboard.
func (s *Sequencer) FinishSucceeded() {
	if s.step != StepFinish {
		return
	}
	s.inFlight = false
}

// FinishFailed records a failed completion call. The wizard stays on step 4
// with the error surfaced and the action retriable.
func (s *Sequencer) FinishFailed(err error) {
	if s.step != StepFinish {
		return
	}
	s.inFlight = false
	s.errText = err.Error()
	s.log.Warn().Err(err).Msg("onboarding completion failed")
}
