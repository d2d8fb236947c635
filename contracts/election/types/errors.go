package types

import "golang.org/x/xerrors"

// The election rejects an operation with one of the following errors. Every
// rejection is deterministic given the state and the input, and leaves the
// state untouched.
var (
	// ErrNotAdministrator is returned when a caller other than the
	// administrator invokes an administrator command.
	ErrNotAdministrator = xerrors.New("caller is not the administrator")

	// ErrNotVoter is returned when a caller that is not a registered voter
	// submits a proposal or casts a ballot.
	ErrNotVoter = xerrors.New("caller is not a registered voter")

	// ErrVoterRegistrationNotOpen is returned when a caller registers outside
	// of the registering voters phase.
	ErrVoterRegistrationNotOpen = xerrors.New("voter registration is not open")

	// ErrProposalRegistrationNotOpen is returned when a proposal is submitted
	// outside of the proposals registration phase.
	ErrProposalRegistrationNotOpen = xerrors.New("proposal registration is not open")

	// ErrVotingSessionClosed is returned when a ballot is cast outside of the
	// voting phase.
	ErrVotingSessionClosed = xerrors.New("voting session is not open")

	// ErrWinnerNotPicked is returned when the winner is requested before the
	// votes have been tallied.
	ErrWinnerNotPicked = xerrors.New("winner has not been picked yet")

	// ErrProposalNotFound is returned when a proposal identifier is zero or
	// exceeds the number of created proposals.
	ErrProposalNotFound = xerrors.New("proposal not found")

	// ErrNoVoters is returned when a voter is requested but nobody has
	// registered.
	ErrNoVoters = xerrors.New("no voter registered")

	// ErrVoterIndexOutOfRange is returned when a voter index exceeds the
	// size of the roll.
	ErrVoterIndexOutOfRange = xerrors.New("voter index out of range")

	// ErrNoBallots is returned when a ballot is requested but none has been
	// cast.
	ErrNoBallots = xerrors.New("no ballot cast")

	// ErrBallotIndexOutOfRange is returned when a ballot index exceeds the
	// size of the history.
	ErrBallotIndexOutOfRange = xerrors.New("ballot index out of range")

	// ErrAlreadyVoted is returned when a voter casts a second ballot.
	ErrAlreadyVoted = xerrors.New("caller has already voted")

	// ErrNoWinningProposal is returned when the tally has determined no
	// winner.
	ErrNoWinningProposal = xerrors.New("no winning proposal")

	// ErrInvalidTransition is returned in strict mode when a phase transition
	// is requested from a phase that is not its predecessor.
	ErrInvalidTransition = xerrors.New("invalid phase transition")
)
