package types

// Phase is the type of the stages of the election workflow. The workflow only
// ever moves forward along the sequence.
type Phase byte

const (
	// RegisteringVoters is the initial phase where callers can register as
	// voters.
	RegisteringVoters Phase = iota

	// ProposalsRegistrationOpen is the phase where registered voters can
	// submit proposals.
	ProposalsRegistrationOpen

	// ProposalsRegistrationClosed is the phase after the proposal
	// registration has been closed and before the voting session starts.
	ProposalsRegistrationClosed

	// VotingOpen is the phase where registered voters can cast their ballot.
	VotingOpen

	// VotingClosed is the phase after the voting session has been closed and
	// before the votes are tallied.
	VotingClosed

	// Tallied is the phase where the winner has been determined.
	Tallied

	// Closed is the final phase of the election.
	Closed
)

func (p Phase) String() string {
	switch p {
	case RegisteringVoters:
		return "registering voters"
	case ProposalsRegistrationOpen:
		return "proposals registration open"
	case ProposalsRegistrationClosed:
		return "proposals registration closed"
	case VotingOpen:
		return "voting open"
	case VotingClosed:
		return "voting closed"
	case Tallied:
		return "tallied"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// predecessors is the transition table of the workflow. Each phase that can
// be reached by a command maps to the only phase it may be reached from.
var predecessors = map[Phase]Phase{
	ProposalsRegistrationOpen:   RegisteringVoters,
	ProposalsRegistrationClosed: ProposalsRegistrationOpen,
	VotingOpen:                  ProposalsRegistrationClosed,
	VotingClosed:                VotingOpen,
	Tallied:                     VotingClosed,
	Closed:                      Tallied,
}
