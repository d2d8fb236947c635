// Package types defines the election aggregate: the workflow phase machine,
// the voter roll, the proposal ledger, the ballot ledger and the tally.
//
// The aggregate is pure in-memory state. Every operation validates all of its
// preconditions before the first mutation, so a rejected operation never
// leaves a partial change behind. The contract owns serialization and
// persistence.
package types

import (
	"golang.org/x/xerrors"
)

// Proposal is a candidate option with its accumulating vote count. The
// description is immutable after creation.
type Proposal struct {
	Description string
	VoteCount   uint64
}

// Ballot is a single voter's recorded vote. It is immutable once cast.
type Ballot struct {
	Voter      string
	ProposalID uint64
	Cast       bool
}

// Election is the aggregate of a single election. Proposal identifiers are
// 1-based: proposal i is stored at Proposals[i-1]. A WinnerID of zero means
// no winner has been determined.
type Election struct {
	AdminID   string
	Phase     Phase
	Voters    []string
	Proposals []Proposal
	Ballots   map[string]Ballot
	History   []Ballot
	WinnerID  uint64
}

// NewElection creates a new election administrated by the given identity,
// starting in the registering voters phase.
func NewElection(admin string) *Election {
	return &Election{
		AdminID: admin,
		Phase:   RegisteringVoters,
		Ballots: map[string]Ballot{},
	}
}

// RequireAdmin returns an error if the caller is not the administrator.
func (e *Election) RequireAdmin(caller string) error {
	if caller != e.AdminID {
		return xerrors.Errorf("'%s': %w", caller, ErrNotAdministrator)
	}

	return nil
}

// IsVoter returns true if the caller is present in the voter roll. It is a
// pure query: an empty roll simply returns false.
func (e *Election) IsVoter(caller string) bool {
	for _, voter := range e.Voters {
		if voter == caller {
			return true
		}
	}

	return false
}

// RegisterVoter appends the caller to the voter roll. The roll does not
// deduplicate: registering twice produces two entries.
func (e *Election) RegisterVoter(caller string) error {
	if e.Phase != RegisteringVoters {
		return xerrors.Errorf("phase is '%v': %w", e.Phase, ErrVoterRegistrationNotOpen)
	}

	e.Voters = append(e.Voters, caller)

	return nil
}

// Advance moves the workflow to the target phase and returns the previous
// one. In strict mode the current phase must be the predecessor of the target
// in the transition table; otherwise only the caller identity has been
// checked, which is the source-faithful behaviour.
func (e *Election) Advance(target Phase, strict bool) (Phase, error) {
	previous := e.Phase

	if strict && predecessors[target] != previous {
		return previous, xerrors.Errorf("from '%v' to '%v': %w",
			previous, target, ErrInvalidTransition)
	}

	e.Phase = target

	return previous, nil
}

// AddProposal stores a new proposal and returns its identifier. Identifiers
// are allocated sequentially starting at 1 and are never reused.
func (e *Election) AddProposal(caller, description string) (uint64, error) {
	if !e.IsVoter(caller) {
		return 0, xerrors.Errorf("'%s': %w", caller, ErrNotVoter)
	}

	if e.Phase != ProposalsRegistrationOpen {
		return 0, xerrors.Errorf("phase is '%v': %w", e.Phase, ErrProposalRegistrationNotOpen)
	}

	e.Proposals = append(e.Proposals, Proposal{Description: description})

	return uint64(len(e.Proposals)), nil
}

// CastVote records the ballot of the caller for the given proposal and
// increments the proposal's vote count. A voter can vote at most once and a
// ballot cannot be revoked.
func (e *Election) CastVote(caller string, proposalID uint64) error {
	if !e.IsVoter(caller) {
		return xerrors.Errorf("'%s': %w", caller, ErrNotVoter)
	}

	if e.Phase != VotingOpen {
		return xerrors.Errorf("phase is '%v': %w", e.Phase, ErrVotingSessionClosed)
	}

	if proposalID == 0 || proposalID > uint64(len(e.Proposals)) {
		return xerrors.Errorf("proposal '%d': %w", proposalID, ErrProposalNotFound)
	}

	if ballot, found := e.Ballots[caller]; found && ballot.Cast {
		return xerrors.Errorf("'%s': %w", caller, ErrAlreadyVoted)
	}

	ballot := Ballot{
		Voter:      caller,
		ProposalID: proposalID,
		Cast:       true,
	}

	e.Proposals[proposalID-1].VoteCount++
	e.Ballots[caller] = ballot
	e.History = append(e.History, ballot)

	return nil
}

// PickWinner scans the proposals in ascending identifier order and stores the
// identifier of the proposal with the strictly highest vote count. Ties keep
// the earlier proposal. The stored identifier is zero when no proposal
// received a vote.
func (e *Election) PickWinner() uint64 {
	bestID := uint64(0)
	bestCount := uint64(0)

	for i, proposal := range e.Proposals {
		if proposal.VoteCount > bestCount {
			bestID = uint64(i) + 1
			bestCount = proposal.VoteCount
		}
	}

	e.WinnerID = bestID

	return bestID
}

// Winner returns the winning proposal and its identifier. It is only
// available once the votes have been tallied.
func (e *Election) Winner() (Proposal, uint64, error) {
	if e.Phase != Tallied && e.Phase != Closed {
		return Proposal{}, 0, xerrors.Errorf("phase is '%v': %w", e.Phase, ErrWinnerNotPicked)
	}

	if e.WinnerID == 0 {
		return Proposal{}, 0, ErrNoWinningProposal
	}

	// The identifier is checked so that a corrupted aggregate errors instead
	// of panicking.
	if e.WinnerID > uint64(len(e.Proposals)) {
		return Proposal{}, 0, xerrors.Errorf("proposal '%d': %w", e.WinnerID, ErrProposalNotFound)
	}

	return e.Proposals[e.WinnerID-1], e.WinnerID, nil
}

// GetProposal returns a read-only snapshot of the proposal with the given
// identifier.
func (e *Election) GetProposal(id uint64) (Proposal, error) {
	if id == 0 || id > uint64(len(e.Proposals)) {
		return Proposal{}, xerrors.Errorf("proposal '%d': %w", id, ErrProposalNotFound)
	}

	return e.Proposals[id-1], nil
}

// NumProposals returns the number of created proposals.
func (e *Election) NumProposals() uint64 {
	return uint64(len(e.Proposals))
}

// NumVoters returns the number of entries in the voter roll, duplicates
// included.
func (e *Election) NumVoters() uint64 {
	return uint64(len(e.Voters))
}

// GetVoter returns the voter at the given index in registration order.
func (e *Election) GetVoter(index uint64) (string, error) {
	if len(e.Voters) == 0 {
		return "", ErrNoVoters
	}

	if index >= uint64(len(e.Voters)) {
		return "", xerrors.Errorf("index '%d': %w", index, ErrVoterIndexOutOfRange)
	}

	return e.Voters[index], nil
}

// NumBallots returns the number of ballots cast so far.
func (e *Election) NumBallots() uint64 {
	return uint64(len(e.History))
}

// GetBallot returns the ballot at the given index in cast order.
func (e *Election) GetBallot(index uint64) (Ballot, error) {
	if len(e.History) == 0 {
		return Ballot{}, ErrNoBallots
	}

	if index >= uint64(len(e.History)) {
		return Ballot{}, xerrors.Errorf("index '%d': %w", index, ErrBallotIndexOutOfRange)
	}

	return e.History[index], nil
}
