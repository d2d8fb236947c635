// Package election implements the native contract governing a single
// election: an administrator advances the workflow through its phases,
// registered voters submit proposals and cast ballots, and the tally selects
// the plurality winner.
//
// The whole election is stored as a single aggregate value in the snapshot,
// rewritten by every successful command. Commands validate all of their
// preconditions before mutating the aggregate, so a rejected command never
// commits a partial change.
package election

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.dedis.ch/suffrage"
	"go.dedis.ch/suffrage/contracts/election/types"
	"go.dedis.ch/suffrage/core"
	"go.dedis.ch/suffrage/core/access"
	"go.dedis.ch/suffrage/core/execution"
	"go.dedis.ch/suffrage/core/execution/native"
	"go.dedis.ch/suffrage/core/store"
	"go.dedis.ch/suffrage/core/txn"
	"golang.org/x/xerrors"
)

// commands defines the commands of the election contract. This interface
// helps in testing the contract.
type commands interface {
	create(snap store.Snapshot, step execution.Step) error
	registerVoter(snap store.Snapshot, step execution.Step) error
	openProposals(snap store.Snapshot, step execution.Step) error
	closeProposals(snap store.Snapshot, step execution.Step) error
	registerProposal(snap store.Snapshot, step execution.Step) error
	openVoting(snap store.Snapshot, step execution.Step) error
	closeVoting(snap store.Snapshot, step execution.Step) error
	castVote(snap store.Snapshot, step execution.Step) error
	tally(snap store.Snapshot, step execution.Step) error
	status(snap store.Snapshot) error
	winner(snap store.Snapshot) error
}

const (
	// ContractName is the name of the contract.
	ContractName = "go.dedis.ch/suffrage.Election"

	// CmdArg is the argument's name to indicate the kind of command we want
	// to run on the contract. Should be one of the Command type.
	CmdArg = "election:command"

	// DescriptionArg is the argument's name in the transaction that contains
	// the description of the proposal to register.
	DescriptionArg = "election:description"

	// ProposalArg is the argument's name in the transaction that contains the
	// decimal identifier of the proposal to vote for.
	ProposalArg = "election:proposal"

	// credentialAllCommand defines the credential command that is allowed to
	// perform all commands.
	credentialAllCommand = "all"
)

// electionKey is the key of the election aggregate in the snapshot. There is
// only one election per contract instance.
var electionKey = []byte("election")

// Command defines a type of command for the election contract.
type Command string

const (
	// CmdCreate defines the command to create the election. The identity of
	// the transaction becomes the administrator.
	CmdCreate Command = "CREATE"

	// CmdRegisterVoter defines the command for a caller to register itself
	// on the voter roll.
	CmdRegisterVoter Command = "REGISTER"

	// CmdOpenProposals defines the command to open the proposals
	// registration.
	CmdOpenProposals Command = "OPEN_PROPOSALS"

	// CmdCloseProposals defines the command to close the proposals
	// registration.
	CmdCloseProposals Command = "CLOSE_PROPOSALS"

	// CmdRegisterProposal defines the command for a voter to submit a
	// proposal.
	CmdRegisterProposal Command = "PROPOSE"

	// CmdOpenVoting defines the command to open the voting session.
	CmdOpenVoting Command = "OPEN_VOTING"

	// CmdCloseVoting defines the command to close the voting session.
	CmdCloseVoting Command = "CLOSE_VOTING"

	// CmdCastVote defines the command for a voter to cast its ballot.
	CmdCastVote Command = "VOTE"

	// CmdTally defines the command to pick the winner and close the
	// election.
	CmdTally Command = "TALLY"

	// CmdStatus defines the command to display the current status of the
	// election.
	CmdStatus Command = "STATUS"

	// CmdWinner defines the command to display the winning proposal.
	CmdWinner Command = "WINNER"
)

// defines prometheus metrics
var (
	promPhase = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "suffrage_election_phase",
		Help: "current phase of the election workflow",
	})

	promVoters = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "suffrage_election_voters",
		Help: "number of entries in the voter roll",
	})

	promProposals = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "suffrage_election_proposals",
		Help: "number of registered proposals",
	})

	promBallots = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "suffrage_election_ballots",
		Help: "number of ballots cast",
	})
)

func init() {
	suffrage.PromCollectors = append(suffrage.PromCollectors,
		promPhase, promVoters, promProposals, promBallots)
}

// NewCreds creates new credentials for an election contract execution.
func NewCreds(id []byte) access.Credential {
	return access.NewContractCreds(id, ContractName, credentialAllCommand)
}

// RegisterContract registers the election contract to the given execution
// service.
func RegisterContract(exec *native.Service, c Contract) {
	exec.Set(ContractName, c)
}

// Contract is the smart contract of the election workflow.
//
// - implements native.Contract
type Contract struct {
	// access is the access control service managing this smart contract
	access access.Service

	// accessKey is the access identifier allowed to use this smart contract
	accessKey []byte

	// cmd provides the commands that can be executed by this smart contract
	cmd commands

	// watcher is notified of the outbound events after a successful command
	watcher core.Observable

	// strict enables the validation of the predecessor phase on transitions.
	// The default keeps the permissive behaviour where only the caller
	// identity is checked.
	strict bool

	// printer is the output used by the STATUS and WINNER commands
	printer io.Writer

	logger zerolog.Logger
}

// ContractOption is the type of options to create the contract.
type ContractOption func(*Contract)

// WithStrictTransitions is an option to reject phase transitions requested
// from a phase that is not the predecessor of the target.
func WithStrictTransitions() ContractOption {
	return func(c *Contract) {
		c.strict = true
	}
}

// NewContract creates a new election contract.
func NewContract(aKey []byte, srvc access.Service, opts ...ContractOption) Contract {
	contract := Contract{
		access:    srvc,
		accessKey: aKey,
		watcher:   core.NewWatcher(),
		printer:   infoLog{},
		logger:    suffrage.Logger,
	}

	for _, opt := range opts {
		opt(&contract)
	}

	contract.cmd = electionCommand{Contract: &contract}

	return contract
}

// Execute implements native.Contract. It runs the appropriate command.
func (c Contract) Execute(snap store.Snapshot, step execution.Step) error {
	creds := NewCreds(c.accessKey)

	err := c.access.Match(snap, creds, step.Current.GetIdentity())
	if err != nil {
		return xerrors.Errorf("identity not authorized: %v (%v)",
			step.Current.GetIdentity(), err)
	}

	cmd := step.Current.GetArg(CmdArg)
	if len(cmd) == 0 {
		return xerrors.Errorf("'%s' not found in tx arg", CmdArg)
	}

	switch Command(cmd) {
	case CmdCreate:
		err := c.cmd.create(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to CREATE: %v", err)
		}
	case CmdRegisterVoter:
		err := c.cmd.registerVoter(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to REGISTER: %v", err)
		}
	case CmdOpenProposals:
		err := c.cmd.openProposals(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to OPEN_PROPOSALS: %v", err)
		}
	case CmdCloseProposals:
		err := c.cmd.closeProposals(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to CLOSE_PROPOSALS: %v", err)
		}
	case CmdRegisterProposal:
		err := c.cmd.registerProposal(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to PROPOSE: %v", err)
		}
	case CmdOpenVoting:
		err := c.cmd.openVoting(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to OPEN_VOTING: %v", err)
		}
	case CmdCloseVoting:
		err := c.cmd.closeVoting(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to CLOSE_VOTING: %v", err)
		}
	case CmdCastVote:
		err := c.cmd.castVote(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to VOTE: %v", err)
		}
	case CmdTally:
		err := c.cmd.tally(snap, step)
		if err != nil {
			return xerrors.Errorf("failed to TALLY: %v", err)
		}
	case CmdStatus:
		err := c.cmd.status(snap)
		if err != nil {
			return xerrors.Errorf("failed to STATUS: %v", err)
		}
	case CmdWinner:
		err := c.cmd.winner(snap)
		if err != nil {
			return xerrors.Errorf("failed to WINNER: %v", err)
		}
	default:
		return xerrors.Errorf("unknown command: %s", cmd)
	}

	return nil
}

// GetElection reads the election aggregate from the store. It returns an
// error if the election has not been created yet.
func GetElection(snap store.Readable) (*types.Election, error) {
	value, err := snap.Get(electionKey)
	if err != nil {
		return nil, xerrors.Errorf("failed to get key '%s': %v", electionKey, err)
	}

	if len(value) == 0 {
		return nil, xerrors.New("election not created")
	}

	election := &types.Election{}

	err = json.Unmarshal(value, election)
	if err != nil {
		return nil, xerrors.Errorf("failed to unmarshal election: %v", err)
	}

	if election.Ballots == nil {
		election.Ballots = map[string]types.Ballot{}
	}

	return election, nil
}

// electionCommand implements the commands of the election contract.
//
// - implements commands
type electionCommand struct {
	*Contract
}

// create implements commands. It performs the CREATE command: the caller
// becomes the administrator of the election.
func (c electionCommand) create(snap store.Snapshot, step execution.Step) error {
	caller, err := callerID(step)
	if err != nil {
		return err
	}

	value, err := snap.Get(electionKey)
	if err != nil {
		return xerrors.Errorf("failed to get key '%s': %v", electionKey, err)
	}

	if len(value) != 0 {
		return xerrors.New("election already created")
	}

	election := types.NewElection(caller)

	err = c.save(snap, election)
	if err != nil {
		return err
	}

	c.logger.Info().Str("contract", ContractName).
		Msgf("election created by '%s'", caller)

	return nil
}

// registerVoter implements commands. It performs the REGISTER command.
func (c electionCommand) registerVoter(snap store.Snapshot, step execution.Step) error {
	caller, election, err := c.load(snap, step)
	if err != nil {
		return err
	}

	err = election.RegisterVoter(caller)
	if err != nil {
		return xerrors.Errorf("failed to register '%s': %w", caller, err)
	}

	err = c.save(snap, election)
	if err != nil {
		return err
	}

	c.watcher.Notify(VoterRegistered{Voter: caller})
	promVoters.Set(float64(election.NumVoters()))

	c.logger.Info().Str("contract", ContractName).
		Msgf("voter '%s' registered", caller)

	return nil
}

// openProposals implements commands. It performs the OPEN_PROPOSALS command.
func (c electionCommand) openProposals(snap store.Snapshot, step execution.Step) error {
	return c.advance(snap, step, types.ProposalsRegistrationOpen)
}

// closeProposals implements commands. It performs the CLOSE_PROPOSALS
// command.
func (c electionCommand) closeProposals(snap store.Snapshot, step execution.Step) error {
	return c.advance(snap, step, types.ProposalsRegistrationClosed)
}

// openVoting implements commands. It performs the OPEN_VOTING command.
func (c electionCommand) openVoting(snap store.Snapshot, step execution.Step) error {
	return c.advance(snap, step, types.VotingOpen)
}

// closeVoting implements commands. It performs the CLOSE_VOTING command.
func (c electionCommand) closeVoting(snap store.Snapshot, step execution.Step) error {
	return c.advance(snap, step, types.VotingClosed)
}

// registerProposal implements commands. It performs the PROPOSE command.
func (c electionCommand) registerProposal(snap store.Snapshot, step execution.Step) error {
	// The description is free text, the empty string included, so only the
	// presence of the argument is checked.
	if !hasArg(step.Current, DescriptionArg) {
		return xerrors.Errorf("'%s' not found in tx arg", DescriptionArg)
	}

	description := step.Current.GetArg(DescriptionArg)

	caller, election, err := c.load(snap, step)
	if err != nil {
		return err
	}

	id, err := election.AddProposal(caller, string(description))
	if err != nil {
		return xerrors.Errorf("failed to add proposal: %w", err)
	}

	err = c.save(snap, election)
	if err != nil {
		return err
	}

	c.watcher.Notify(ProposalRegistered{ID: id})
	promProposals.Set(float64(election.NumProposals()))

	c.logger.Info().Str("contract", ContractName).
		Msgf("proposal %d registered by '%s'", id, caller)

	return nil
}

// castVote implements commands. It performs the VOTE command.
func (c electionCommand) castVote(snap store.Snapshot, step execution.Step) error {
	if !hasArg(step.Current, ProposalArg) {
		return xerrors.Errorf("'%s' not found in tx arg", ProposalArg)
	}

	proposalID, err := strconv.ParseUint(string(step.Current.GetArg(ProposalArg)), 10, 64)
	if err != nil {
		return xerrors.Errorf("failed to parse proposal id: %v", err)
	}

	caller, election, err := c.load(snap, step)
	if err != nil {
		return err
	}

	err = election.CastVote(caller, proposalID)
	if err != nil {
		return xerrors.Errorf("failed to cast vote: %w", err)
	}

	err = c.save(snap, election)
	if err != nil {
		return err
	}

	c.watcher.Notify(Voted{Voter: caller, ProposalID: proposalID})
	promBallots.Set(float64(election.NumBallots()))

	c.logger.Info().Str("contract", ContractName).
		Msgf("voter '%s' voted for proposal %d", caller, proposalID)

	return nil
}

// tally implements commands. It performs the TALLY command: the workflow
// moves to the tallied phase, the winner is picked, and the election is
// closed.
func (c electionCommand) tally(snap store.Snapshot, step execution.Step) error {
	caller, election, err := c.load(snap, step)
	if err != nil {
		return err
	}

	err = election.RequireAdmin(caller)
	if err != nil {
		return xerrors.Errorf("access denied: %w", err)
	}

	beforeTally, err := election.Advance(types.Tallied, c.strict)
	if err != nil {
		return xerrors.Errorf("failed to advance: %w", err)
	}

	winner := election.PickWinner()

	beforeClose, err := election.Advance(types.Closed, c.strict)
	if err != nil {
		return xerrors.Errorf("failed to advance: %w", err)
	}

	err = c.save(snap, election)
	if err != nil {
		return err
	}

	c.watcher.Notify(StatusChanged{Previous: beforeTally, New: types.Tallied})
	c.watcher.Notify(StatusChanged{Previous: beforeClose, New: types.Closed})
	promPhase.Set(float64(election.Phase))

	c.logger.Info().Str("contract", ContractName).
		Msgf("election closed, winning proposal is %d", winner)

	return nil
}

// status implements commands. It performs the STATUS command.
func (c electionCommand) status(snap store.Snapshot) error {
	election, err := GetElection(snap)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.printer, "%v: %d voter(s), %d proposal(s), %d ballot(s)",
		election.Phase, election.NumVoters(), election.NumProposals(),
		election.NumBallots())

	return nil
}

// winner implements commands. It performs the WINNER command.
func (c electionCommand) winner(snap store.Snapshot) error {
	election, err := GetElection(snap)
	if err != nil {
		return err
	}

	proposal, id, err := election.Winner()
	if err != nil {
		return xerrors.Errorf("failed to get winner: %w", err)
	}

	fmt.Fprintf(c.printer, "%d=%s (%d vote(s))", id, proposal.Description,
		proposal.VoteCount)

	return nil
}

// advance is the shared implementation of the administrator transition
// commands. It checks the caller identity, moves the workflow and emits the
// status change.
func (c electionCommand) advance(snap store.Snapshot, step execution.Step, target types.Phase) error {
	caller, election, err := c.load(snap, step)
	if err != nil {
		return err
	}

	err = election.RequireAdmin(caller)
	if err != nil {
		return xerrors.Errorf("access denied: %w", err)
	}

	previous, err := election.Advance(target, c.strict)
	if err != nil {
		return xerrors.Errorf("failed to advance: %w", err)
	}

	err = c.save(snap, election)
	if err != nil {
		return err
	}

	c.watcher.Notify(StatusChanged{Previous: previous, New: target})
	promPhase.Set(float64(target))

	c.logger.Info().Str("contract", ContractName).
		Msgf("workflow moved from '%v' to '%v'", previous, target)

	return nil
}

// load resolves the caller identity and reads the election aggregate.
func (c electionCommand) load(snap store.Snapshot, step execution.Step) (string, *types.Election, error) {
	caller, err := callerID(step)
	if err != nil {
		return "", nil, err
	}

	election, err := GetElection(snap)
	if err != nil {
		return "", nil, err
	}

	return caller, election, nil
}

// save writes the election aggregate back to the store.
func (c electionCommand) save(snap store.Snapshot, election *types.Election) error {
	js, err := json.Marshal(election)
	if err != nil {
		return xerrors.Errorf("failed to marshal election: %v", err)
	}

	err = snap.Set(electionKey, js)
	if err != nil {
		return xerrors.Errorf("failed to set value: %v", err)
	}

	return nil
}

// hasArg returns true if the argument key is set in the transaction, even to
// an empty value.
func hasArg(tx txn.Transaction, key string) bool {
	for _, arg := range tx.GetArgs() {
		if arg == key {
			return true
		}
	}

	return false
}

// callerID returns the text form of the transaction identity.
func callerID(step execution.Step) (string, error) {
	identity := step.Current.GetIdentity()
	if identity == nil {
		return "", xerrors.New("transaction has no identity")
	}

	text, err := identity.MarshalText()
	if err != nil {
		return "", xerrors.Errorf("failed to marshal identity: %v", err)
	}

	return string(text), nil
}

// infoLog defines an output using zerolog
//
// - implements io.Writer
type infoLog struct{}

func (h infoLog) Write(p []byte) (int, error) {
	suffrage.Logger.Info().Msg(string(p))

	return len(p), nil
}
