// Package main implements urne, a command line tool that drives a single
// election against a local checkpoint database.
//
// The tool is the caller-facing layer of the election contract: it resolves
// the caller identity from the --as flag, wraps each action in a transaction
// and executes it through the native service. The election state is
// checkpointed in a bbolt database after every successful command.
//
// A typical session looks like:
//
//	urne --as admin grant --identity admin --identity alice --identity bob
//	urne --as admin create
//	urne --as alice register
//	urne --as admin open-proposals
//	urne --as alice propose --description "Proposal X"
//	urne --as admin close-proposals
//	urne --as admin open-voting
//	urne --as alice vote --proposal 1
//	urne --as admin close-voting
//	urne --as admin tally
//	urne --as admin winner
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.dedis.ch/suffrage"
	"go.dedis.ch/suffrage/contracts/election"
	"go.dedis.ch/suffrage/contracts/election/types"
	"go.dedis.ch/suffrage/core/access"
	"go.dedis.ch/suffrage/core/access/acl"
	"go.dedis.ch/suffrage/core/execution"
	"go.dedis.ch/suffrage/core/execution/native"
	"go.dedis.ch/suffrage/core/store/kv"
	"go.dedis.ch/suffrage/core/txn"
	"go.dedis.ch/suffrage/core/txn/plain"
	"golang.org/x/xerrors"
)

// aKey is the access key used for the election contract.
var aKey = [32]byte{2}

// bucket is the bucket of the checkpoint database holding the election.
var bucket = []byte("election")

func main() {
	err := makeApp().Run(os.Args)
	if err != nil {
		suffrage.Logger.Fatal().Err(err).Msg("command failed")
	}
}

func makeApp() *cli.App {
	return &cli.App{
		Name:  "urne",
		Usage: "drive a single election workflow",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db",
				Value: "urne.db",
				Usage: "path of the checkpoint database",
			},
			&cli.StringFlag{
				Name:     "as",
				Required: true,
				Usage:    "identity of the caller",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "validate the predecessor phase on transitions",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "grant",
				Usage:  "allow identities to use the election contract",
				Action: grantAction,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:     "identity",
						Required: true,
						Usage:    "identity to grant access to",
					},
				},
			},
			{
				Name:   "create",
				Usage:  "create the election, the caller becomes administrator",
				Action: command(election.CmdCreate),
			},
			{
				Name:   "register",
				Usage:  "register the caller on the voter roll",
				Action: command(election.CmdRegisterVoter),
			},
			{
				Name:   "open-proposals",
				Usage:  "open the proposals registration",
				Action: command(election.CmdOpenProposals),
			},
			{
				Name:   "close-proposals",
				Usage:  "close the proposals registration",
				Action: command(election.CmdCloseProposals),
			},
			{
				Name:   "propose",
				Usage:  "submit a proposal",
				Action: proposeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "description",
						Required: true,
						Usage:    "description of the proposal",
					},
				},
			},
			{
				Name:   "open-voting",
				Usage:  "open the voting session",
				Action: command(election.CmdOpenVoting),
			},
			{
				Name:   "close-voting",
				Usage:  "close the voting session",
				Action: command(election.CmdCloseVoting),
			},
			{
				Name:   "vote",
				Usage:  "cast the ballot of the caller",
				Action: voteAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "proposal",
						Required: true,
						Usage:    "identifier of the proposal to vote for",
					},
				},
			},
			{
				Name:   "tally",
				Usage:  "pick the winner and close the election",
				Action: command(election.CmdTally),
			},
			{
				Name:   "status",
				Usage:  "display the status of the election",
				Action: statusAction,
			},
			{
				Name:   "winner",
				Usage:  "display the winning proposal",
				Action: winnerAction,
			},
		},
	}
}

// command returns an action that executes the given contract command without
// additional arguments.
func command(cmd election.Command) cli.ActionFunc {
	return func(c *cli.Context) error {
		return execute(c, cmd)
	}
}

func proposeAction(c *cli.Context) error {
	return execute(c, election.CmdRegisterProposal, txn.Arg{
		Key:   election.DescriptionArg,
		Value: []byte(c.String("description")),
	})
}

func voteAction(c *cli.Context) error {
	return execute(c, election.CmdCastVote, txn.Arg{
		Key:   election.ProposalArg,
		Value: []byte(c.String("proposal")),
	})
}

func grantAction(c *cli.Context) error {
	db, err := kv.New(c.String("db"))
	if err != nil {
		return xerrors.Errorf("failed to open db: %v", err)
	}

	defer db.Close()

	snap := kv.NewSnapshot(db, bucket)

	idents := []access.Identity{}
	for _, ident := range c.StringSlice("identity") {
		idents = append(idents, access.Label(ident))
	}

	err = acl.NewService().Grant(snap, election.NewCreds(aKey[:]), idents...)
	if err != nil {
		return xerrors.Errorf("failed to grant: %v", err)
	}

	return nil
}

func statusAction(c *cli.Context) error {
	return display(c, func(e *types.Election) (string, error) {
		return fmt.Sprintf("%v: %d voter(s), %d proposal(s), %d ballot(s)",
			e.Phase, e.NumVoters(), e.NumProposals(), e.NumBallots()), nil
	})
}

func winnerAction(c *cli.Context) error {
	return display(c, func(e *types.Election) (string, error) {
		proposal, id, err := e.Winner()
		if err != nil {
			return "", xerrors.Errorf("failed to get winner: %w", err)
		}

		return fmt.Sprintf("%d=%s (%d vote(s))", id, proposal.Description,
			proposal.VoteCount), nil
	})
}

// execute wraps the command in a transaction signed by the --as identity and
// runs it through the native execution service.
func execute(c *cli.Context, cmd election.Command, args ...txn.Arg) error {
	db, err := kv.New(c.String("db"))
	if err != nil {
		return xerrors.Errorf("failed to open db: %v", err)
	}

	defer db.Close()

	snap := kv.NewSnapshot(db, bucket)

	opts := []election.ContractOption{}
	if c.Bool("strict") {
		opts = append(opts, election.WithStrictTransitions())
	}

	exec := native.NewExecution()
	election.RegisterContract(exec, election.NewContract(aKey[:], acl.NewService(), opts...))

	txOpts := []plain.TransactionOption{
		plain.WithArg(native.ContractArg, []byte(election.ContractName)),
		plain.WithArg(election.CmdArg, []byte(cmd)),
	}

	for _, arg := range args {
		txOpts = append(txOpts, plain.WithArg(arg.Key, arg.Value))
	}

	tx, err := plain.NewTransaction(access.Label(c.String("as")), txOpts...)
	if err != nil {
		return xerrors.Errorf("failed to create transaction: %v", err)
	}

	res, err := exec.Execute(snap, execution.Step{Current: tx})
	if err != nil {
		return xerrors.Errorf("failed to execute: %v", err)
	}

	if !res.Accepted {
		return xerrors.Errorf("transaction rejected: %s", res.Message)
	}

	return nil
}

// display reads the election from the checkpoint database and prints the
// rendered view.
func display(c *cli.Context, render func(*types.Election) (string, error)) error {
	db, err := kv.New(c.String("db"))
	if err != nil {
		return xerrors.Errorf("failed to open db: %v", err)
	}

	defer db.Close()

	e, err := election.GetElection(kv.NewSnapshot(db, bucket))
	if err != nil {
		return xerrors.Errorf("failed to read election: %v", err)
	}

	out, err := render(e)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, out)

	return nil
}
