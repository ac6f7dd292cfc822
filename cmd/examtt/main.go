// Command examtt is the CLI entrypoint for the ITC-2007 examination
// timetabling core: solve an instance, score an existing booking
// against an instance, or validate that an instance file is
// structurally sound.
//
// Grounded on the teacher's cli.go subcommand wiring (cmdGen/cmdScore/
// cmdSwap), translated to this solver's own subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/examtt/core/internal/config"
	"github.com/examtt/core/internal/obslog"
)

func main() {
	root := &cobra.Command{
		Use:   "examtt",
		Short: "ITC-2007 examination timetabling solver",
		Long:  "An anytime MCTS solver for the ITC-2007 Examination Timetabling Track formulation.",
	}

	cfg := config.Default()

	cmdSolve := &cobra.Command{
		Use:   "solve <instance.exam>",
		Short: "search for a booking minimizing (hard violations, soft penalty)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(args[0], cfg)
		},
	}
	config.BindFlags(cmdSolve, &cfg)
	root.AddCommand(cmdSolve)

	var solutionPath string
	cmdScore := &cobra.Command{
		Use:   "score <instance.exam>",
		Short: "score an existing booking against an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(args[0], solutionPath)
		},
	}
	cmdScore.Flags().StringVar(&solutionPath, "solution", "", "path to a booking file (exam, period, room[, room...]) per line")
	cmdScore.MarkFlagRequired("solution")
	root.AddCommand(cmdScore)

	cmdValidate := &cobra.Command{
		Use:   "validate <instance.exam>",
		Short: "check that an instance file is structurally sound",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
	root.AddCommand(cmdValidate)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *obslog.Logger {
	l, err := obslog.New(false)
	if err != nil {
		return obslog.Nop()
	}
	return l
}
