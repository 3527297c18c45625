// Package main is the hob command line: it runs the bot, migrates its postgres schema and
// tells its version.
//
//	hob run --config ~/.config/hob/config.yaml
//	hob migrate
//	hob version
//
// Environment variables from ~/.config/hob/config (dotenv format) are loaded first. Those
// already defined in the environment take precedence.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/gadling/hob"
	"github.com/gadling/hob/config"
)

// exitCodeFatal is the exit code of a run ending in a fatal error
const exitCodeFatal = 7

func main() {
	if err := config.LoadEnvFile(config.DefaultEnvFile); err != nil {
		log.Printf("Ignoring env file: %v", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hob: %v\n", err)
		os.Exit(exitCodeFatal)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "hob",
		Short:         "hob is a slack bot with a brain, a hangman game and a chili dog habit",
		Version:       hob.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the configuration file (yaml, json or toml)")

	root.AddCommand(newRunCmd(&configPath), newMigrateCmd(&configPath), newVersionCmd())

	return root
}

func newRunCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Connects to slack and runs the bot until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			return run(cmd.Context(), v)
		},
	}
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Creates the postgres tables that don't exist yet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			if err = migrate(cmd.Context(), v); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")

			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "hob %s (%s)\n", hob.Version, hob.Homepage)
		},
	}
}
