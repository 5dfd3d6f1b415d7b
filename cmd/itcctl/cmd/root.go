/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/itcclock/pkg/di"
)

var container *di.Container

// SetContainer injects the dependency container built by main.
func SetContainer(c *di.Container) {
	container = c
}

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "itcctl",
	Short: "Interval Tree Clock command-line tool",
	Long: `itcctl operates on a single Interval Tree Clock pair persisted to a
state file: seed it once, then fork/event/join/sync/peek against it, or
serve it over HTTP for other replicas to synchronize against.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("state", "s", "./itcclock.state", "Path to the clock's state file")
}
