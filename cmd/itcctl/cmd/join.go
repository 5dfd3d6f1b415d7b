package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/itcclock/pkg/itc"
)

var joinCmd = &cobra.Command{
	Use:   "join <base64-pair>",
	Short: "Reunite a forked-off pair with the held clock",
	Long: `Joins a base64-encoded pair (as printed by "itcctl fork") back into
the clock held in the state file, reuniting their authority and history.

Example:
  itcctl join --state=./replica-a.state "$(cat child.b64)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("state")

		raw, err := base64.StdEncoding.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid base64 pair: %w", err)
		}
		remote, err := itc.DecodePair(raw)
		if err != nil {
			return fmt.Errorf("malformed pair: %w", err)
		}

		pair, err := loadState(path)
		if err != nil {
			return err
		}

		if err := pair.Join(remote); err != nil {
			return fmt.Errorf("failed to join: %w", err)
		}
		if err := saveState(path, pair); err != nil {
			return err
		}

		fmt.Println("joined")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(joinCmd)
}
