package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/itcclock/pkg/itc"
)

var syncCmd = &cobra.Command{
	Use:   "sync <base64-timestamp>",
	Short: "Merge a remote timestamp into the held clock's history",
	Long: `Merges a base64-encoded EventTree (as printed by "itcctl peek" or
"itcctl event") into the clock's history without claiming any of its
authority.

Example:
  itcctl sync --state=./replica-a.state "$(itcctl peek --state=./replica-b.state)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("state")

		raw, err := base64.StdEncoding.DecodeString(args[0])
		if err != nil {
			return fmt.Errorf("invalid base64 timestamp: %w", err)
		}
		remote, err := itc.DecodeEventTree(raw)
		if err != nil {
			return fmt.Errorf("malformed timestamp: %w", err)
		}

		pair, err := loadState(path)
		if err != nil {
			return err
		}

		pair.Sync(remote)
		if err := saveState(path, pair); err != nil {
			return err
		}

		fmt.Println("synced")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
