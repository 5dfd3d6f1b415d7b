package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/itcclock/pkg/itc"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Record a local event against the held clock",
	Long: `Advances the clock's own history by one event and prints its new
timestamp, base64-encoded.

Example:
  itcctl event --state=./replica-a.state`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("state")

		pair, err := loadState(path)
		if err != nil {
			return err
		}

		if err := pair.Event(); err != nil {
			return fmt.Errorf("failed to record event: %w", err)
		}
		if err := saveState(path, pair); err != nil {
			return err
		}

		fmt.Println(base64.StdEncoding.EncodeToString(itc.EncodeEventTree(pair.Timestamp())))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(eventCmd)
}
