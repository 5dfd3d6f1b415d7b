package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/itcclock/pkg/itc"
)

var timestampCmd = &cobra.Command{
	Use:   "timestamp",
	Short: "Print the held clock's own timestamp",
	Long: `Prints the base64-encoded EventTree of the pair held in the state
file, unlike "peek" this does not strip its authority first - it is the
clock's own timestamp, not a sharable anonymous snapshot.

Example:
  itcctl timestamp --state=./replica-a.state`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("state")

		pair, err := loadState(path)
		if err != nil {
			return err
		}

		fmt.Println(base64.StdEncoding.EncodeToString(itc.EncodeEventTree(pair.Timestamp())))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(timestampCmd)
}
