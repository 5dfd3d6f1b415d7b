package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/itcclock/pkg/itc"
)

var peekCmd = &cobra.Command{
	Use:   "peek",
	Short: "Print an anonymous snapshot of the held clock's timestamp",
	Long: `Prints the base64-encoded timestamp of an anonymous copy of the
held pair: a value with no authority, suitable for handing to a peer that
should learn this clock's history but never be mistaken for it.

Example:
  itcctl peek --state=./replica-a.state`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("state")

		pair, err := loadState(path)
		if err != nil {
			return err
		}

		snapshot := pair.Peek()
		fmt.Println(base64.StdEncoding.EncodeToString(itc.EncodeEventTree(snapshot.Timestamp())))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(peekCmd)
}
