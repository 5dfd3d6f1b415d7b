package cmd

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/itcclock/pkg/itc"
)

var forkCmd = &cobra.Command{
	Use:   "fork",
	Short: "Split the held clock's authority and print the child",
	Long: `Forks the clock held in the state file: the file keeps one half of
the authority, and the other half is printed to stdout as a base64-encoded
pair, ready to hand to another process or replica.

Example:
  itcctl fork --state=./replica-a.state > child.b64`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("state")

		pair, err := loadState(path)
		if err != nil {
			return err
		}

		child := pair.Fork()
		if err := saveState(path, pair); err != nil {
			return err
		}

		fmt.Println(base64.StdEncoding.EncodeToString(itc.EncodePair(child)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(forkCmd)
}
