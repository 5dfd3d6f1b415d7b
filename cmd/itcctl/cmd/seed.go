package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/itcclock/pkg/itc"
)

var seedForce bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a new state file holding a freshly seeded clock",
	Long: `Writes a new state file containing a pair with full authority and
empty history. Refuses to overwrite an existing state file unless --force
is given.

Example:
  itcctl seed --state=./replica-a.state`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("state")

		if _, err := os.Stat(path); err == nil && !seedForce {
			return fmt.Errorf("state file already exists: %s (use --force to overwrite)", path)
		}

		pair := itc.Seed()
		if err := saveState(path, pair); err != nil {
			return err
		}

		fmt.Printf("Seeded new clock at %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Overwrite an existing state file")
}
