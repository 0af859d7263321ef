package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(resetCmd)
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default theme",
	Long:  "Replace the theme with the compiled-in defaults and delete the persisted record.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		ctx := cmd.Context()
		rt.manager.Initialize(ctx)
		rt.manager.Reset(ctx)

		fmt.Fprintln(cmd.OutOrStdout(), "theme reset to defaults")
		return nil
	},
}
