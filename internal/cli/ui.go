package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/deskshell/themed/internal/tui"
)

func init() {
	rootCmd.AddCommand(uiCmd)
}

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Interactively preview and adjust the theme",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("the theme preview requires an interactive terminal")
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		ctx := cmd.Context()
		rt.manager.Initialize(ctx)

		program := tea.NewProgram(tui.NewModel(rt.manager))
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("preview failed: %w", err)
		}

		// Persist whatever the user left selected.
		rt.manager.Flush(ctx)
		return nil
	},
}
