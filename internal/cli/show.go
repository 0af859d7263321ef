package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskshell/themed/internal/colormath"
)

var showContrast bool

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showContrast, "contrast", false, "include a contrast report")
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the rendered style variables",
	Long:  "Load the persisted theme, run a full render pass and print the\nresulting CSS custom-property block.",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		rt.manager.Initialize(cmd.Context())

		out := cmd.OutOrStdout()
		fmt.Fprint(out, rt.vars.CSS())

		if !showContrast {
			return nil
		}

		d := rt.manager.Descriptor()
		primary := colormath.HSLToRGB(d.Hue, d.Saturation, d.Lightness)
		sidebar := colormath.BlendWithWhite(primary, d.Alpha)
		text := colormath.OptimalTextColor(sidebar)
		ratio := colormath.ContrastRatio(text, sidebar)

		verdict := "fails AA"
		if ratio >= 4.5 {
			verdict = "meets AA"
		}
		fmt.Fprintf(out, "\nsidebar %s on %s: contrast %.2f:1 (%s)\n",
			text.Hex(), sidebar.Hex(), ratio, verdict)
		return nil
	},
}
