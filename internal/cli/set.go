package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deskshell/themed/internal/theme"
)

var (
	setHue        float64
	setSaturation float64
	setLightness  float64
	setAlpha      float64
	setLightText  bool
)

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().Float64Var(&setHue, "hue", 0, "hue in degrees [0,360)")
	setCmd.Flags().Float64Var(&setSaturation, "saturation", 0, "saturation percent [0,100]")
	setCmd.Flags().Float64Var(&setLightness, "lightness", 0, "lightness percent [0,100]")
	setCmd.Flags().Float64Var(&setAlpha, "alpha", 0, "surface opacity [0,1]")
	setCmd.Flags().BoolVar(&setLightText, "light-text", false, "force a light primary text color")
}

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Apply a partial theme update",
	Long:  "Merge the given fields onto the current theme descriptor.\nOnly flags that are set change anything; the rest keep their values.",
	RunE: func(cmd *cobra.Command, args []string) error {
		update := theme.Update{}
		if cmd.Flags().Changed("hue") {
			update.Hue = &setHue
		}
		if cmd.Flags().Changed("saturation") {
			update.Saturation = &setSaturation
		}
		if cmd.Flags().Changed("lightness") {
			update.Lightness = &setLightness
		}
		if cmd.Flags().Changed("alpha") {
			update.Alpha = &setAlpha
		}
		if cmd.Flags().Changed("light-text") {
			update.LightText = &setLightText
		}
		if update == (theme.Update{}) {
			return fmt.Errorf("nothing to set, pass at least one of --hue, --saturation, --lightness, --alpha, --light-text")
		}

		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		ctx := cmd.Context()
		rt.manager.Initialize(ctx)

		// Clamp flag input into valid ranges before applying.
		merged := rt.manager.Descriptor()
		merged.Merge(update)
		merged.Normalize()
		rt.manager.Apply(ctx, theme.NewRecord(merged).Colors)

		// A one-shot process exits before the debounce window; write
		// now instead of losing the change.
		rt.manager.Flush(ctx)

		d := rt.manager.Descriptor()
		fmt.Fprintf(cmd.OutOrStdout(), "theme: hue %s, saturation %s%%, lightness %s%%, alpha %s\n",
			formatValue(d.Hue), formatValue(d.Saturation), formatValue(d.Lightness), formatValue(d.Alpha))
		return nil
	},
}
