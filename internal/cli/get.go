package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deskshell/themed/internal/theme"
)

func init() {
	rootCmd.AddCommand(getCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <field>",
	Short: "Print a single theme field",
	Long: "Print one field of the current theme descriptor.\n" +
		"Fields: " + strings.Join(fieldNames(), ", "),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		rt.manager.Initialize(cmd.Context())

		value, err := rt.manager.Get(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), formatValue(value))
		return nil
	},
}

func fieldNames() []string {
	return []string{
		theme.FieldHue,
		theme.FieldSaturation,
		theme.FieldLightness,
		theme.FieldAlpha,
		theme.FieldLightText,
	}
}

func formatValue(v any) string {
	switch value := v.(type) {
	case float64:
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.4f", value), "0"), ".")
	default:
		return fmt.Sprintf("%v", value)
	}
}
