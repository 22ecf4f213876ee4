package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/settings"
)

func newDefaultsCommand() *cobra.Command {
	var withProperties bool
	cmd := &cobra.Command{
		Use:   "defaults <factory id>",
		Short: "Print the default settings of an encoder factory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f := encoder.Default().Factory(args[0])
			if f == nil {
				return fmt.Errorf("factory '%s' is not found", args[0])
			}
			s := f.Defaults(ctx)
			if err := s.Save(os.Stdout); err != nil {
				return fmt.Errorf("unable to print the settings: %w", err)
			}
			if !withProperties {
				return nil
			}
			fmt.Println("---")
			f.Properties(ctx, nil).Walk(func(prop *settings.Property, depth int) {
				state := ""
				if !prop.Enabled {
					state += " (disabled)"
				}
				if !prop.Visible {
					state += " (hidden)"
				}
				fmt.Printf("%*s%s: %s%s\n", depth*2, "", prop.Key, prop.Name, state)
			})
			return nil
		},
	}
	cmd.Flags().BoolVar(&withProperties, "properties", false, "also print the property tree")
	return cmd
}
