package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/types"
	"gopkg.in/yaml.v3"
)

type factoryListItem struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Codec       string          `yaml:"codec"`
	MediaType   types.MediaType `yaml:"media_type"`
	PassTexture bool            `yaml:"pass_texture,omitempty"`
	Deprecated  bool            `yaml:"deprecated,omitempty"`
	Proxies     []string        `yaml:"proxies,omitempty"`
	HelpURL     string          `yaml:"help_url,omitempty"`
}

func newListCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the registered encoder factories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var items []factoryListItem
			for _, f := range encoder.Default().Factories() {
				caps := f.Info.Capabilities
				if caps.Has(encoder.FactoryCapabilityDeprecated) && !all {
					continue
				}
				items = append(items, factoryListItem{
					ID:          f.Info.ID,
					Name:        f.Info.Name,
					Codec:       f.Info.CodecName,
					MediaType:   f.Info.MediaType,
					PassTexture: caps.Has(encoder.FactoryCapabilityPassTexture),
					Deprecated:  caps.Has(encoder.FactoryCapabilityDeprecated),
					Proxies:     f.Info.Proxies,
					HelpURL:     f.HelpURL(),
				})
			}
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			if err := enc.Encode(items); err != nil {
				return fmt.Errorf("unable to print the factories: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "include encoders without a dedicated handler")
	return cmd
}
