package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/chazu/stencilstation/pkg/pen"
)

// profilesCmd lists the pen catalog.
var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the supported pen profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "INDEX\tNAME\tMIN\tMAX\tANGLE\tSHAFT\tBEVEL\tWALL")
		for i, p := range pen.Catalog {
			marker := ""
			if i == cfg.Pen {
				marker = " *"
			}
			wall := "beveled"
			if p.Straight(cfg.PlateThickness) {
				wall = "straight"
			}
			fmt.Fprintf(tw, "%d%s\t%s\t%.2f\t%.2f\t%.0f\t%.2f\t%.2f\t%s\n",
				i, marker, p.Name, p.MinWidth, p.MaxWidth, p.BevelAngle, p.ShaftDepth,
				p.BevelHeight(cfg.PlateThickness), wall)
		}
		return tw.Flush()
	},
}
