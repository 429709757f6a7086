package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samirrijal/pumpedcity/internal/core/usecases"
)

func newLocateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Run geolocation only and print the map center",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}

			p := newPage(cfg, newLocator(cfg.Location), cmd.ErrOrStderr())
			state := p.ctrl.Load(cmd.Context())

			center, zoom, _ := p.gmap.Center()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "state\t%s\n", state)
			fmt.Fprintf(out, "center\t%g,%g\n", center.Lat, center.Lon)
			fmt.Fprintf(out, "zoom\t%d\n", zoom)
			if state == usecases.GeoLocated {
				form := p.ctrl.Form()
				fmt.Fprintf(out, "form\t%s,%s (locked)\n", form.Get(usecases.FieldLatitude), form.Get(usecases.FieldLongitude))
			}
			return nil
		},
	}
}
