package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/samirrijal/pumpedcity/internal/core/usecases"
)

type searchOptions struct {
	lat, lon string
	radius   string
	endpoint string
	mapOut   string
}

func newSearchCmd(root *rootOptions) *cobra.Command {
	opts := &searchOptions{}

	cmd := &cobra.Command{
		Use:   "search",
		Short: "Locate, search and print the nearest bike parkings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.load(cmd)
			if err != nil {
				return err
			}
			if opts.endpoint != "" {
				cfg.Page.Endpoint = opts.endpoint
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			// A position given on the command line replaces geolocation.
			manual := opts.lat != "" || opts.lon != ""
			locator := newLocator(cfg.Location)
			if manual {
				locator = nil
			}

			p := newPage(cfg, locator, cmd.ErrOrStderr())
			p.ctrl.Load(ctx)

			form := p.ctrl.Form()
			for field, value := range map[string]string{
				usecases.FieldLatitude:  opts.lat,
				usecases.FieldLongitude: opts.lon,
				usecases.FieldRadius:    opts.radius,
			} {
				if value == "" {
					continue
				}
				if err := form.Set(field, value); err != nil {
					return err
				}
			}

			if err := p.ctrl.Submit(ctx); err != nil {
				return fmt.Errorf("search: %w", err)
			}

			if _, err := p.table.WriteTo(cmd.OutOrStdout()); err != nil {
				return err
			}
			if opts.mapOut != "" {
				return writeMap(p, opts.mapOut)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.lat, "lat", "", "latitude, skips geolocation")
	cmd.Flags().StringVar(&opts.lon, "lon", "", "longitude, skips geolocation")
	cmd.Flags().StringVar(&opts.radius, "radius", "", "search radius in meters")
	cmd.Flags().StringVar(&opts.endpoint, "endpoint", "", "search API endpoint")
	cmd.Flags().StringVar(&opts.mapOut, "map-out", "", "write the map as GeoJSON to this file")
	return cmd
}

func writeMap(p *page, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map file: %w", err)
	}
	if _, err := p.gmap.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write map: %w", err)
	}
	return f.Close()
}
