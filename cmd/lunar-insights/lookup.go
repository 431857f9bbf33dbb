package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/lunar-insights/internal/config"
	"github.com/i474232898/lunar-insights/internal/geo"
	"github.com/i474232898/lunar-insights/internal/store"
	"github.com/i474232898/lunar-insights/internal/view"
)

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var src geo.Source
	if cmd.Flags().Changed("lat") {
		src = geo.NewFixedSource(lookupLat, lookupLng)
	}
	a := newServices(cfg, src)

	switch {
	case lookupZip != "":
		seq, err := a.resolver.ResolveFromZip(lookupZip)
		if err != nil {
			return err
		}
		if seq == 0 {
			return fmt.Errorf("zip code %q is too short", lookupZip)
		}
	case a.device:
		if _, err := a.resolver.ResolveFromDevice(cmd.Context()); err != nil {
			return errors.New(geo.Message(err))
		}
	default:
		return errors.New("no location: pass --zip, --lat/--lng or configure DEVICE_LAT/DEVICE_LNG or DEVICE_ADDRESS")
	}

	a.resolver.Wait()

	status := a.store.Current()
	if status.State != store.StateLoaded || status.Snapshot == nil {
		return errors.New(status.Message)
	}

	var out any = view.Build(*status.Snapshot, view.DefaultCanvas)
	if showRaw {
		out = status.Snapshot
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
