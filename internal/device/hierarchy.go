package device

import (
	"context"
	"fmt"
	"sync"
)

// ParallelGroup is a set of inverters operating in a master/slave
// parallel configuration (decoded per-unit from the packed
// parallel_config register), plus at most one GridBOSS/MID companion
// managing the group's AC-side interconnection.
type ParallelGroup struct {
	Name      string
	Inverters []*Inverter
	MID       *MID // nil if this group has no GridBOSS
}

// RefreshAll fans out Refresh across every inverter in the group
// concurrently, matching the façade's own per-cache concurrency model
// one level up: independent devices never block each other.
func (g *ParallelGroup) RefreshAll(ctx context.Context, force, includeParameters bool) error {
	var wg sync.WaitGroup
	errs := make([]error, len(g.Inverters))
	wg.Add(len(g.Inverters))
	for i, inv := range g.Inverters {
		go func(i int, inv *Inverter) {
			defer wg.Done()
			errs[i] = inv.Refresh(ctx, force, includeParameters)
		}(i, inv)
	}
	wg.Wait()

	if g.MID != nil {
		if _, err := g.MID.Runtime(ctx, force); err != nil {
			errs = append(errs, fmt.Errorf("mid %s: %w", g.MID.Serial, err))
		}
	}

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// Station is the top of the device hierarchy: a physical site that may
// contain one or more parallel groups (a single-inverter site is
// modeled as a one-group, one-inverter station).
type Station struct {
	Name   string
	Groups []*ParallelGroup
}

// AllInverters flattens every inverter across every group in the
// station, for callers that want a simple fan-out target without
// caring about parallel-group boundaries.
func (s *Station) AllInverters() []*Inverter {
	var out []*Inverter
	for _, g := range s.Groups {
		out = append(out, g.Inverters...)
	}
	return out
}

// RefreshAll refreshes every group in the station concurrently.
func (s *Station) RefreshAll(ctx context.Context, force, includeParameters bool) error {
	var wg sync.WaitGroup
	errs := make([]error, len(s.Groups))
	wg.Add(len(s.Groups))
	for i, g := range s.Groups {
		go func(i int, g *ParallelGroup) {
			defer wg.Done()
			errs[i] = g.RefreshAll(ctx, force, includeParameters)
		}(i, g)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
