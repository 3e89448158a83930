// Package usage estimates the daily energy use and cost of appliances.
//
// The calculator is pure: it reads a catalogue index and a tariff and
// never errors. An appliance whose archetype is unknown, or whose usage
// type is not recognised, is estimated at zero.
package usage

import (
	"github.com/nerrad567/currently-core/internal/catalogue"
	"github.com/nerrad567/currently-core/internal/household"
)

// DefaultTariff is the electricity price per kWh used when none is configured.
const DefaultTariff = 0.30

// Calculator derives energy and cost figures for user appliances.
type Calculator struct {
	catalogue *catalogue.Index
	tariff    float64
}

// NewCalculator returns a Calculator pricing energy at tariff per kWh.
// A non-positive tariff falls back to DefaultTariff. idx supplies wattages
// and default rates; an appliance whose archetype idx does not know
// derives to zero.
func NewCalculator(idx *catalogue.Index, tariff float64) *Calculator {
	if tariff <= 0 {
		tariff = DefaultTariff
	}
	return &Calculator{catalogue: idx, tariff: tariff}
}

// Tariff returns the price per kWh.
func (c *Calculator) Tariff() float64 {
	return c.tariff
}

// Estimate is the derived energy and cost of one appliance for a day.
type Estimate struct {
	DailyKWh  float64
	DailyCost float64
}

// DailyKWh computes energy use in kWh per day.
//
// Continuous appliances use averageWatts * hoursPerDay / 1000 and per-use
// appliances use averageWattsPerUse * usesPerDay / 1000. A missing rate
// falls back to the archetype's default. The record's usage type wins;
// the archetype's is used only when the record has none.
func (c *Calculator) DailyKWh(a household.Appliance) float64 {
	base, ok := c.catalogue.Lookup(a.ApplianceName)
	if !ok {
		return 0
	}
	usageType := a.UsageType
	if usageType == "" {
		usageType = base.UsageType
	}

	switch usageType {
	case catalogue.Continuous:
		return base.AverageWatts * rate(a.HoursPerDay, base.DefaultHoursPerDay) / 1000
	case catalogue.PerUse:
		return base.AverageWattsPerUse * rate(a.UsesPerDay, base.DefaultUsesPerDay) / 1000
	default:
		return 0
	}
}

// Estimate computes kWh and cost without regard to any server-supplied values.
func (c *Calculator) Estimate(a household.Appliance) Estimate {
	kwh := c.DailyKWh(a)
	return Estimate{DailyKWh: kwh, DailyCost: kwh * c.tariff}
}

// Derive returns a copy of a with DailyKWh and EstimatedDailyCost filled in
// where they are absent. Values already present are kept.
func (c *Calculator) Derive(a household.Appliance) household.Appliance {
	out := a.Clone()
	if out.DailyKWh == nil {
		out.DailyKWh = household.Float(c.DailyKWh(a))
	}
	if out.EstimatedDailyCost == nil {
		out.EstimatedDailyCost = household.Float(*out.DailyKWh * c.tariff)
	}
	return out
}

// Effective returns the estimate for a, preferring values already on the
// record and deriving the rest.
func (c *Calculator) Effective(a household.Appliance) Estimate {
	d := c.Derive(a)
	return Estimate{DailyKWh: *d.DailyKWh, DailyCost: *d.EstimatedDailyCost}
}

// Sum adds up the effective estimates of appliances.
func (c *Calculator) Sum(appliances []household.Appliance) Estimate {
	var total Estimate
	for _, a := range appliances {
		e := c.Effective(a)
		total.DailyKWh += e.DailyKWh
		total.DailyCost += e.DailyCost
	}
	return total
}

func rate(v *float64, fallback float64) float64 {
	if v != nil {
		return *v
	}
	return fallback
}
