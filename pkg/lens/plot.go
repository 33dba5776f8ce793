package lens

import (
	"time"

	"github.com/temporal-lens/lens/internal/attach"
	"github.com/temporal-lens/lens/internal/wire"
)

// SubmitPlot pushes one sample of a named numeric time series (spec §4.8,
// C9). Series are identified by the interned key of name; like Zone names,
// the first successful push for a given name's key carries the bytes, and
// subsequent ones may omit them — tracked here by a per-name seriesKey
// cache rather than a static descriptor, since a plot series name is
// typically a runtime string (e.g. "fps", a per-entity label) rather than
// a single fixed call site.
//
// Silently no-ops while unattached (spec §7, "Unattached").
func SubmitPlot(seriesName string, value float64, color wire.Color) {
	region, startTime := attach.Get()
	if region == nil {
		return
	}

	now := time.Now().Sub(startTime).Seconds()
	if now < 0 {
		now = 0
	}

	key, firstSight := plotSeriesKey(seriesName)

	var data wire.PlotData
	data.Time = now
	data.Color = color
	data.Value = value
	data.Name.Set(key, seriesName, firstSight)

	if region.PlotData.Push(wire.Identity(data)) && firstSight {
		markPlotSeriesSent(seriesName)
	}
}
