package record

// Recompute rewrites every derived field of records, which must already be
// in date order. Each record depends on the whole prefix before it, so the
// pass always runs over the full sequence. The progress before the first
// record is taken as exactly zero, and a zero area period or prefix yields a
// zero FGR.
func Recompute(records []ProgressRecord, totalArea float64) {
	var prevPct, prevCumArea, prevCumWaste float64
	for i := range records {
		r := &records[i]
		r.IncrementPct = r.CumulativeProgressPct - prevPct
		r.PeriodArea = totalArea * r.IncrementPct / 100
		r.PeriodWasteVolume = r.WasteBreakdown.Total()
		r.PeriodFGR = ratio(r.PeriodWasteVolume, r.PeriodArea)
		r.CumulativeArea = prevCumArea + r.PeriodArea
		r.CumulativeWasteVolume = prevCumWaste + r.PeriodWasteVolume
		r.CumulativeFGR = ratio(r.CumulativeWasteVolume, r.CumulativeArea)

		prevPct = r.CumulativeProgressPct
		prevCumArea = r.CumulativeArea
		prevCumWaste = r.CumulativeWasteVolume
	}
}

func ratio(volume, area float64) float64 {
	if area > 0 {
		return volume / area
	}
	return 0
}
