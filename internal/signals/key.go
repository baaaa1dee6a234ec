package signals

import "strings"

// keySeparator joins signal key components. Components never contain it in
// practice; geo ids and segments are slugs.
const keySeparator = "|"

// SignalKey derives the deterministic composite key used as the sole
// deduplication boundary for signal ingestion. The key is stable for the
// same logical observation and differs whenever any component differs.
// anchor is the trailing window or as-of date of the observation.
func SignalKey(sourceType, source, signalType, geoType, geoID, segment, timeframe, anchor string) string {
	return strings.Join([]string{
		sourceType,
		source,
		signalType,
		geoType,
		geoID,
		segment,
		timeframe,
		anchor,
	}, keySeparator)
}

// TargetKey identifies a signal-to-investor mapping. The same triple is the
// upsert conflict key in storage, which is what makes repeated matcher runs
// idempotent.
func TargetKey(orgID, signalID, investorID string) string {
	return strings.Join([]string{orgID, signalID, investorID}, keySeparator)
}
