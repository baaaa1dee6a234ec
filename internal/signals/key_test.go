package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalKey(t *testing.T) {
	key := SignalKey("market_index", "dxb_pulse", "price_trend", "community", "geo_123", "apartment", "90d", "2026-08-01")
	assert.Equal(t, "market_index|dxb_pulse|price_trend|community|geo_123|apartment|90d|2026-08-01", key)
}

func TestSignalKey_Stable(t *testing.T) {
	a := SignalKey("s", "src", "t", "g", "id", "seg", "30d", "2026-08-01")
	b := SignalKey("s", "src", "t", "g", "id", "seg", "30d", "2026-08-01")
	assert.Equal(t, a, b, "same components must yield the same key")
}

func TestSignalKey_ComponentSensitive(t *testing.T) {
	base := SignalKey("s", "src", "t", "g", "id", "seg", "30d", "2026-08-01")

	variants := []string{
		SignalKey("x", "src", "t", "g", "id", "seg", "30d", "2026-08-01"),
		SignalKey("s", "x", "t", "g", "id", "seg", "30d", "2026-08-01"),
		SignalKey("s", "src", "x", "g", "id", "seg", "30d", "2026-08-01"),
		SignalKey("s", "src", "t", "x", "id", "seg", "30d", "2026-08-01"),
		SignalKey("s", "src", "t", "g", "x", "seg", "30d", "2026-08-01"),
		SignalKey("s", "src", "t", "g", "id", "x", "30d", "2026-08-01"),
		SignalKey("s", "src", "t", "g", "id", "seg", "x", "2026-08-01"),
		SignalKey("s", "src", "t", "g", "id", "seg", "30d", "x"),
	}

	for i, v := range variants {
		assert.NotEqual(t, base, v, "changing component %d must change the key", i)
	}
}

func TestTargetKey(t *testing.T) {
	assert.Equal(t, "org_1|sig_1|inv_1", TargetKey("org_1", "sig_1", "inv_1"))
	assert.NotEqual(t, TargetKey("org_1", "sig_1", "inv_1"), TargetKey("org_1", "sig_1", "inv_2"))
}
