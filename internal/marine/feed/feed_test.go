package feed

import (
	"github.com/i474232898/surfwatch/internal/marine"
)

// Real-world shaped fixtures: the history feed carries a units line and is newest first.
const (
	latestFeed = `#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS PTDY  TIDE
2024 03 05 14 30 290  7.0  9.0   1.8    12   8.4 285 1016.2  13.1  14.2   8.9   MM   MM    MM
`

	recentFeed = `#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS PTDY  TIDE
#yr  mo dy hr mn degT m/s  m/s     m   sec   sec degT   hPa  degC  degC  degC  nmi  hPa    ft
2024 03 05 14 50 290  7.0  9.0   1.9    12   8.4 285 1016.2  13.1  14.2   8.9   MM   MM    MM
2024 03 05 14 40 280  6.0  8.0   1.8    12   8.3 284 1016.3  13.0  14.2   8.9   MM   MM    MM
2024 03 05 14 30 270  5.0   MM   1.7    11   8.2 283 1016.4  12.9  14.1   8.8   MM   MM    MM
2024 03 05 14 20 260  4.0  6.0   1.6    11   8.1 282 1016.5  12.8  14.1   8.8   MM   MM    MM
2024 03 05 14 10 250  3.0  5.0   1.5    10   8.0 281 1016.6  12.7  14.0   8.7   MM   MM    MM
`
)

func deref(v *float64) float64 {
	if v == nil {
		panic("unexpected nil value")
	}
	return *v
}

func timestamps(obs []marine.Observation) []string {
	out := make([]string, len(obs))
	for i, o := range obs {
		out[i] = o.Timestamp
	}
	return out
}
