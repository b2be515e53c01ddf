// Package feed reads NOAA National Data Buoy Center (NDBC) text feeds.
//
// # Format
//
// Both the latest-sample and the rolling-history endpoints serve a
// whitespace-delimited table. The first line is the column header and is
// prefixed with "#"; the history feed adds a second "#" line of units:
//
//	#YY  MM DD hh mm WDIR WSPD GST  WVHT   DPD   APD MWD   PRES  ATMP  WTMP  DEWP  VIS PTDY  TIDE
//	#yr  mo dy hr mn degT m/s  m/s     m   sec   sec degT   hPa  degC  degC  degC  nmi  hPa    ft
//	2024 03 05 14 30 290  7.0  9.0   1.8    12   8.4 285 1016.2  13.1  14.2   8.9   MM   MM    MM
//
// History rows are most recent first.
//
// # Missing values
//
// "MM" is the NDBC sentinel for a value that was not reported. It and any
// other cell that does not parse to a finite number become nil; nothing is
// ever defaulted to zero.
//
// # Header drift
//
// Older revisions of the feeds name the date columns YR MN DY HR MT, and
// some endpoints use AP for APD and WGST for GST. Each canonical field has
// an ordered alias list and the first header present in a row wins.
package feed
