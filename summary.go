package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hako/durafmt"
)

var (
	sessionStart  = time.Now()
	shortUnits, _ = durafmt.DefaultUnitsCoder.Decode("y:yrs,wk:wks,d:d,h:h,m:m,s:s,ms:ms,us:us")
)

// summaryLine renders the periodic session summary for the console.
func summaryLine(t *tracker) string {
	elapsed := durafmt.Parse(time.Since(sessionStart).Round(time.Second)).LimitFirstN(2).Format(shortUnits)
	return fmt.Sprintf("%s: %s packets, %s dropped, %s profiles, %d zones mapped",
		elapsed,
		humanize.Comma(t.packets),
		humanize.Comma(t.dropped),
		humanize.Comma(int64(t.agg.Len())),
		len(t.spawns.Zones()))
}
