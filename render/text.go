// Package render turns a computed schedule into text: the marker and
// summary strings the API returns, and the terminal views schedulectl prints.
package render

import (
	"fmt"
	"strings"

	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/generic"
	"github.com/warp/schedule-engine/schedule"
)

// Marker is drawn at every occurrence.
const Marker = "🧰"

// Title is the chart heading, "program - frequency - plan".
func Title(program, frequency, plan string) string {
	return strings.Join([]string{program, frequency, plan}, " - ")
}

// MarkerText is the text drawn at an occurrence. Detailed programs show the
// price and the panel on a second line.
func MarkerText(mode catalog.DisplayMode, price generic.Money, detail string) string {
	if mode == catalog.DisplayPriceAndDetail {
		return fmt.Sprintf("%s %s\n %s", Marker, price.Short(), detail)
	}
	return Marker
}

// Summary is the one-line cost sentence shown under the chart.
func Summary(mode catalog.DisplayMode, res *schedule.Result) string {
	if mode == catalog.DisplayPriceAndDetail {
		return fmt.Sprintf("Customer pays: %s every month for %d months",
			res.PricePerOccurrence, res.EffectiveDurationMonths)
	}
	return fmt.Sprintf("Customer pays: %s for %d months (%d %s)",
		res.TotalCost(), res.EffectiveDurationMonths, res.Count(), plural(res.Count(), "test"))
}

// PriceLine states the per-occurrence price.
func PriceLine(price generic.Money) string {
	return "Price per panel: " + price.Short()
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
