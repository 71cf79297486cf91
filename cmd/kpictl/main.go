// Command kpictl scores, ranks and forecasts a KPI dataset offline, and can
// feed synthetic samples to a running stationkpi server.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
