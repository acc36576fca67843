// timegraph shows hierarchical trace entries on a shared, zoomable time axis.
package main

import (
	"os"

	"github.com/wethinkt/go-timegraph/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
