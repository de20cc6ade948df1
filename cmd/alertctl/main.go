// Command alertctl manages appliances and their maintenance alerts through the
// alertd REST API.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
