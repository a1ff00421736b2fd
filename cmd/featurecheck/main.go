// Command featurecheck inspects model artifacts and encodes sample requests
// exactly as the server would, to verify that serving-time encoding matches
// the training columns.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
