// Command jobdeskctl runs maintenance tasks against the jobdesk database:
// migrations, demo fixtures, backup and restore.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
