// Command edb is a time-travel debugger for Ethereum smart contracts: it
// re-executes a historical transaction against archival state and serves
// the resulting snapshot sequence over JSON-RPC (spec §1, §4.12).
package main

import (
	"log"

	"github.com/arr4n/edb/internal/edbcli"
)

func main() {
	if err := edbcli.Run(); err != nil {
		log.Fatal(err)
	}
}
