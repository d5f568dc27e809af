// Package main is the entry point for the dbt-lineage CLI.
package main

import (
	"github.com/madstone-tech/dbt-lineage/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, date, builtBy)
	cmd.Execute()
}
