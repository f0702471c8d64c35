package cmd

import (
	"github.com/spf13/cobra"

	databaseproperty "github.com/rvermeulen/codeql-postproc/cmd/database-property"
	databaseprovenance "github.com/rvermeulen/codeql-postproc/cmd/database-provenance"
)

var databaseCmd = &cobra.Command{
	Use:                   "database [command]",
	Short:                 "Operate on CodeQL database properties",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
}

func init() {
	databaseCmd.AddCommand(databaseprovenance.AddProvenanceCmd)
	databaseCmd.AddCommand(databaseproperty.GetPropertyCmd)
}
