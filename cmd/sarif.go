package cmd

import (
	"github.com/spf13/cobra"

	sarifprovenance "github.com/rvermeulen/codeql-postproc/cmd/sarif-provenance"
)

var sarifCmd = &cobra.Command{
	Use:                   "sarif [command]",
	Short:                 "Operate on SARIF result files",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
}

func init() {
	sarifCmd.AddCommand(sarifprovenance.AddProvenanceCmd)
}
