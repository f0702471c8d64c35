package main

import (
	"os"

	"github.com/rvermeulen/codeql-postproc/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
