// isearch — search and verify Android init.rc files.
package main

import "github.com/intel/initsearchtool/internal/cli"

func main() {
	cli.Execute()
}
