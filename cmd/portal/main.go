package main

import "github.com/coverleaf/go-portal/cmd/portal/cmd"

func main() {
	cmd.Execute()
}
