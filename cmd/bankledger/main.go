package main

import "github.com/pcosta/bankledger/internal/adapter/cli"

func main() {
	cli.Execute()
}
