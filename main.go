package main

import "github.com/guaraci/paylink-gateway/cmd"

func main() {
	cmd.Execute()
}
