package main

import "mspro-labs/inspection-map/cmd"

func main() {
	cmd.Execute()
}
