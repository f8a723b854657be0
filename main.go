package main

import "spare-manager/cmd"

func main() {
	cmd.Execute()
}
