package main

import "github.com/Alijeyrad/stgeorge_backend/cmd"

func main() {
	cmd.Execute()
}
