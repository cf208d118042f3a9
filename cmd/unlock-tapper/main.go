package main

import "github.com/oshokin/unlock-tapper/cmd/unlock-tapper/cmd"

func main() {
	cmd.Execute()
}
