package main

import "github.com/oshokin/sparkle-appcast/cmd/appcast-validator/cmd"

func main() {
	cmd.Execute()
}
