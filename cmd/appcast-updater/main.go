package main

import "github.com/oshokin/sparkle-appcast/cmd/appcast-updater/cmd"

func main() {
	cmd.Execute()
}
