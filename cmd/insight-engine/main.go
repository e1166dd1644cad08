package main

import "github.com/stationstack/station-insight/internal/cmd"

func main() {
	cmd.Execute()
}
