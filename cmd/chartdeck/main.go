package main

import "github.com/MeKo-Tech/chartdeck/internal/cmd"

func main() {
	cmd.Execute()
}
