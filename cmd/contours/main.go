package main

import "github.com/MeKo-Tech/contours/cmd/contours/cmd"

func main() {
	cmd.Execute()
}
