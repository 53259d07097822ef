package main

import "visionkit/internal/cli/clipsim"

func main() {
	clipsim.Execute()
}
