package main

import "visionkit/internal/cli/objdetect"

func main() {
	objdetect.Execute()
}
