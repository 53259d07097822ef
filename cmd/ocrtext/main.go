package main

import "visionkit/internal/cli/ocrtext"

func main() {
	ocrtext.Execute()
}
