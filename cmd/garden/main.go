package main

import "garden/cmd/garden/root"

func main() {
	root.Execute()
}
