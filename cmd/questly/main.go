package main

import "github.com/rudhh/questly/cmd/questly/root"

func main() {
	root.Execute()
}
