package main

import "github.com/example/dailyquest/cmd/dailyquest/root"

func main() {
	root.Execute()
}
