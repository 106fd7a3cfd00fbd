package main

import "github.com/pders01/git-pages/cmd"

func main() {
	cmd.Execute()
}
