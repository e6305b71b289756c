package main

import "github.com/masmgr/gitsymphony/cmd"

func main() {
	cmd.Run()
}
