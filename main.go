package main

import "github.com/hurou927/derivedcol/cmd"

func main() {
	cmd.Execute()
}
