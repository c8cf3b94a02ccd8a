package main

import "github.com/hance08/fairshare/cmd"

func main() {
	cmd.Execute()
}
