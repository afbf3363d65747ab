package main

import "github.com/Seohyeoksu/School-designed-autonomous-time/internal/cli"

func main() {
	cli.Execute()
}
