package main

import "github.com/alexiusacademia/gostab/cmd"

func main() {
	cmd.Execute()
}
