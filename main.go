package main

import "github.com/Scalingo/sclng-language-stats/cmd"

func main() {
	cmd.Execute()
}
