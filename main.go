package main

import "github.com/kv-sajeev/sitescribe/cmd"

func main() {
	cmd.Execute()
}
