package main

import "github.com/vietdv277/ec2hosts/cmd"

func main() {
	cmd.Execute()
}
