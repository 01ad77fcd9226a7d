package main

import "github.com/NorskHelsenett/dcn-ipam-firewall-ssi/cmd"

func main() {
	cmd.Execute()
}
