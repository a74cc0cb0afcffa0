package main

import "github.com/guimove/clusterfit/cmd"

func main() {
	cmd.Execute()
}
