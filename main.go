package main

import "github.com/suhuruli/service-fabric-jenkins-plugin/cmd"

func main() {
	cmd.Execute()
}
