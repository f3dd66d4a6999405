package main

import "reminders/cmd"

func main() {
	cmd.Execute()
}
