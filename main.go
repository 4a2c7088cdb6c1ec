package main

import "storyshare-backend/cmd"

func main() {
	cmd.Run()
}
