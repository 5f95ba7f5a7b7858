package main

import "github.com/nsxzhou1114/manga-api/cmd"

func main() {
	cmd.Execute()
}
