package main

import (
	"fmt"
	"os"

	"github.com/streamdesk/streamdesk/cmd/cli/root"
	"github.com/streamdesk/streamdesk/cmd/cli/undo"
	"github.com/streamdesk/streamdesk/cmd/cli/users"
	"github.com/streamdesk/streamdesk/cmd/cli/videos"
)

func main() {
	users.InitUsers(root.GetRoot())
	videos.InitVideos(root.GetRoot())
	undo.InitUndo(root.GetRoot())

	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
