package main

import (
	"dirsync/cmd/dirsync/commands"
	"dirsync/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
