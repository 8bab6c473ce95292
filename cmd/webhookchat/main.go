// Command webhookchat is a terminal chat client for AI automation webhooks.
package main

import (
	"github.com/golang/glog"

	"github.com/diogo/webhookchat/internal/commands"
)

func main() {
	defer glog.Flush()
	commands.Execute()
}
