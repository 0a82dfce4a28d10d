// The tvremotectl command controls a webOS TV through the tvremoted gateway
package main

import "github.com/wrale/webos-remote/internal/tvremotectl/cmd"

func main() {
	cmd.Execute()
}
