// stubguard — kernel command line gatekeeper for secure-boot stubs.
package main

import "github.com/ppiankov/stubguard/internal/cli"

func main() {
	cli.Execute()
}
