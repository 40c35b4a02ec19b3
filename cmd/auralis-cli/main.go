// Command auralis-cli is the operator CLI for inspecting and managing a
// running Auralis deployment's persistent fingerprint cache and track
// queue.
package main

import "auralis.core/internal/cli"

func main() {
	cli.Execute()
}
