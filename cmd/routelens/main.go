// Command routelens statically extracts HTTP routes from a Next.js / tRPC
// TypeScript project and reports them as JSON, OpenAPI, an HTML catalogue,
// or over MCP — without running the target project.
package main

import "github.com/watchapi-dev/routelens/cmd/routelens/commands"

func main() {
	commands.Execute()
}
