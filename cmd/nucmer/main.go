// cmd/nucmer/main.go
package main

import (
	"nucmer/internal/app"
	"nucmer/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
