package main

import (
	"context"

	"fulfillment/cmd"
)

func main() {
	cmd.Execute(context.Background())
}
