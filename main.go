// Copyright © 2026 The SetlX authors

package main

import "github.com/sebschmitt/setlX/cmd"

func main() {
	cmd.Execute()
}
