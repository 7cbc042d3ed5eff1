package commands

import (
	"fmt"
	"strings"
)

// PrintSeparator prints a horizontal rule for command output.
func PrintSeparator() {
	fmt.Println(strings.Repeat("─", 50))
}
