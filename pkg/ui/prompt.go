package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"rclogs/pkg/ringcentral"
)

// ConsoleConfirmer asks on the terminal before each deletion. It
// implements calllog.Confirmer.
type ConsoleConfirmer struct {
	reader   *bufio.Reader
	detailed bool
}

// NewConsoleConfirmer creates a confirmer reading answers from r.
// A nil reader means standard input.
func NewConsoleConfirmer(r io.Reader) *ConsoleConfirmer {
	if r == nil {
		r = os.Stdin
	}
	return &ConsoleConfirmer{reader: bufio.NewReader(r)}
}

// SetDetailed makes the prompt print call legs too
func (c *ConsoleConfirmer) SetDetailed(detailed bool) {
	c.detailed = detailed
}

// Confirm displays the record and reads a yes/no answer. Anything but
// an explicit yes declines; a read failure is an error so the caller
// never deletes on a closed stdin.
func (c *ConsoleConfirmer) Confirm(record ringcentral.CallLogRecord) (bool, error) {
	fmt.Println()
	PrintRecord(record, c.detailed)
	fmt.Printf("%s ", Magenta("Delete this call log? [y/N]:"))

	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
