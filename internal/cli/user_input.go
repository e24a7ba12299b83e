package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"pagePerception/internal/cli/ui"
)

// lineReader - ввод без readline, например когда stdin не терминал.
type lineReader struct {
	reader *bufio.Reader
	out    io.Writer
}

func newLineReader(in io.Reader, out io.Writer) *lineReader {
	return &lineReader{
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (r *lineReader) ReadLine() (string, error) {
	fmt.Fprint(r.out, ui.ColorCyan+"> "+ui.ColorReset)
	line, err := r.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
