package ui

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/waxworks/sidecut/internal/services/musicbrainz"
)

// Prompter reads interactive answers from in and writes prompts to out
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// String prompts for a line of text, returning def when the answer is empty
func (p *Prompter) String(prompt, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, def)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	line, err := p.readLine()
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Int prompts for an integer between min and max inclusive
func (p *Prompter) Int(prompt string, min, max int) (int, error) {
	for {
		fmt.Fprintf(p.out, "%s (%d-%d): ", prompt, min, max)
		line, err := p.readLine()
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < min || n > max {
			fmt.Fprintf(p.out, "Please enter a number between %d and %d\n", min, max)
			continue
		}
		return n, nil
	}
}

// Confirm prompts for a yes/no answer. Empty input returns def.
func (p *Prompter) Confirm(prompt string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, hint)
		line, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(p.out, "Please answer y or n")
	}
}

// TrackNames prompts for a name per track, numbered from 1
func (p *Prompter) TrackNames(count int) ([]string, error) {
	names := make([]string, 0, count)
	for i := 1; i <= count; i++ {
		name, err := p.String(fmt.Sprintf("Track %d name", i), "")
		if err != nil {
			return nil, err
		}
		if name == "" {
			name = fmt.Sprintf("Track %d", i)
		}
		names = append(names, name)
	}
	return names, nil
}

// PickRelease shows candidate releases a page at a time and returns the
// chosen one, or nil when the user picks manual entry.
func (p *Prompter) PickRelease(releases []musicbrainz.Release) (*musicbrainz.Release, error) {
	const pageSize = 5
	if len(releases) == 0 {
		return nil, nil
	}
	offset := 0
	for {
		end := offset + pageSize
		if end > len(releases) {
			end = len(releases)
		}
		fmt.Fprintf(p.out, "\nMatches %d-%d of %d:\n", offset+1, end, len(releases))
		for i := offset; i < end; i++ {
			fmt.Fprintf(p.out, "  %d) %s\n", i+1, releases[i].Summary())
		}
		fmt.Fprintln(p.out, "  0) None of these, enter manually")
		if end < len(releases) {
			fmt.Fprintln(p.out, "  m) Show more")
		}

		fmt.Fprint(p.out, "Choice: ")
		line, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if strings.EqualFold(line, "m") && end < len(releases) {
			offset = end
			continue
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 0 || n > len(releases) {
			fmt.Fprintln(p.out, "Invalid choice")
			continue
		}
		if n == 0 {
			return nil, nil
		}
		return &releases[n-1], nil
	}
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
