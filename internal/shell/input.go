package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bricktrack/internal/app"

	"github.com/chzyer/readline"
	"golang.org/x/term"
)

// LineInput reads one command line at a time.
type LineInput interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// scriptInput reads piped commands. Lines starting with # are comments.
type scriptInput struct {
	reader *bufio.Reader
	out    io.Writer
}

// NewBasicLineInput reads lines from in without editing or history. A prompt
// is echoed to out when out is non-nil.
func NewBasicLineInput(in io.Reader, out io.Writer) LineInput {
	return &scriptInput{reader: bufio.NewReader(in), out: out}
}

func (s *scriptInput) ReadLine(prompt string) (string, error) {
	for {
		if s.out != nil {
			fmt.Fprint(s.out, prompt)
		}
		line, err := s.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		line = strings.TrimRight(line, "\r\n")
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		return line, nil
	}
}

func (s *scriptInput) Close() error { return nil }

type readlineInput struct {
	instance *readline.Instance
}

func (r *readlineInput) ReadLine(prompt string) (string, error) {
	r.instance.SetPrompt(prompt)
	return r.instance.Readline()
}

func (r *readlineInput) Close() error { return r.instance.Close() }

// NewLineInput uses readline with persistent history and completion on a
// terminal, and plain reads when stdin is piped. refs supplies completions
// for set references; it may be nil. A non-nil error explains why readline
// was unavailable; the returned input is usable either way.
func NewLineInput(historyPath string, refs func() []string) (LineInput, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return NewBasicLineInput(os.Stdin, nil), nil
	}
	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err != nil {
			return NewBasicLineInput(os.Stdin, os.Stdout), fmt.Errorf("create history dir: %w", err)
		}
	}
	instance, err := readline.NewEx(&readline.Config{
		Prompt:            "> ",
		HistoryFile:       historyPath,
		HistorySearchFold: true,
		AutoComplete:      completer(refs),
	})
	if err != nil {
		return NewBasicLineInput(os.Stdin, os.Stdout), err
	}
	return &readlineInput{instance: instance}, nil
}

// SetRefs lists what select accepts for each set: its list number and a
// short id prefix.
func SetRefs(a *app.App) func() []string {
	return func() []string {
		sets := a.Sets()
		out := make([]string, 0, 2*len(sets))
		for i, set := range sets {
			out = append(out, strconv.Itoa(i+1))
			if len(set.ID) >= 8 {
				out = append(out, set.ID[:8])
			}
		}
		return out
	}
}

func completer(refs func() []string) *readline.PrefixCompleter {
	items := make([]readline.PrefixCompleterInterface, 0, len(commands))
	for _, c := range commands {
		var children []readline.PrefixCompleterInterface
		switch c.name {
		case "select":
			if refs != nil {
				children = append(children, readline.PcItemDynamic(func(string) []string { return refs() }))
			}
		case "lang":
			children = append(children, readline.PcItem("en"), readline.PcItem("fr"))
		case "view":
			children = append(children, readline.PcItem(string(app.ViewTracker)), readline.PcItem(string(app.ViewGallery)))
		}
		items = append(items, readline.PcItem(c.name, children...))
	}
	return readline.NewPrefixCompleter(items...)
}
