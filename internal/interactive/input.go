package interactive

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

// errQuit signals that the user asked to stop the session early. The
// wizard finalizes with whatever was built so far.
var errQuit = fmt.Errorf("session ended by user")

// prompter wraps readline with the small set of question shapes the
// wizard asks.
type prompter struct {
	rl *readline.Instance
}

func newPrompter() (*prompter, error) {
	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("wikiplan> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return &prompter{rl: rl}, nil
}

func (p *prompter) Close() error {
	return p.rl.Close()
}

// ask reads one line with the given prompt. Ctrl+C retries, Ctrl+D quits.
func (p *prompter) ask(prompt string) (string, error) {
	p.rl.SetPrompt(prompt)
	for {
		line, err := p.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return "", errQuit
		}
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
}

// yesNo asks a y/n question; an empty answer takes the default.
func (p *prompter) yesNo(question string, defaultYes bool) (bool, error) {
	hint := "[Y/n]"
	if !defaultYes {
		hint = "[y/N]"
	}
	for {
		answer, err := p.ask(fmt.Sprintf("%s %s ", question, hint))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// list reads lines until an empty one, collecting non-blank entries.
func (p *prompter) list(prompt string) ([]string, error) {
	var out []string
	for {
		line, err := p.ask(prompt)
		if err != nil {
			return out, err
		}
		if line == "" {
			return out, nil
		}
		out = append(out, line)
	}
}
