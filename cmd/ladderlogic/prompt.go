package main

import (
	"errors"
	"io"

	"github.com/chzyer/readline"

	"github.com/sarchlab/ladderlogic/session"
)

const prompt = "ladder> "

// promptReader reads session commands from the terminal with line editing.
type promptReader struct {
	rl *readline.Instance
}

func newPromptReader() (session.LineReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &promptReader{rl: rl}, nil
}

// ReadLine returns io.EOF on Ctrl-C and Ctrl-D.
func (r *promptReader) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", io.EOF
	}
	return line, err
}

func (r *promptReader) Close() error {
	return r.rl.Close()
}
