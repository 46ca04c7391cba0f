package prompt

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

const (
	lineFeedConstant       = "\n"
	carriageReturnConstant = "\r"
)

// PhrasePrompter reads confirmation phrases from an io.Reader.
type PhrasePrompter struct {
	reader *bufio.Reader
	writer io.Writer
}

// NewPhrasePrompter constructs a prompter from the provided reader and writer.
func NewPhrasePrompter(input io.Reader, output io.Writer) *PhrasePrompter {
	return &PhrasePrompter{reader: bufio.NewReader(input), writer: output}
}

// Confirm writes the prompt, reads a single line, and reports whether it equals requiredPhrase exactly.
// Only the line terminator is removed; case and surrounding spaces are significant.
func (prompter *PhrasePrompter) Confirm(prompt string, requiredPhrase string) (bool, error) {
	if prompter.writer != nil {
		if _, writeError := io.WriteString(prompter.writer, prompt); writeError != nil {
			return false, writeError
		}
	}

	response, readError := prompter.reader.ReadString('\n')
	if readError != nil && !errors.Is(readError, io.EOF) {
		return false, readError
	}

	response = strings.TrimSuffix(response, lineFeedConstant)
	response = strings.TrimSuffix(response, carriageReturnConstant)

	return response == requiredPhrase, nil
}
