package hangman

import (
	"bufio"
	"io"
	"math/rand"
	"os"
	"regexp"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"

	"github.com/gadling/hob/option"
)

// DefaultWordFilter matches the words hangman can be played with
var DefaultWordFilter = regexp.MustCompile("^[a-z]+$")

// SelectWord returns a word picked uniformly at random among the lines of r that match filter
// and have at least minLength characters. The lines are read once and never held in memory
func SelectWord(r io.Reader, filter *regexp.Regexp, minLength int, rnd *rand.Rand) (word option.Option[string], err error) {
	scanner := bufio.NewScanner(r)

	matches := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) < minLength || !filter.MatchString(line) {
			continue
		}

		matches++
		if rnd.Intn(matches) == 0 {
			word = option.Some(line)
		}
	}

	if err = scanner.Err(); err != nil {
		return option.None[string](), errors.Wrap(err, "failed to read words")
	}

	return word, nil
}

// SelectWordFromFile returns a word picked by SelectWord from the file at path ('~' is expanded)
func SelectWordFromFile(path string, filter *regexp.Regexp, minLength int, rnd *rand.Rand) (word option.Option[string], err error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return option.None[string](), errors.Wrapf(err, "invalid words path [%s]", path)
	}

	f, err := os.Open(expanded)
	if err != nil {
		return option.None[string](), errors.Wrapf(err, "failed to open words file [%s]", expanded)
	}
	defer f.Close()

	return SelectWord(f, filter, minLength, rnd)
}
