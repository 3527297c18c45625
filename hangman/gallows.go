package hangman

import (
	"fmt"
)

const codeFence = "```"

// RenderGallows returns the lines of the gallows for a number of wrong attempts, wrapped
// in a code fence. The seventh attempt replaces the head with a dead one
func RenderGallows(wrongAttempts int) (lines []string) {
	head := part(wrongAttempts, 1, "O")
	if wrongAttempts >= 7 {
		head = "X"
	}

	body := part(wrongAttempts, 2, "|")
	leftLeg := part(wrongAttempts, 3, "/")
	rightLeg := part(wrongAttempts, 4, "\\")
	leftArm := part(wrongAttempts, 5, "\\")
	rightArm := part(wrongAttempts, 6, "/")

	return []string{
		codeFence,
		"╔════╕",
		"║    ┆",
		fmt.Sprintf("║   %s%s%s", leftArm, head, rightArm),
		fmt.Sprintf("║    %s", body),
		fmt.Sprintf("║   %s %s", leftLeg, rightLeg),
		"║",
		"╩══════",
		codeFence,
	}
}

func part(wrongAttempts int, threshold int, glyph string) string {
	if wrongAttempts >= threshold {
		return glyph
	}

	return " "
}
