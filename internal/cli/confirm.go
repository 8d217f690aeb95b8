// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation prompts for destructive commands.

package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// RequireConfirmation asks before a destructive action. --yes skips the
// prompt. Without a terminal and without --yes the action is refused.
func RequireConfirmation(env *Env, args Args, action string) (bool, error) {
	if args.Yes {
		return true, nil
	}
	if env.In == nil && !IsTTY() {
		return false, NewValidationErrorWithExample("confirmation", "",
			"stdin is not a terminal; pass --yes to "+action, "ragchat delete 12 --yes")
	}
	return PromptYesNo(env.in(), env.out(), fmt.Sprintf("Really %s?", action)), nil
}

// PromptYesNo prompts the user with a yes/no question. Anything other than
// y or yes is no.
func PromptYesNo(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		return false
	}

	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes"
}

// ShowCancellationMessage reports a declined confirmation.
func ShowCancellationMessage(out io.Writer) {
	fmt.Fprintln(out, RenderConditional(WarningStyle, "Cancelled."))
}
