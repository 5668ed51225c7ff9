// Command readme refreshes the usage block in README.md from the output of
// "mempig --help".
package main

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"

	"github.com/mitchellh/go-wordwrap"
	flag "github.com/spf13/pflag"
)

const (
	exitError  = 1
	exitStale  = 3
	filePerm   = 0o644
	readmeFile = "README.md"
	wrapWidth  = 80
	usageBegin = "<!-- BEGIN USAGE -->"
	usageEnd   = "<!-- END USAGE -->"
)

var usageBlock = regexp.MustCompile(`(?s)` + usageBegin + `.*` + usageEnd)

func helpText(command []string) (string, error) {
	if len(command) == 0 {
		command = []string{"go", "run", ".", "--help"}
	}

	output, err := exec.Command(command[0], command[1:]...).CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("failed to run %q: %w", strings.Join(command, " "), err)
	}

	return wordwrap.WrapString(strings.TrimSpace(string(output)), wrapWidth), nil
}

func main() {
	check := flag.BoolP("check", "c", false, "only report whether README.md is up to date")
	flag.Parse()

	help, err := helpText(flag.Args())
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitError)
	}

	content, err := os.ReadFile(readmeFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read %q: %v\n", readmeFile, err)
		os.Exit(exitError)
	}

	block := usageBegin + "\n```none\n" + help + "\n```\n" + usageEnd
	updated := usageBlock.ReplaceAllLiteralString(string(content), block)

	if updated == string(content) {
		return
	}

	if *check {
		fmt.Fprintf(os.Stderr, "%s usage block is stale; run script/readme\n", readmeFile)
		os.Exit(exitStale)
	}

	if err := os.WriteFile(readmeFile, []byte(updated), filePerm); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %q: %v\n", readmeFile, err)
		os.Exit(exitError)
	}
}
