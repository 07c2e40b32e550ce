package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// writeHook returns a callback that runs a shell command once per written
// file. {} expands to the file path, {lang} to the block's language tag and
// {dir} to the output root.
func writeHook(command, dir string, stdout, stderr io.Writer) func(path, lang string) error {
	return func(path, lang string) error {
		expanded := strings.ReplaceAll(command, "{}", path)
		expanded = strings.ReplaceAll(expanded, "{lang}", lang)
		expanded = strings.ReplaceAll(expanded, "{dir}", dir)

		exitCode, err := runCommand(expanded, dir, stdout, stderr)
		if err != nil {
			return err
		}

		if exitCode != 0 {
			return fmt.Errorf("command exited with %d", exitCode)
		}

		return nil
	}
}

func runCommand(command, dir string, stdout, stderr io.Writer) (int, error) {
	file, err := syntax.NewParser().Parse(strings.NewReader(command), "")
	if err != nil {
		return -1, err
	}

	runner, err := interp.New(interp.Dir(dir), interp.StdIO(os.Stdin, stdout, stderr))
	if err != nil {
		return -1, err
	}

	err = runner.Run(context.TODO(), file)
	if err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return int(status), nil
		}

		return -1, err
	}

	return 0, nil
}
