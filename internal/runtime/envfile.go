// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ErrEnvFileStatement is returned for env file content that is not a plain assignment.
var ErrEnvFileStatement = errors.New("env files may only contain variable assignments")

// LoadEnvFile loads a shell-syntax env file and merges its assignments into env.
// Relative paths are resolved against cwd, or the working directory when cwd
// is empty. Paths suffixed with '?' are optional; a missing optional file is
// not an error.
func LoadEnvFile(env map[string]string, path, cwd string) error {
	optional := strings.HasSuffix(path, "?")
	if optional {
		path = strings.TrimSuffix(path, "?")
	}

	fullPath := path
	if !filepath.IsAbs(path) {
		if cwd == "" {
			var err error
			cwd, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get current working directory: %w", err)
			}
		}
		fullPath = filepath.Join(cwd, filepath.FromSlash(path))
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	return ParseEnvFile(env, content, path)
}

// ParseEnvFile evaluates shell assignments and merges them into env.
// Supported statements:
//   - KEY=value, KEY="value", KEY='value'
//   - export KEY=value, export KEY
//   - several assignments on one line (A=1 B=2)
//   - $VAR and ${VAR} expansion against env and earlier assignments
//
// Commands, redirections, arrays and command substitution are rejected, so
// loading a file never runs a program. The filename is used in error messages.
func ParseEnvFile(env map[string]string, content []byte, filename string) error {
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	file, err := syntax.NewParser(syntax.Variant(syntax.LangBash)).Parse(bytes.NewReader(content), filename)
	if err != nil {
		return fmt.Errorf("invalid env file: %w", err)
	}

	names, err := assignedNames(file, filename)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		return nil
	}

	runner, err := interp.New(
		interp.Env(expand.ListEnviron(EnvToSlice(env)...)),
		interp.StdIO(nil, io.Discard, io.Discard),
	)
	if err != nil {
		return fmt.Errorf("failed to create interpreter: %w", err)
	}
	if err := runner.Run(context.Background(), file); err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}

	for _, name := range names {
		if v, ok := runner.Vars[name]; ok && v.IsSet() {
			env[name] = v.String()
		}
	}
	return nil
}

// assignedNames validates that every statement is an assignment and returns
// the assigned names in file order.
func assignedNames(file *syntax.File, filename string) ([]string, error) {
	var names []string
	for _, stmt := range file.Stmts {
		if stmt.Negated || stmt.Background || stmt.Coprocess || len(stmt.Redirs) > 0 {
			return nil, stmtError(filename, stmt)
		}

		var assigns []*syntax.Assign
		switch cmd := stmt.Cmd.(type) {
		case *syntax.CallExpr:
			if len(cmd.Args) > 0 {
				return nil, stmtError(filename, stmt)
			}
			assigns = cmd.Assigns
		case *syntax.DeclClause:
			if cmd.Variant.Value != "export" {
				return nil, stmtError(filename, stmt)
			}
			assigns = cmd.Args
		default:
			return nil, stmtError(filename, stmt)
		}

		for _, a := range assigns {
			if a.Name == nil || a.Array != nil || a.Index != nil || a.Append {
				return nil, stmtError(filename, stmt)
			}
			names = append(names, a.Name.Value)
		}
	}

	var substErr error
	syntax.Walk(file, func(node syntax.Node) bool {
		if substErr != nil {
			return false
		}
		switch node.(type) {
		case *syntax.CmdSubst, *syntax.ProcSubst:
			substErr = fmt.Errorf("%s:%s: command substitution is not allowed: %w", filename, node.Pos(), ErrEnvFileStatement)
			return false
		}
		return true
	})
	if substErr != nil {
		return nil, substErr
	}

	return names, nil
}

func stmtError(filename string, stmt *syntax.Stmt) error {
	return fmt.Errorf("%s:%s: %w", filename, stmt.Pos(), ErrEnvFileStatement)
}
