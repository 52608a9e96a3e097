package seed

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaSource string

// schemaProblems unifies the decoded file with #Seed and returns one
// message per violation. A fresh context is used per call since cue
// values are not safe for concurrent use.
func schemaProblems(f *File) []string {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return []string{fmt.Sprintf("compiling seed schema: %v", err)}
	}
	def := schema.LookupPath(cue.ParsePath("#Seed"))

	unified := def.Unify(ctx.Encode(f))
	err := unified.Validate(cue.Concrete(true))
	if err == nil {
		return nil
	}

	var problems []string
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		msg := fmt.Sprintf(format, args...)
		if path := e.Path(); len(path) > 0 {
			msg = strings.Join(path, ".") + ": " + msg
		}
		problems = append(problems, msg)
	}
	return problems
}
