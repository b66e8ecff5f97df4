// Package command turns chat lines into attendance commands and replies to
// them.
package command

import (
	"regexp"
	"strings"
)

// Verb is the action a chat line asks for.
type Verb string

const (
	VerbHi      Verb = "hi"
	VerbBye     Verb = "bye"
	VerbDelete  Verb = "delete"
	VerbList    Verb = "list"
	VerbCSVList Verb = "csvlist"
)

// Command holds the raw fragments extracted from a chat line. Empty strings
// mean the fragment was omitted.
type Command struct {
	Verb  Verb
	User  string
	Date  string
	From  string
	To    string
	Year  string
	Month string
}

const (
	hiWords  = `(?:hi|hello|おは\S*)`
	byeWords = `(?:bye|おつ\S*|お疲れ\S*|乙|さよ\S*)`
	userOpt  = `(?: -u (\S+))?`
)

type rule struct {
	re      *regexp.Regexp
	extract func(m []string) Command
}

// rules are tried in order; the first match wins.
var rules = []rule{
	{
		re: regexp.MustCompile(`(?i)^(list|csvlist)` + userOpt + `(?: (?:(\d{2}|\d{4})/?)?(\d{1,2}))? *$`),
		extract: func(m []string) Command {
			return Command{Verb: Verb(strings.ToLower(m[1])), User: m[2], Year: m[3], Month: m[4]}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^` + hiWords + userOpt + `(?:(?: ([\d/]+))? ([\d:]+)-?(?:-([\d:]+))?)? *$`),
		extract: func(m []string) Command {
			return Command{Verb: VerbHi, User: m[1], Date: m[2], From: m[3], To: m[4]}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^` + byeWords + userOpt + `(?:(?: ([\d/]+))? (?:([\d:]+)-)?-?([\d:]+))? *$`),
		extract: func(m []string) Command {
			return Command{Verb: VerbBye, User: m[1], Date: m[2], From: m[3], To: m[4]}
		},
	},
	// A bare date is not a valid clock command; keep it so the recorder can
	// report the argument error instead of ignoring the line.
	{
		re: regexp.MustCompile(`(?i)^` + hiWords + userOpt + ` ([\d/]+) *$`),
		extract: func(m []string) Command {
			return Command{Verb: VerbHi, User: m[1], Date: m[2]}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^` + byeWords + userOpt + ` ([\d/]+) *$`),
		extract: func(m []string) Command {
			return Command{Verb: VerbBye, User: m[1], Date: m[2]}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^(?:delete|del|rm)` + userOpt + `(?: ([\d/]+))? *$`),
		extract: func(m []string) Command {
			return Command{Verb: VerbDelete, User: m[1], Date: m[2]}
		},
	},
}

// Parse matches text against the command grammar. It reports false for lines
// that are not commands. A leading @ on the -u user is dropped.
func Parse(text string) (Command, bool) {
	text = strings.TrimSpace(text)
	for _, r := range rules {
		m := r.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		cmd := r.extract(m)
		cmd.User = strings.TrimPrefix(cmd.User, "@")
		return cmd, true
	}
	return Command{}, false
}
