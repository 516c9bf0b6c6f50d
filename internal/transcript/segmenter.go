// Package transcript segments a pasted chat export into transactions.
//
// A trigger keyword ("最終" or "追加") marks a human's explicit "this is a
// finalized total" message. Everything between two timestamp lines is one
// conversational turn, which may carry an arbitrary run of store/amount
// pairs; the segmenter walks those runs with a one-line lookahead to decide
// whether a line names a store or carries an amount.
package transcript

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/onasu66/totalcash/internal/bonus"
	"github.com/onasu66/totalcash/internal/parser"
	"github.com/onasu66/totalcash/internal/types"
)

// TriggerKeywords mark a transcript line as recording a finalized ("最終") or
// additional ("追加") total.
var TriggerKeywords = []string{"最終", "追加"}

// UnknownOperator is used when no operator name can be extracted from a
// trigger line.
const UnknownOperator = "unknown"

// adminNotices are messaging-app system lines that carry no ledger content
// and are skipped without affecting classification state.
var adminNotices = []string{
	"[スタンプ]",
	"[写真]",
	"[動画]",
	"メッセージの送信を取り消しました",
}

var (
	timestampPattern = regexp.MustCompile(`^\d{1,2}:\d{2}`)
	triggerPattern   = regexp.MustCompile(strings.Join(TriggerKeywords, "|"))
	operatorPattern  = regexp.MustCompile(`\d{1,2}:\d{2}\s+(.+?)\s+.*(?:` + strings.Join(TriggerKeywords, "|") + `)`)
)

// Segmenter extracts transactions from transcript lines using a fixed bonus
// table for amount computation.
type Segmenter struct {
	table bonus.Table
}

// New creates a Segmenter over the given bonus table.
func New(table bonus.Table) *Segmenter {
	return &Segmenter{table: table}
}

// Segment walks lines once and emits one Transaction per amount line found
// inside a trigger block. Emitted transactions carry no recording time; the
// ledger stamps that on append.
func (s *Segmenter) Segment(lines []string) []types.Transaction {
	var out []types.Transaction

	for i, line := range lines {
		if !triggerPattern.MatchString(line) {
			continue
		}

		operator := extractOperator(line)

		// Scan the rest of this conversational turn: everything up to
		// the next timestamp line belongs to the trigger message.
		currentStore := ""
		for j := i + 1; j < len(lines) && !timestampPattern.MatchString(lines[j]); j++ {
			cur := strings.TrimSpace(lines[j])
			if cur == "" || isAdminNotice(cur) {
				continue
			}

			if parser.IsAmountLine(cur) {
				if currentStore != "" {
					out = append(out, types.Transaction{
						Operator: operator,
						Store:    currentStore,
						Content:  cur,
						Amount:   parser.Amount(s.table, cur),
					})
				}
				continue
			}

			// Not an amount line: the next meaningful line in this turn
			// decides whether this one names a store. No backtracking; a
			// wrong call mis-attributes content rather than aborting.
			if next, ok := nextMeaningful(lines, j+1); ok && parser.IsAmountLine(next) {
				currentStore = cur
			}
		}
	}

	return out
}

// nextMeaningful returns the first line at or after i that is not blank and
// not an admin notice, stopping at the end of the current conversational
// turn (the next timestamp line).
func nextMeaningful(lines []string, i int) (string, bool) {
	for ; i < len(lines); i++ {
		if timestampPattern.MatchString(lines[i]) {
			return "", false
		}
		l := strings.TrimSpace(lines[i])
		if l == "" || isAdminNotice(l) {
			continue
		}
		return l, true
	}
	return "", false
}

// SegmentReference runs the same store/amount classification over turns that
// carry no trigger keyword, seeding the operator and initial store from the
// first two whitespace-separated tokens after the timestamp. The result is
// descriptive only and is never aggregated into the ledger.
func (s *Segmenter) SegmentReference(lines []string) []types.Transaction {
	var out []types.Transaction

	for i, line := range lines {
		if !timestampPattern.MatchString(line) || triggerPattern.MatchString(line) {
			continue
		}

		fields := strings.Fields(parser.StripClockTimes(line))
		operator := UnknownOperator
		currentStore := ""
		if len(fields) > 0 {
			operator = fields[0]
		}
		if len(fields) > 1 {
			currentStore = fields[1]
		}

		for j := i + 1; j < len(lines) && !timestampPattern.MatchString(lines[j]); j++ {
			cur := strings.TrimSpace(lines[j])
			if cur == "" || isAdminNotice(cur) {
				continue
			}
			if parser.IsAmountLine(cur) {
				if currentStore != "" {
					out = append(out, types.Transaction{
						Operator: operator,
						Store:    currentStore,
						Content:  cur,
						Amount:   parser.Amount(s.table, cur),
					})
				}
				continue
			}
			if next, ok := nextMeaningful(lines, j+1); ok && parser.IsAmountLine(next) {
				currentStore = cur
			}
		}
	}

	return out
}

// ParseEntry handles the manual-entry path: a store/content block typed or
// pasted by an operator, without trigger lines. Two lines are a store name
// and an amount line; a single combined line is split by the amount-part
// heuristics; longer blocks are scanned as store/amount pairs.
func (s *Segmenter) ParseEntry(operator, block string) ([]types.Transaction, error) {
	if strings.TrimSpace(operator) == "" {
		return nil, fmt.Errorf("operator name is required")
	}

	var lines []string
	for _, l := range strings.Split(strings.TrimSpace(block), "\n") {
		lines = append(lines, strings.TrimSpace(l))
	}
	if len(lines) == 0 || (len(lines) == 1 && lines[0] == "") {
		return nil, fmt.Errorf("entry content is required")
	}

	switch len(lines) {
	case 1:
		store, content, ok := splitCombined(lines[0])
		if !ok {
			return nil, fmt.Errorf("no amount found in %q; enter the store and amount on separate lines", lines[0])
		}
		return []types.Transaction{{
			Operator: operator,
			Store:    store,
			Content:  content,
			Amount:   parser.Amount(s.table, content),
		}}, nil
	case 2:
		return []types.Transaction{{
			Operator: operator,
			Store:    lines[0],
			Content:  lines[1],
			Amount:   parser.Amount(s.table, lines[1]),
		}}, nil
	}

	// Longer blocks: store/amount runs with the same lookahead rule as the
	// transcript pass. The store persists across consecutive amount lines.
	var out []types.Transaction
	currentStore := ""
	for i, cur := range lines {
		if cur == "" || isAdminNotice(cur) {
			continue
		}
		if parser.IsAmountLine(cur) {
			if currentStore != "" {
				out = append(out, types.Transaction{
					Operator: operator,
					Store:    currentStore,
					Content:  cur,
					Amount:   parser.Amount(s.table, cur),
				})
			}
			continue
		}
		if next, ok := nextMeaningful(lines, i+1); ok && parser.IsAmountLine(next) {
			currentStore = cur
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no store/amount pairs found in entry")
	}
	return out, nil
}

// combinedPatterns extract the amount part of a one-line "store + amount"
// entry; the store name is whatever remains.
var combinedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+\s*\.\s*\d+[^0-9]*)`),
	regexp.MustCompile(`(\d+\s*\.\s*\d*\s*\.[^0-9]*)`),
	regexp.MustCompile(`(\d+\s*\.\s*\d*[^0-9]*)`),
}

func splitCombined(line string) (store, content string, ok bool) {
	for _, p := range combinedPatterns {
		if m := p.FindStringSubmatch(line); m != nil {
			content = strings.TrimSpace(m[1])
			store = strings.TrimSpace(strings.Replace(line, m[1], "", 1))
			return store, content, true
		}
	}
	return "", "", false
}

func extractOperator(triggerLine string) string {
	if m := operatorPattern.FindStringSubmatch(triggerLine); m != nil {
		return strings.TrimSpace(m[1])
	}
	return UnknownOperator
}

func isAdminNotice(line string) bool {
	for _, n := range adminNotices {
		if line == n {
			return true
		}
	}
	return false
}
