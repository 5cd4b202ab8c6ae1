package merge

import (
	"fmt"
	"strings"
)

// EditOp represents a single edit operation in a diff.
type EditOp int

const (
	// OpEqual means the line is unchanged.
	OpEqual EditOp = iota
	// OpInsert means a line was added.
	OpInsert
	// OpDelete means a line was removed.
	OpDelete
)

// Edit is a single line-level edit operation.
type Edit struct {
	Op   EditOp
	Text string
}

// DiffLines computes an edit script turning a into b using an LCS-based
// line diff. Equal lines are included so the script replays the full
// annotated sequence.
func DiffLines(a, b []string) []Edit {
	m, n := len(a), len(b)

	// dp[i][j] = length of LCS of a[i:] and b[j:]
	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			if a[i] == b[j] {
				dp[i][j] = dp[i+1][j+1] + 1
			} else if dp[i+1][j] >= dp[i][j+1] {
				dp[i][j] = dp[i+1][j]
			} else {
				dp[i][j] = dp[i][j+1]
			}
		}
	}

	var edits []Edit
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case a[i] == b[j]:
			edits = append(edits, Edit{Op: OpEqual, Text: a[i]})
			i++
			j++
		case dp[i+1][j] >= dp[i][j+1]:
			edits = append(edits, Edit{Op: OpDelete, Text: a[i]})
			i++
		default:
			edits = append(edits, Edit{Op: OpInsert, Text: b[j]})
			j++
		}
	}
	for ; i < m; i++ {
		edits = append(edits, Edit{Op: OpDelete, Text: a[i]})
	}
	for ; j < n; j++ {
		edits = append(edits, Edit{Op: OpInsert, Text: b[j]})
	}
	return edits
}

// Stat summarizes a diff as line counts.
type Stat struct {
	Added   int
	Removed int
}

// String renders the stat as "+a/-r".
func (s Stat) String() string {
	return fmt.Sprintf("+%d/-%d", s.Added, s.Removed)
}

// DiffStat counts added and removed lines between base and current content.
func DiffStat(base, current []byte) Stat {
	var stat Stat
	for _, e := range DiffLines(splitLines(string(base)), splitLines(string(current))) {
		switch e.Op {
		case OpInsert:
			stat.Added++
		case OpDelete:
			stat.Removed++
		}
	}
	return stat
}

// UnifiedDiff produces a unified-style diff comparing base and current
// content. Contiguous change groups become hunks with up to two context
// lines on each side. Returns "" when the contents are identical.
func UnifiedDiff(filename string, base, current []byte) string {
	edits := DiffLines(splitLines(string(base)), splitLines(string(current)))

	changed := false
	for _, e := range edits {
		if e.Op != OpEqual {
			changed = true
			break
		}
	}
	if !changed {
		return ""
	}

	const contextLines = 2

	var sb strings.Builder
	fmt.Fprintf(&sb, "--- a/%s\n", filename)
	fmt.Fprintf(&sb, "+++ b/%s\n", filename)

	// Track the original/new line numbers each edit starts at.
	aLine, bLine := 1, 1
	type posEdit struct {
		Edit
		aLine, bLine int
	}
	positioned := make([]posEdit, len(edits))
	for i, e := range edits {
		positioned[i] = posEdit{Edit: e, aLine: aLine, bLine: bLine}
		switch e.Op {
		case OpEqual:
			aLine++
			bLine++
		case OpDelete:
			aLine++
		case OpInsert:
			bLine++
		}
	}

	i := 0
	for i < len(positioned) {
		if positioned[i].Op == OpEqual {
			i++
			continue
		}

		// Extend the hunk over nearby changes separated by at most
		// 2*contextLines equal lines.
		start := max(i-contextLines, 0)
		end := i
		equalRun := 0
		for k := i; k < len(positioned); k++ {
			if positioned[k].Op == OpEqual {
				equalRun++
				if equalRun > 2*contextLines {
					break
				}
			} else {
				equalRun = 0
				end = k
			}
		}
		stop := min(end+1+contextLines, len(positioned))

		var aCount, bCount int
		for k := start; k < stop; k++ {
			switch positioned[k].Op {
			case OpEqual:
				aCount++
				bCount++
			case OpDelete:
				aCount++
			case OpInsert:
				bCount++
			}
		}

		fmt.Fprintf(&sb, "@@ -%d,%d +%d,%d @@\n", positioned[start].aLine, aCount, positioned[start].bLine, bCount)
		for k := start; k < stop; k++ {
			switch positioned[k].Op {
			case OpEqual:
				sb.WriteString(" " + positioned[k].Text + "\n")
			case OpDelete:
				sb.WriteString("-" + positioned[k].Text + "\n")
			case OpInsert:
				sb.WriteString("+" + positioned[k].Text + "\n")
			}
		}
		i = stop
	}

	return sb.String()
}

// splitLines splits content into lines, dropping the trailing empty line
// caused by a final newline.
func splitLines(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return []string{}
	}
	return strings.Split(s, "\n")
}
