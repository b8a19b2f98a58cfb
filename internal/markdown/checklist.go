package markdown

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/nkarpov/entrypad/internal/models"
)

// Mode controls whether checkbox synthesis runs for a given render.
type Mode int

const (
	// AutoDetectByCategory runs checkbox synthesis only for todo entries.
	AutoDetectByCategory Mode = iota
	// ForceChecklist always runs checkbox synthesis.
	ForceChecklist
	// ForceNoChecklist returns the base renderer output untouched.
	ForceNoChecklist
)

const (
	checkedPattern   = "[x]"
	uncheckedPattern = "[ ]"

	checkboxTag = `<input type="checkbox"`
	todoClass   = `<ul class="todo">`
)

// ChecklistRenderer renders a markdown body to HTML and synthesizes
// interactive checkbox controls from bracket syntax.
//
// Strict mode additionally strips controls that were generated inside plain
// paragraphs: a bracket pattern outside a list context is a markdown-syntax
// artifact, not an intentional checklist item.
type ChecklistRenderer struct {
	blocks BlockRenderer
	strict bool
}

func NewChecklistRenderer(blocks BlockRenderer, strict bool) *ChecklistRenderer {
	return &ChecklistRenderer{blocks: blocks, strict: strict}
}

// Render converts markdown to HTML, then, depending on mode and category,
// replaces bracket checkbox syntax with disabled checkbox controls and
// repairs the surrounding list markup.
func (r *ChecklistRenderer) Render(markdown string, mode Mode, category models.Category) (string, error) {
	html, err := r.blocks.RenderBlocks(markdown)
	if err != nil {
		return "", err
	}

	if mode == ForceNoChecklist {
		return html, nil
	}
	if mode == AutoDetectByCategory && category != models.CategoryTodo {
		return html, nil
	}

	html, replaced := synthesizeCheckboxes(html)
	if replaced == 0 {
		return html, nil
	}

	lines := repairLines(strings.Split(html, "\n"), r.strict)
	return strings.Join(lines, "\n"), nil
}

// checkboxHTML renders the control substituted for a bracket pattern. The id
// carries the zero-based replacement index; the control is always disabled
// since checklist state is not editable from rendered HTML.
func checkboxHTML(index int, checked bool) string {
	s := fmt.Sprintf(`<input type="checkbox" id="todo_%d" disabled="disabled"`, index)
	if checked {
		s += ` checked="checked"`
	}
	return s + " />"
}

// synthesizeCheckboxes replaces each [x] / [ ] occurrence, left to right,
// with a disabled checkbox control carrying a sequential zero-based id.
// The x is case-sensitive. Returns the rewritten HTML and the number of
// replacements made.
func synthesizeCheckboxes(html string) (string, int) {
	var b strings.Builder
	n := 0

	for {
		ci := strings.Index(html, checkedPattern)
		ui := strings.Index(html, uncheckedPattern)

		pos, checked := ci, true
		if ci < 0 || (ui >= 0 && ui < ci) {
			pos, checked = ui, false
		}
		if pos < 0 {
			break
		}

		b.WriteString(html[:pos])
		b.WriteString(checkboxHTML(n, checked))
		html = html[pos+len(checkedPattern):]
		n++
	}

	b.WriteString(html)
	return b.String(), n
}

// paragraphCheckbox matches a paragraph line that begins with a synthesized
// checkbox control, capturing the control's index.
var paragraphCheckbox = regexp.MustCompile(`^<p><input type="checkbox" id="todo_(\d+)"`)

// repairLines is the structural repair pass over the synthesized HTML,
// expressed as a pure line transform.
//
// A <ul> line is rewritten to carry the todo styling class when a list item
// within the next two lines holds a checkbox control itself or on the line
// directly after it. In strict mode, a paragraph beginning with an unchecked
// control has that control stripped back out, leaving the rest of the
// paragraph intact. The two-line look-ahead window and the order of the two
// checks are part of the rendering contract for existing stored bodies.
func repairLines(lines []string, strict bool) []string {
	out := make([]string, len(lines))

	for i, line := range lines {
		out[i] = line

		if strings.HasPrefix(strings.TrimSpace(line), "<ul>") {
			if checkboxListAhead(lines, i) {
				out[i] = strings.Replace(line, "<ul>", todoClass, 1)
			}
			continue
		}

		if !strict {
			continue
		}
		if m := paragraphCheckbox.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			index, _ := strconv.Atoi(m[1])
			out[i] = strings.Replace(line, checkboxHTML(index, false), "", 1)
		}
	}

	return out
}

// checkboxListAhead reports whether one of the two lines after lines[i]
// opens a list item carrying a checkbox control on itself or on the line
// that follows it.
func checkboxListAhead(lines []string, i int) bool {
	for j := i + 1; j <= i+2 && j < len(lines); j++ {
		if !strings.HasPrefix(strings.TrimSpace(lines[j]), "<li>") {
			continue
		}
		if strings.Contains(lines[j], checkboxTag) {
			return true
		}
		if j+1 < len(lines) && strings.Contains(lines[j+1], checkboxTag) {
			return true
		}
	}
	return false
}
