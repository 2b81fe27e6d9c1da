// Package plan renders the NVRAM operations a command is about to perform
// and asks the operator to confirm them. Boot variables have no undo, so
// every mutating command shows its plan first.
package plan

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/term"
)

// Action classifies an operation for rendering.
type Action int

const (
	// Delete removes a boot entry.
	Delete Action = iota
	// Create adds a boot entry.
	Create
	// Reorder overwrites the boot order.
	Reorder
)

// Op is a single planned NVRAM operation.
type Op struct {
	Action Action
	Detail string
}

// Plan is an ordered list of operations.
type Plan struct {
	Ops []Op
}

// New creates an empty plan.
func New() *Plan {
	return &Plan{}
}

// AddDelete appends a delete operation.
func (p *Plan) AddDelete(detail string) {
	p.Ops = append(p.Ops, Op{Action: Delete, Detail: detail})
}

// AddCreate appends a create operation.
func (p *Plan) AddCreate(detail string) {
	p.Ops = append(p.Ops, Op{Action: Create, Detail: detail})
}

// AddReorder appends a boot-order operation.
func (p *Plan) AddReorder(detail string) {
	p.Ops = append(p.Ops, Op{Action: Reorder, Detail: detail})
}

// Empty reports whether the plan has no operations.
func (p *Plan) Empty() bool {
	return len(p.Ops) == 0
}

// Render produces the uncolored text of the plan.
func (p *Plan) Render() string {
	var result strings.Builder

	result.WriteString(fmt.Sprintf("Planned NVRAM operations (%d):\n", len(p.Ops)))
	for _, op := range p.Ops {
		switch op.Action {
		case Delete:
			result.WriteString("- " + op.Detail + "\n")
		case Create:
			result.WriteString("+ " + op.Detail + "\n")
		case Reorder:
			result.WriteString("~ " + op.Detail + "\n")
		}
	}

	return result.String()
}

// Show prints the plan to the console, through a pager when it would not fit
// the terminal.
func (p *Plan) Show() {
	if p.Empty() {
		return
	}

	content := p.Render()
	if shouldUsePager(content) {
		showWithPager(content)
	} else {
		showDirect(content)
	}
}

// Confirm shows the plan and asks the user for confirmation. With
// autoApprove set the plan is shown and approved without prompting.
func (p *Plan) Confirm(autoApprove bool) bool {
	if p.Empty() {
		return true
	}

	// Don't page when a prompt follows; the question must stay visible.
	showDirect(p.Render())

	if autoApprove {
		fmt.Printf("Auto-approving %d operation(s)\n", len(p.Ops))
		return true
	}

	fmt.Printf("Apply %d operation(s) to firmware NVRAM? [y/N]: ", len(p.Ops))

	scanner := bufio.NewScanner(os.Stdin)
	if scanner.Scan() {
		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		return response == "y" || response == "yes"
	}

	return false
}

// shouldUsePager determines if we should use a pager based on terminal size and content
func shouldUsePager(content string) bool {
	// Only use pager if we're in an interactive terminal
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}

	_, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return false
	}

	lines := strings.Count(content, "\n")
	return lines > (height - 5) // Leave some margin
}

// showWithPager displays content using a pager
func showWithPager(content string) {
	pagers := []string{"less", "more", "cat"}
	var pagerCmd string

	for _, pager := range pagers {
		if _, err := exec.LookPath(pager); err == nil {
			pagerCmd = pager
			break
		}
	}

	if pagerCmd == "" {
		showDirect(content)
		return
	}

	var cmd *exec.Cmd
	if pagerCmd == "less" {
		// -R: interpret ANSI color codes
		// -F: quit if content fits on one screen
		// -X: don't clear screen on exit
		cmd = exec.Command("less", "-RF", "-X")
	} else {
		cmd = exec.Command(pagerCmd)
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		showDirect(content)
		return
	}

	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		showDirect(content)
		return
	}

	_, _ = stdin.Write([]byte(colorize(content)))
	_ = stdin.Close()

	_ = cmd.Wait()
}

// showDirect displays content directly to stdout
func showDirect(content string) {
	fmt.Print(colorize(content))
}

// colorize adds ANSI color codes to plan lines
func colorize(content string) string {
	var result strings.Builder

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "+") {
			result.WriteString(fmt.Sprintf("\033[32m%s\033[0m\n", line)) // Green
		} else if strings.HasPrefix(line, "-") {
			result.WriteString(fmt.Sprintf("\033[31m%s\033[0m\n", line)) // Red
		} else if strings.HasPrefix(line, "~") {
			result.WriteString(fmt.Sprintf("\033[36m%s\033[0m\n", line)) // Cyan
		} else {
			result.WriteString(fmt.Sprintf("%s\n", line))
		}
	}

	return result.String()
}
