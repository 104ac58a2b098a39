// Package status renders the operator-facing summaries of the status and
// next commands.
package status

import (
	"fmt"
	"strings"
	"time"

	"github.com/C3MO/reddit2Linkedin/internal/domain"
	"github.com/C3MO/reddit2Linkedin/internal/scheduler"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	labelStyle = lipgloss.NewStyle().Width(20).Foreground(lipgloss.Color("245"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Report is the bot state shown by the status command.
type Report struct {
	Available  int
	Posted     int
	Remaining  int
	LastPosted *time.Time
	HasToken   bool
}

// Build summarizes the collection and history.
func Build(items []domain.Item, h domain.PublishHistory, hasToken bool) Report {
	return Report{
		Available:  len(items),
		Posted:     len(h.PostedIDs),
		Remaining:  len(scheduler.Candidates(items, h)),
		LastPosted: h.LastPosted,
		HasToken:   hasToken,
	}
}

func (r Report) Render() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Reddit to LinkedIn Bot - Status") + "\n")
	b.WriteString(rule() + "\n")

	last := "Never"
	if r.LastPosted != nil {
		last = r.LastPosted.Local().Format("2006-01-02 15:04:05")
	}
	token := warnStyle.Render("Missing")
	if r.HasToken {
		token = okStyle.Render("Available")
	}

	row(&b, "Available posts", fmt.Sprint(r.Available))
	row(&b, "Posted count", fmt.Sprint(r.Posted))
	row(&b, "Last posted", last)
	row(&b, "Remaining to post", fmt.Sprint(r.Remaining))
	row(&b, "LinkedIn token", token)
	b.WriteString(rule() + "\n")
	return b.String()
}

// RenderNext lists up to n items in the order the scheduler would publish them.
func RenderNext(items []domain.Item, h domain.PublishHistory, n int) string {
	ranked := scheduler.Ranked(items, h)
	if len(ranked) == 0 {
		return "No unposted content available.\n"
	}
	if n > len(ranked) {
		n = len(ranked)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Next %d posts to be shared:", n)) + "\n")
	b.WriteString(rule() + "\n")
	for i, it := range ranked[:n] {
		fmt.Fprintf(&b, "%d. %s\n", i+1, truncate(it.Title, 80))
		fmt.Fprintf(&b, "   Score: %d | Comments: %d\n", it.Score, it.CommentCount)
		fmt.Fprintf(&b, "   URL: %s\n\n", it.URL)
	}
	return b.String()
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label+":") + " " + value + "\n")
}

func rule() string {
	return ruleStyle.Render(strings.Repeat("=", 40))
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
