package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	tickHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stratumStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).PaddingLeft(2)
	internalRunStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).PaddingLeft(4)
	externalRunStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).PaddingLeft(4)
	tickBoxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

// renderTimeline turns a flat event log into one bordered block per tick,
// with a row per stratum and an indented, color-coded row per subgraph run
// (orange for externally-triggered runs, blue for internally-rescheduled
// ones) so a reader can see at a glance how much of a tick's work was
// driven by new external input versus the dataflow's own churn.
func renderTimeline(events []event) string {
	var blocks []string
	var cur []string
	var curTick uint64
	open := false

	flush := func() {
		if open {
			blocks = append(blocks, tickBoxStyle.Render(strings.Join(cur, "\n")))
		}
		cur = nil
		open = false
	}

	for _, ev := range events {
		switch ev.kind {
		case "tick-start":
			flush()
			curTick = ev.tick
			open = true
			cur = append(cur, tickHeaderStyle.Render(fmt.Sprintf("tick %d", curTick)))
		case "stratum-start":
			cur = append(cur, stratumStyle.Render(fmt.Sprintf("stratum %d", ev.stratum)))
		case "subgraph-run":
			style := internalRunStyle
			label := "internal"
			if ev.isExternal {
				style = externalRunStyle
				label = "external"
			}
			cur = append(cur, style.Render(fmt.Sprintf("subgraph %d (%s)", ev.subgraph, label)))
		case "tick-end":
			// rendered as part of the block border; nothing extra to add.
		}
	}
	flush()

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}
