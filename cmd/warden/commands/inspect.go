// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/warden/cmd/warden/cli"
	"github.com/bureau-foundation/warden/lib/item"
	"github.com/bureau-foundation/warden/lib/itemmeta"
	"github.com/bureau-foundation/warden/lib/ttl"
)

type inspectParams struct {
	WorldParams
	cli.JSONOutput
	Viewer string `json:"viewer" flag:"viewer" desc:"player whose view to show (default: the holding player)"`
	Width  int    `json:"width"  flag:"width"  desc:"panel width (default: terminal width, capped at 72)"`
}

type inspectResult struct {
	Location string `json:"location"`
	itemmeta.Info
	Lore []string `json:"lore"`
}

// loreColors maps annotation colours to ANSI 256-colour codes.
var loreColors = map[item.Color]lipgloss.Color{
	item.ColorGray:   lipgloss.Color("245"),
	item.ColorYellow: lipgloss.Color("220"),
	item.ColorRed:    lipgloss.Color("196"),
	item.ColorGold:   lipgloss.Color("214"),
	item.ColorGreen:  lipgloss.Color("76"),
	item.ColorAqua:   lipgloss.Color("51"),
	item.ColorWhite:  lipgloss.Color("255"),
}

const maxPanelWidth = 72

func inspectCommand(env *environment) *cli.Command {
	var params inspectParams
	return &cli.Command{
		Name:    "inspect",
		Summary: "Show a stack's expiry, owner, and annotations",
		Description: `Show everything warden knows about one stack: its expiry state and
remaining time, its bound owner, whether it carries conflicting tags
from another plugin, and its annotation lines.

The holder is a player (by name or identity) or a container name. The
slot is an index, or "cursor" for the stack a player holds on the
cursor.`,
		Usage: "warden inspect <holder> <slot|cursor> [flags]",
		Examples: []cli.Example{
			{Description: "Inspect the first hotbar slot", Command: "warden inspect Alice 0 -f world.yaml"},
			{Description: "As seen by another player", Command: "warden inspect spawn-chest 13 --viewer Bob -f world.yaml"},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("inspect", &params)
		},
		Run: func(args []string) error {
			if err := cli.RequireArgs(args, 2, "warden inspect <holder> <slot|cursor>"); err != nil {
				return err
			}
			s, err := params.open(env, "inspect")
			if err != nil {
				return err
			}
			location, it, err := s.occupied(args[0], args[1])
			if err != nil {
				return err
			}

			viewer := uuid.Nil
			if params.Viewer != "" {
				player, ok := s.world.FindPlayer(params.Viewer)
				if !ok {
					return cli.NotFound("no player named %q", params.Viewer)
				}
				viewer = player.ID()
			} else if player, ok := s.world.FindPlayer(args[0]); ok {
				viewer = player.ID()
			}

			result := inspectResult{
				Location: location.label,
				Info:     s.items.Describe(it, viewer),
			}
			for _, line := range it.Lore() {
				result.Lore = append(result.Lore, line.Text())
			}
			if done, err := params.EmitJSON(env.stdout, result); done {
				return err
			}

			width := params.Width
			if width <= 0 {
				width = min(cli.TerminalWidth(env.stdout, maxPanelWidth), maxPanelWidth)
			}
			fmt.Fprintln(env.stdout, renderPanel(env.stdout, s, it, result, width))
			return nil
		},
	}
}

// renderPanel draws the bordered info panel. Every content line is
// truncated to fit, so long owner names or annotation lines never wrap
// the border.
func renderPanel(w io.Writer, s *session, it item.Item, result inspectResult, width int) string {
	renderer := lipgloss.NewRenderer(w)
	title := renderer.NewStyle().Bold(true)
	label := renderer.NewStyle().Faint(true)

	var lines []string
	lines = append(lines, title.Render(it.String())+label.Render("  "+result.Location))

	field := func(name, value string) {
		lines = append(lines, label.Render(fmt.Sprintf("%-13s", name))+value)
	}

	status := string(result.Status)
	if result.ExpireAt != nil {
		remaining := ttl.FormatRemaining(result.Remaining)
		if result.Status == itemmeta.StatusExpired {
			remaining = ttl.Expired
		}
		field("expires", fmt.Sprintf("%s (%s)", s.timestamp(*result.ExpireAt), remaining))
	}
	field("status", status)

	if result.Owner != nil {
		owner := result.OwnerName
		if result.ViewerOwns {
			owner += " (viewer)"
		}
		field("bound to", owner)
	} else {
		field("bound to", "nobody")
	}
	field("attributable", yesNo(result.Attributable))
	field("conflicts", yesNo(result.Conflicting))

	if it.HasLore() {
		lines = append(lines, "")
		for _, line := range it.Lore() {
			lines = append(lines, renderLine(renderer, line))
		}
	}

	inner := max(width-4, 8)
	for index, line := range lines {
		lines[index] = ansi.Truncate(line, inner, "…")
	}

	panel := renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Width(inner + 2)
	return panel.Render(strings.Join(lines, "\n"))
}

func renderLine(renderer *lipgloss.Renderer, line item.Line) string {
	var builder strings.Builder
	for _, segment := range line.Segments {
		style := renderer.NewStyle()
		if color, ok := loreColors[segment.Color]; ok {
			style = style.Foreground(color)
		}
		builder.WriteString(style.Render(segment.Text))
	}
	return builder.String()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
