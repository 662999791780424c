package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var bannerCmd = &cobra.Command{
	Use:    "banner",
	Short:  "Display the SCADA-MCP ASCII banner",
	RunE:   runBanner,
	Hidden: true, // Hidden command for screenshots
}

func runBanner(cmd *cobra.Command, args []string) error {
	displayBanner()
	return nil
}

func displayBanner() {
	asciiArt := []string{
		"  ███████╗ ██████╗ █████╗ ██████╗  █████╗     ███╗   ███╗ ██████╗██████╗ ",
		"  ██╔════╝██╔════╝██╔══██╗██╔══██╗██╔══██╗    ████╗ ████║██╔════╝██╔══██╗",
		"  ███████╗██║     ███████║██║  ██║███████║    ██╔████╔██║██║     ██████╔╝",
		"  ╚════██║██║     ██╔══██║██║  ██║██╔══██║    ██║╚██╔╝██║██║     ██╔═══╝ ",
		"  ███████║╚██████╗██║  ██║██████╔╝██║  ██║    ██║ ╚═╝ ██║╚██████╗██║     ",
		"  ╚══════╝ ╚═════╝╚═╝  ╚═╝╚═════╝ ╚═╝  ╚═╝    ╚═╝     ╚═╝ ╚═════╝╚═╝     ",
	}

	colors := []lipgloss.Color{
		lipgloss.Color("#00d4ff"), // Electric blue
		lipgloss.Color("#00ffcc"), // Cyan
		lipgloss.Color("#00ff88"), // Green
		lipgloss.Color("#ffd400"), // Amber
		lipgloss.Color("#ff8800"), // Orange
		lipgloss.Color("#00d4ff"), // Electric blue
	}

	fmt.Println()
	for i, line := range asciiArt {
		style := lipgloss.NewStyle().
			Foreground(colors[i%len(colors)]).
			Bold(true)
		fmt.Println(style.Render(line))
	}

	fmt.Println()
	subtitleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9090a0")).
		Italic(true)
	fmt.Println(subtitleStyle.Render("MCP gateway for SCADA-LTS process data"))
	fmt.Println()
}
