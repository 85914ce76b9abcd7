package version

import (
	"fmt"
	"log"
	"strings"

	"github.com/parelius/plinth/theme"
)

var (
	Name        = "plinth"
	Authors     = "Parelius"
	Description = "A solid base for apps behind reverse proxies"
	Version     = "v0.2.1"
	Commit      = "none"
	Date        = "nowish"
	User        = "local"
)

const (
	GithubHomeText  = "github.com/parelius/plinth"
	GithubHomeUri   = "https://github.com/parelius/plinth"
	GithubLatestUri = "https://github.com/parelius/plinth/releases/latest"
)

func PrintVersionInfo(extendedInfo bool, vlog *log.Logger) {
	githubUri := theme.Hyperlink(GithubHomeUri, GithubHomeText)
	latestUri := theme.Hyperlink(GithubLatestUri, Version)

	var b strings.Builder

	b.WriteString(theme.ColourSplash(`
╔═══════════════════════════════════════════════════╗
│  ██████╗ ██╗     ██╗███╗   ██╗████████╗██╗  ██╗   │
│  ██╔══██╗██║     ██║████╗  ██║╚══██╔══╝██║  ██║   │
│  ██████╔╝██║     ██║██╔██╗ ██║   ██║   ███████║   │
│  ██╔═══╝ ██║     ██║██║╚██╗██║   ██║   ██╔══██║   │
│  ██║     ███████╗██║██║ ╚████║   ██║   ██║  ██║   │
│  ╚═╝     ╚══════╝╚═╝╚═╝  ╚═══╝   ╚═╝   ╚═╝  ╚═╝   │` + "\n"))

	b.WriteString(theme.ColourSplash("│  "))
	b.WriteString(theme.StyleUrl(githubUri))
	b.WriteString("  ")
	b.WriteString(theme.ColourVersion(latestUri))
	b.WriteString(theme.ColourSplash("          │\n"))
	b.WriteString(theme.ColourSplash("╚═══════════════════════════════════════════════════╝"))

	if extendedInfo {
		b.WriteString("\n")
		b.WriteString(fmt.Sprintf(" Commit: %s\n", Commit))
		b.WriteString(fmt.Sprintf("  Built: %s\n", Date))
		b.WriteString(fmt.Sprintf("  Using: %s\n", User))
	}

	vlog.Println(b.String())
}
