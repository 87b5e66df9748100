package setup

import (
	"charm.land/lipgloss/v2"

	"github.com/kavin/cogniquest/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██████╗  ██████╗ ███╗   ██╗██╗ ██████╗ ██╗   ██╗███████╗███████╗████████╗
 ██╔════╝██╔═══██╗██╔════╝ ████╗  ██║██║██╔═══██╗██║   ██║██╔════╝██╔════╝╚══██╔══╝
 ██║     ██║   ██║██║  ███╗██╔██╗ ██║██║██║   ██║██║   ██║█████╗  ███████╗   ██║
 ██║     ██║   ██║██║   ██║██║╚██╗██║██║██║▄▄ ██║██║   ██║██╔══╝  ╚════██║   ██║
 ╚██████╗╚██████╔╝╚██████╔╝██║ ╚████║██║╚██████╔╝╚██████╔╝███████╗███████║   ██║
  ╚═════╝ ╚═════╝  ╚═════╝ ╚═╝  ╚═══╝╚═╝ ╚══▀▀═╝  ╚═════╝ ╚══════╝╚══════╝   ╚═╝`

const bannerCompact = "C O G N I Q U E S T"

// RenderBanner returns the banner styled in the primary color, or a compact
// fallback for terminals narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < lipgloss.Width(bannerArt)+2 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
