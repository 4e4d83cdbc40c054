package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/qirim/qirim/internal/ui/theme"
)

// Tagline is shown under the banner.
const Tagline = "Qırımtatar tilini ögrenelik! Let's learn Crimean Tatar!"

const bannerArt = `
  ██████╗ ██╗██████╗ ██╗███╗   ███╗
 ██╔═══██╗██║██╔══██╗██║████╗ ████║
 ██║   ██║██║██████╔╝██║██╔████╔██║
 ██║▄▄ ██║██║██╔══██╗██║██║╚██╔╝██║
 ╚██████╔╝██║██║  ██║██║██║ ╚═╝ ██║
  ╚══▀▀═╝ ╚═╝╚═╝  ╚═╝╚═╝╚═╝     ╚═╝`

const bannerCompact = "Q I R I M"

// RenderBanner returns the banner in the primary color, or a one-line
// fallback below 40 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 40 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
